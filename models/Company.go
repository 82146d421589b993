package models

import "time"

// Company is a developer or publisher record. Both roles share one table;
// the role a company plays is determined by the relation it fills on a
// Review, not by a type column. Name is the identity key: lookups are
// case-insensitive and whitespace-trimmed so ingestion never creates two
// rows for "id Software" and "ID SOFTWARE ".
type Company struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;not null" json:"name"`
	Slug        string    `gorm:"uniqueIndex" json:"slug"`
	FoundedYear int       `json:"foundedYear"`
	Website     string    `json:"website"`
	Description string    `gorm:"type:text" json:"description"`
	Logo        string    `gorm:"default:placeholder" json:"logo"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

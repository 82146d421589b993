package models

import "time"

// Review is one game's catalog entry, including the editorial review.
// Title and slug are unique; the developer/publisher pair is set at
// creation by the ingestion pipeline and never reassigned.
type Review struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Title         string     `gorm:"uniqueIndex;not null" json:"title"`
	Slug          string     `gorm:"uniqueIndex" json:"slug"`
	PublisherID   uint       `gorm:"not null" json:"publisherId"`
	Publisher     Company    `gorm:"foreignKey:PublisherID" json:"publisher"`
	DeveloperID   uint       `gorm:"not null" json:"developerId"`
	Developer     Company    `gorm:"foreignKey:DeveloperID" json:"developer"`
	Description   string     `gorm:"type:text" json:"description"`
	ReleaseDate   time.Time  `json:"releaseDate"`
	ReviewScore   *float64   `json:"reviewScore"`
	ReviewText    string     `gorm:"type:text" json:"reviewText"`
	ReviewedByID  *uint      `json:"reviewedById"`
	ReviewedBy    *User      `gorm:"foreignKey:ReviewedByID" json:"reviewedBy,omitempty"`
	ReviewDate    *time.Time `json:"reviewDate"`
	FeaturedImage string     `gorm:"default:placeholder" json:"featuredImage"`
	IsFeatured    bool       `gorm:"default:false" json:"isFeatured"`
	IsPublished   bool       `gorm:"default:false" json:"isPublished"`
	Genres        []Genre    `gorm:"many2many:review_genres" json:"genres"`
	Likes         []User     `gorm:"many2many:review_likes" json:"-"`
	Views         uint       `gorm:"default:0" json:"views"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

package models

// Genre is created on demand during ingestion and never duplicated.
// Matching is exact (case-sensitive) on name.
type Genre struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}

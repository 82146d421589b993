package models

import "time"

// UserReview is a reader's own rating + text for a game. At most one per
// (user, review) pair; the pair is checked at submission time rather than
// enforced with a unique constraint. Moderated like comments, except the
// author always sees their own pending review.
type UserReview struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ReviewID   uint      `gorm:"not null" json:"reviewId"`
	Review     Review    `gorm:"foreignKey:ReviewID" json:"-"`
	AuthorID   uint      `gorm:"not null" json:"authorId"`
	Author     User      `gorm:"foreignKey:AuthorID" json:"author"`
	Rating     int       `gorm:"not null" json:"rating"`
	ReviewText string    `gorm:"type:text" json:"reviewText"`
	Approved   bool      `gorm:"default:false" json:"approved"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UserReviewInput - for rating submission and edits
type UserReviewInput struct {
	Rating     int    `json:"rating" validate:"required,gte=1,lte=5"`
	ReviewText string `json:"reviewText" validate:"max=8000"`
}

// ModerationInput - batch approve/reject over a set of IDs
type ModerationInput struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
	IDs    []uint `json:"ids" validate:"required,min=1,dive,gte=1"`
}

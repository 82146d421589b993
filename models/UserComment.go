package models

import "time"

// UserComment is a free-text comment on a Review. Comments start out
// unapproved and are invisible in public listings until an admin
// approves them. An author edit drops the comment back to unapproved.
type UserComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ReviewID  uint      `gorm:"not null" json:"reviewId"`
	Review    Review    `gorm:"foreignKey:ReviewID" json:"-"`
	AuthorID  uint      `gorm:"not null" json:"authorId"`
	Author    User      `gorm:"foreignKey:AuthorID" json:"author"`
	Body      string    `gorm:"type:text;not null" json:"body"`
	Approved  bool      `gorm:"default:false" json:"approved"`
	CreatedAt time.Time `json:"createdAt"`
}

// CommentInput - for comment submission and edits
type CommentInput struct {
	Body string `json:"body" validate:"required,min=1,max=4000"`
}

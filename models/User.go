package models

import "time"

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email" validate:"required,email"`
	Password  string    `gorm:"not null" json:"-" validate:"required,min=6"`
	Name      string    `gorm:"not null" json:"name" validate:"required,min=3,max=50"`
	Role      string    `gorm:"not null;default:user" json:"role" validate:"required,oneof=user admin"`
	Avatar    string    `json:"avatar"`
	IsBanned  bool      `gorm:"default:false" json:"isBanned"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// LoginInput - used to validate login requests
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterInput - used to validate registration requests
type RegisterInput struct {
	Username string `json:"username" form:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required,min=6,max=100"`
}

func (u *User) IsAdmin() bool {
	return u.Role == "admin"
}

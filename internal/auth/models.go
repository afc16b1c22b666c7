package auth

import "time"

type User struct {
	UserID         string    `gorm:"primaryKey" json:"id"`
	Email          string    `gorm:"uniqueIndex;not null" json:"email"`
	Password       string    `json:"password" gorm:"-"`
	HashedPassword string    `json:"-" gorm:"not null"`
	FirstName      string    `gorm:"not null" json:"first_name"`
	LastName       string    `gorm:"not null" json:"last_name"`
	Phone          string    `json:"phone,omitempty"`
	CreatedAt      time.Time `json:"-"`
	UpdatedAt      time.Time `json:"-"`
}

func (User) TableName() string { return "app_auth.users" }

// PublicUser is the projection returned by the API. Never carries the hash.
type PublicUser struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:        u.UserID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
	}
}

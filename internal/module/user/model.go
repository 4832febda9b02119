package user

import (
	"time"

	"github.com/google/uuid"
)

// UserType distinguishes the two marketplace roles.
// A farmer account is a seller; everyone else buys.
type UserType string

const (
	UserTypeBuyer  UserType = "buyer"
	UserTypeSeller UserType = "seller"
)

// IsValid checks if the user type is valid.
func (t UserType) IsValid() bool {
	return t == UserTypeBuyer || t == UserTypeSeller
}

// User represents a registered marketplace user.
type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Avatar       string    `json:"avatar"`
	UserType     UserType  `json:"userType" gorm:"column:user_type;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`

	// Preferences
	EmailNotifications bool `json:"emailNotifications" gorm:"column:email_notifications;default:true"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName returns the database table name.
func (User) TableName() string {
	return "users"
}

// IsSeller returns true if the user sells produce.
func (u *User) IsSeller() bool {
	return u.UserType == UserTypeSeller
}

// IsBuyer returns true if the user is a buyer.
func (u *User) IsBuyer() bool {
	return u.UserType == UserTypeBuyer
}

package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminUsername is the reserved account that sees invoices of every location.
const AdminUsername = "admin"

// User is a dashboard account. Its username is also the invoice location
// the account is allowed to see.
type User struct {
	ID        uuid.UUID `gorm:"type:varchar(36);primary_key" json:"id"`
	Username  string    `gorm:"size:255;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new user
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the User model
func (User) TableName() string {
	return "dashboard_users"
}

// IsAdmin reports whether the user has unrestricted access
func (u *User) IsAdmin() bool {
	return IsAdmin(u.Username)
}

// IsAdmin reports whether username is the reserved administrator account
func IsAdmin(username string) bool {
	return username == AdminUsername
}

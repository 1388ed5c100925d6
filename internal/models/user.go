// Package models contains data structures for the application's domain models.
package models

import (
	"time"
)

// Role distinguishes developers who publish ideas from regular browsers.
type Role string

const (
	RoleDeveloper Role = "DEVELOPER"
	RoleRegular   Role = "REGULAR"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleDeveloper || r == RoleRegular
}

// User represents an account in the marketplace.
type User struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"size:120;not null" json:"name"`
	Email            string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Password         string    `gorm:"not null" json:"-"`
	Image            string    `json:"image"`
	Role             Role      `gorm:"size:16;not null;default:REGULAR" json:"role"`
	SubscriptionTier string    `gorm:"size:32;not null;default:FREE" json:"subscription_tier"`
	Phone            *string   `gorm:"size:64" json:"phone"`
	Website          *string   `json:"website"`
	Location         *string   `gorm:"size:255" json:"location"`
	Bio              *string   `gorm:"type:text" json:"bio"`
	LinkedIn         *string   `gorm:"column:linkedin" json:"linkedin"`
	Twitter          *string   `json:"twitter"`
	GitHub           *string   `gorm:"column:github" json:"github"`
	IsPublic         bool      `gorm:"not null" json:"is_public"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Owner is the public projection of a user attached to ideas.
type Owner struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image"`
	Role  Role   `json:"role"`
}

// Profile is the contact and visibility view of a user.
type Profile struct {
	ID       uint    `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Image    string  `json:"image"`
	Role     Role    `json:"role"`
	Phone    *string `json:"phone"`
	Website  *string `json:"website"`
	Location *string `json:"location"`
	Bio      *string `json:"bio"`
	LinkedIn *string `json:"linkedin"`
	Twitter  *string `json:"twitter"`
	GitHub   *string `json:"github"`
	IsPublic bool    `json:"is_public"`
}

// ToOwner returns the public owner projection of u.
func (u *User) ToOwner() *Owner {
	if u == nil {
		return nil
	}
	return &Owner{ID: u.ID, Name: u.Name, Image: u.Image, Role: u.Role}
}

// ToProfile returns the profile projection of u.
func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:       u.ID,
		Name:     u.Name,
		Email:    u.Email,
		Image:    u.Image,
		Role:     u.Role,
		Phone:    u.Phone,
		Website:  u.Website,
		Location: u.Location,
		Bio:      u.Bio,
		LinkedIn: u.LinkedIn,
		Twitter:  u.Twitter,
		GitHub:   u.GitHub,
		IsPublic: u.IsPublic,
	}
}

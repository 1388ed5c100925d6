package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Idea is a marketplace listing owned by a single user.
type Idea struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	Title       string                      `gorm:"size:200;not null" json:"title"`
	Description string                      `gorm:"type:text;not null" json:"description"`
	Screenshots datatypes.JSONSlice[string] `json:"screenshots"`
	Views       int64                       `gorm:"not null;default:0" json:"views"`
	Likes       int64                       `gorm:"not null;default:0" json:"likes"`
	OwnerID     uint                        `gorm:"not null;index" json:"owner_id"`
	User        *User                       `gorm:"foreignKey:OwnerID;constraint:OnDelete:CASCADE" json:"-"`
	Owner       *Owner                      `gorm:"-" json:"owner,omitempty"`
	CreatedAt   time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`
}

// AfterFind exposes the preloaded owner through its public projection.
func (i *Idea) AfterFind(_ *gorm.DB) error {
	if i.User != nil {
		i.Owner = i.User.ToOwner()
	}
	return nil
}

// OwnedBy reports whether userID owns the idea.
func (i *Idea) OwnedBy(userID uint) bool {
	return i.OwnerID == userID
}

package models

import "time"

// Favorite links a user to an idea. The same row records both the "like"
// and the "favorite" state; at most one exists per (user, idea).
type Favorite struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_idea" json:"user_id"`
	IdeaID    uint      `gorm:"not null;uniqueIndex:idx_favorites_user_idea;index" json:"idea_id"`
	CreatedAt time.Time `json:"created_at"`

	User *User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Idea *Idea `gorm:"foreignKey:IdeaID;constraint:OnDelete:CASCADE" json:"idea,omitempty"`
}

// FavoriteIdea is an idea annotated with the time the caller favorited it.
type FavoriteIdea struct {
	Idea
	FavoritedAt time.Time `json:"favorited_at"`
}

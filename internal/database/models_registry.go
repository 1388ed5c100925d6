package database

import "ideahub/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
// Order matters for AutoMigrate: referenced tables come first.
func PersistentModels() []any {
	return []any{
		&models.User{},
		&models.Idea{},
		&models.Favorite{},
		&models.Problem{},
	}
}

package database

import (
	"plume/internal/models"

	"gorm.io/gorm"
)

// PersistentModels returns every entity managed by AutoMigrate, parents
// before dependents so foreign keys resolve on first migration.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Group{},
		&models.Post{},
		&models.Comment{},
		&models.Like{},
		&models.Follow{},
	}
}

// Migrate creates or updates the schema, including the ON DELETE CASCADE /
// SET NULL foreign keys, the follow pair unique index and the
// no-self-follow check constraint declared on the models.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(PersistentModels()...)
}

package database

import (
	"github.com/Payphone-Digital/addressbook/config"
	"github.com/Payphone-Digital/addressbook/internal/model"
	"gorm.io/gorm"
)

// AutoMigrate creates the credential table, and the contacts table when
// contacts are kept in postgres.
func AutoMigrate(db *gorm.DB, store string) error {
	models := []interface{}{&model.User{}}
	if store == config.StorePostgres {
		models = append(models, &model.Contact{})
	}
	return db.AutoMigrate(models...)
}

package auth

import (
	"gorm.io/gorm"

	"github.com/ApptChat/AC-Backend/internal/db"
)

// Init creates the auth schema and tables.
func Init(d *gorm.DB) error {
	if err := db.EnsureSchema(d, "app_auth"); err != nil {
		return err
	}
	return d.AutoMigrate(&User{})
}

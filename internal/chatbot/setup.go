package chatbot

import (
	"gorm.io/gorm"

	"github.com/ApptChat/AC-Backend/internal/db"
)

// Init creates the chat schema and tables. Appointments are migrated here even
// though only the NLP collaborator writes them; both processes share this
// database and this service owns the schema.
func Init(d *gorm.DB) error {
	if err := db.EnsureSchema(d, "app_chat"); err != nil {
		return err
	}
	return d.AutoMigrate(&ChatSession{}, &Appointment{})
}

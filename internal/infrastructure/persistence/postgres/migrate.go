package postgres

import (
	"fmt"

	"gorm.io/gorm"
)

// AllModels lista os models na ordem de criação das tabelas
func AllModels() []any {
	return []any{
		&UserModel{},
		&PostModel{},
		&ConversationModel{},
		&MessageModel{},
		&NotificationModel{},
	}
}

// Migrate cria ou atualiza o schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/valueobjects"
)

const testTimeout = 2 * time.Second

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := NewSQLiteConnection("file:" + uuid.NewString() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, repo interface {
	Create(context.Context, *entities.User) error
}, email string) *entities.User {
	t.Helper()

	mail, err := valueobjects.NewEmail(email)
	require.NoError(t, err)

	user := &entities.User{
		Email:        mail,
		Name:         "Ana",
		PasswordHash: "hash",
		Phone:        "600000000",
		Address:      "Calle Mayor 1",
		IsActive:     true,
	}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func newPost(userID, title string) *entities.Post {
	return &entities.Post{
		Title:       title,
		Description: "Prenda en buen estado",
		Category:    entities.CategoryShirts,
		Size:        entities.SizeM,
		Gender:      entities.GenderUnisex,
		State:       entities.StateUsed,
		Photos:      []string{"http://localhost/uploads/a.jpg"},
		UserID:      userID,
		IsAvailable: true,
	}
}

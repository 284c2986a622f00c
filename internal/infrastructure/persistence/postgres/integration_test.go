//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
)

// Executar com: go test -tags integration ./internal/infrastructure/persistence/postgres/...
func newPostgresDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("revistete"),
		tcpostgres.WithUsername("revistete"),
		tcpostgres.WithPassword("revistete"),
		tcpostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), gormConfig("error"))
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	return db
}

func TestPostgresIntegration(t *testing.T) {
	ctx := context.Background()
	db := newPostgresDB(t)

	users := NewUserRepository(db, 5*time.Second)
	posts := NewPostRepository(db, 5*time.Second)
	convs := NewConversationRepository(db, 5*time.Second)
	msgs := NewMessageRepository(db, 5*time.Second)
	notifications := NewNotificationRepository(db, 5*time.Second)

	a := createUser(t, users, "a@example.com")
	b := createUser(t, users, "b@example.com")

	t.Run("busca textual com ESCAPE", func(t *testing.T) {
		post := newPost(a.ID, "Vestido 100% LINO")
		require.NoError(t, posts.Create(ctx, post))

		found, total, err := posts.List(ctx, repositories.PostFilters{Search: "100% lino"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, post.ID, found[0].ID)
	})

	t.Run("conversa, mensagens e notificações", func(t *testing.T) {
		conv := &entities.Conversation{Participants: [2]string{a.ID, b.ID}, LastMessageAt: time.Now()}
		require.NoError(t, convs.Create(ctx, conv))

		msg := &entities.Message{ConversationID: conv.ID, SenderID: a.ID, Body: "hola"}
		require.NoError(t, msgs.Create(ctx, msg))
		require.NoError(t, convs.UpdateLastMessage(ctx, conv.ID, msg.ID, msg.CreatedAt))

		affected, err := msgs.MarkConversationRead(ctx, conv.ID, b.ID, time.Now())
		require.NoError(t, err)
		assert.EqualValues(t, 1, affected)

		n := &entities.Notification{
			UserID:                b.ID,
			Type:                  entities.NotificationTypeMessage,
			Title:                 "Nuevo mensaje",
			Body:                  "hola",
			RelatedConversationID: &conv.ID,
			Metadata:              map[string]any{"preview": "hola"},
		}
		require.NoError(t, notifications.Create(ctx, n))

		count, err := notifications.CountUnread(ctx, b.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})
}

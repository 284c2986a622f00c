package services

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/infrastructure/logging"
	"github.com/rafabene/revistete-backend/internal/infrastructure/persistence/postgres"
)

var _ = Describe("NotificationService", func() {
	var (
		env   *testEnv
		ana   *entities.User
		bruno *entities.User
	)

	BeforeEach(func() {
		env = newTestEnv()
		ana = env.register("Ana", "ana@example.com")
		bruno = env.register("Bruno", "bruno@example.com")
	})

	notify := func(userID string, title string) *entities.Notification {
		n := env.notifications.Create(env.ctx, CreateNotificationInput{
			UserID: userID,
			Type:   entities.NotificationTypeSystem,
			Title:  title,
			Body:   "cuerpo",
		})
		Expect(n).NotTo(BeNil())
		return n
	}

	Describe("Create", func() {
		It("ignora notificação sem usuário ou com tipo inválido", func() {
			Expect(env.notifications.Create(env.ctx, CreateNotificationInput{Type: entities.NotificationTypeSystem, Title: "x"})).To(BeNil())
			Expect(env.notifications.Create(env.ctx, CreateNotificationInput{UserID: ana.ID, Type: "spam", Title: "x"})).To(BeNil())
			Expect(env.countRows(&postgres.NotificationModel{}, "1 = 1")).To(BeZero())
			Expect(env.events.keys()).To(BeEmpty())
		})

		It("devolve nil quando a gravação falha", func() {
			svc := NewNotificationService(failingNotificationRepo{env.notifRepo}, env.users, env.posts, env.events, logging.NewNopLogger())

			Expect(svc.Create(env.ctx, CreateNotificationInput{UserID: ana.ID, Type: entities.NotificationTypeSystem, Title: "x"})).To(BeNil())
		})

		It("grava não lida e hidrata usuário e publicação relacionados", func() {
			post := env.createPost(bruno, "Camiseta")
			n := env.notifications.Create(env.ctx, CreateNotificationInput{
				UserID:        ana.ID,
				Type:          entities.NotificationTypeGarmentInterest,
				Title:         "Interés",
				Body:          "Bruno quiere tu prenda",
				RelatedUserID: &bruno.ID,
				RelatedPostID: &post.ID,
			})
			Expect(n).NotTo(BeNil())
			Expect(n.IsRead).To(BeFalse())

			list, err := env.notifications.List(env.ctx, ana.ID, false, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Items).To(HaveLen(1))
			Expect(list.Items[0].RelatedUser.Name).To(Equal("Bruno"))
			Expect(list.Items[0].RelatedPost.Title).To(Equal("Camiseta"))
		})
	})

	Describe("List", func() {
		It("ordena da mais recente, filtra não lidas e conta", func() {
			first := notify(ana.ID, "uno")
			notify(ana.ID, "dos")
			notify(ana.ID, "tres")
			notify(bruno.ID, "ajena")

			_, err := env.notifications.MarkRead(env.ctx, first.ID, ana.ID)
			Expect(err).NotTo(HaveOccurred())

			all, err := env.notifications.List(env.ctx, ana.ID, false, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(all.Items).To(HaveLen(3))
			Expect(all.Items[0].Notification.Title).To(Equal("tres"))
			Expect(all.UnreadCount).To(Equal(int64(2)))

			unread, err := env.notifications.List(env.ctx, ana.ID, true, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(unread.Items).To(HaveLen(2))

			limited, err := env.notifications.List(env.ctx, ana.ID, false, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(limited.Items).To(HaveLen(1))
			Expect(limited.UnreadCount).To(Equal(int64(2)))
		})
	})

	Describe("MarkRead", func() {
		It("marca uma vez e preserva o horário original", func() {
			n := notify(ana.ID, "uno")
			fixed := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
			env.notifications.now = func() time.Time { return fixed }

			view, err := env.notifications.MarkRead(env.ctx, n.ID, ana.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(view.Notification.IsRead).To(BeTrue())
			Expect(view.Notification.ReadAt.Equal(fixed)).To(BeTrue())

			env.notifications.now = func() time.Time { return fixed.Add(time.Hour) }
			again, err := env.notifications.MarkRead(env.ctx, n.ID, ana.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(again.Notification.ReadAt.Equal(fixed)).To(BeTrue())
		})

		It("trata notificação de outro usuário, inexistente e ID malformado como not found", func() {
			n := notify(bruno.ID, "ajena")

			for _, id := range []string{n.ID, "00000000-0000-0000-0000-000000000000", "abc"} {
				_, err := env.notifications.MarkRead(env.ctx, id, ana.ID)
				Expect(err).To(MatchError(domainerrors.ErrNotificationNotFound))
			}
			Expect(env.countRows(&postgres.NotificationModel{}, "is_read = ?", true)).To(BeZero())
		})
	})

	Describe("MarkAllRead", func() {
		It("devolve a quantidade afetada e zero na segunda chamada", func() {
			notify(ana.ID, "uno")
			notify(ana.ID, "dos")
			notify(bruno.ID, "ajena")

			count, err := env.notifications.MarkAllRead(env.ctx, ana.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(int64(2)))

			count, err = env.notifications.MarkAllRead(env.ctx, ana.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(BeZero())

			unread, err := env.notifications.UnreadCount(env.ctx, bruno.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(unread).To(Equal(int64(1)))
		})
	})

	Describe("Delete", func() {
		It("remove somente notificações do próprio usuário", func() {
			mine := notify(ana.ID, "mía")
			theirs := notify(bruno.ID, "ajena")

			Expect(env.notifications.Delete(env.ctx, theirs.ID, ana.ID)).To(MatchError(domainerrors.ErrNotificationNotFound))
			Expect(env.notifications.Delete(env.ctx, "abc", ana.ID)).To(MatchError(domainerrors.ErrNotificationNotFound))

			Expect(env.notifications.Delete(env.ctx, mine.ID, ana.ID)).To(Succeed())
			Expect(env.notifications.Delete(env.ctx, mine.ID, ana.ID)).To(MatchError(domainerrors.ErrNotificationNotFound))
			Expect(env.countRows(&postgres.NotificationModel{}, "1 = 1")).To(Equal(int64(1)))
		})
	})
})

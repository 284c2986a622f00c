package services

import (
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/infrastructure/i18n"
	"github.com/rafabene/revistete-backend/internal/infrastructure/logging"
	"github.com/rafabene/revistete-backend/internal/infrastructure/messaging"
	"github.com/rafabene/revistete-backend/internal/infrastructure/persistence/postgres"
)

var _ = Describe("MessageService", func() {
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

	send := func(from, to, body string) *SendResult {
		res, err := env.messageSvc.SendMessage(env.ctx, SendMessageInput{SenderID: from, RecipientID: to, Body: body})
		Expect(err).NotTo(HaveOccurred())
		return res
	}

	Describe("SendMessage", func() {
		It("cria conversa, mensagem e uma notificação no primeiro contato", func() {
			res := send(ana.ID, bruno.ID, "  hola  ")

			Expect(res.ConversationCreated).To(BeTrue())
			Expect(res.NotificationDelivered).To(BeTrue())
			Expect(res.Message.Body).To(Equal("hola"))
			Expect(res.Message.IsRead).To(BeFalse())
			Expect(res.Sender.Name).To(Equal("Ana"))
			Expect(res.Conversation.Participants).To(ConsistOf(ana.ID, bruno.ID))

			Expect(env.countRows(&postgres.ConversationModel{}, "1 = 1")).To(Equal(int64(1)))
			Expect(env.countRows(&postgres.MessageModel{}, "1 = 1")).To(Equal(int64(1)))

			conv, err := env.conversations.FindByID(env.ctx, res.Conversation.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(conv.LastMessageID).NotTo(BeNil())
			Expect(*conv.LastMessageID).To(Equal(res.Message.ID))

			list, err := env.notifications.List(env.ctx, bruno.ID, false, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Items).To(HaveLen(1))
			n := list.Items[0].Notification
			Expect(n.Type).To(Equal(entities.NotificationTypeMessage))
			Expect(n.Title).To(Equal("Nuevo mensaje"))
			Expect(n.Body).To(Equal("Ana te envió un mensaje: hola"))
			Expect(*n.RelatedUserID).To(Equal(ana.ID))
			Expect(*n.RelatedConversationID).To(Equal(res.Conversation.ID))
			Expect(n.Metadata).To(HaveKeyWithValue("message_id", res.Message.ID))
			Expect(list.Items[0].RelatedUser.Name).To(Equal("Ana"))

			Expect(env.events.keys()).To(ConsistOf(
				messaging.RoutingKeyNotificationCreated,
				messaging.RoutingKeyMessageSent,
			))
		})

		It("reutiliza a conversa do par em qualquer direção", func() {
			first := send(ana.ID, bruno.ID, "hola")
			second := send(bruno.ID, ana.ID, "qué tal")

			Expect(second.ConversationCreated).To(BeFalse())
			Expect(second.Conversation.ID).To(Equal(first.Conversation.ID))
			Expect(env.countRows(&postgres.ConversationModel{}, "1 = 1")).To(Equal(int64(1)))
		})

		It("responde pelo ID da conversa", func() {
			first := send(ana.ID, bruno.ID, "hola")

			res, err := env.messageSvc.SendMessage(env.ctx, SendMessageInput{
				SenderID:       bruno.ID,
				ConversationID: first.Conversation.ID,
				Body:           "buenas",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Conversation.ID).To(Equal(first.Conversation.ID))

			list, err := env.notifications.List(env.ctx, ana.ID, false, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Items).To(HaveLen(1))
		})

		It("bloqueia quem não participa da conversa", func() {
			carla := env.register("Carla", "carla@example.com")
			first := send(ana.ID, bruno.ID, "hola")

			_, err := env.messageSvc.SendMessage(env.ctx, SendMessageInput{
				SenderID:       carla.ID,
				ConversationID: first.Conversation.ID,
				Body:           "intrusa",
			})
			Expect(err).To(MatchError(domainerrors.ErrNotParticipant))
			Expect(env.countRows(&postgres.MessageModel{}, "1 = 1")).To(Equal(int64(1)))
		})

		DescribeTable("valida o tamanho do corpo",
			func(body string, expected error) {
				_, err := env.messageSvc.SendMessage(env.ctx, SendMessageInput{SenderID: ana.ID, RecipientID: bruno.ID, Body: body})
				if expected == nil {
					Expect(err).NotTo(HaveOccurred())
					return
				}
				Expect(err).To(MatchError(expected))
				Expect(env.countRows(&postgres.ConversationModel{}, "1 = 1")).To(BeZero())
			},
			Entry("vazio", "", domainerrors.ErrEmptyMessage),
			Entry("só espaços", "   \n\t", domainerrors.ErrEmptyMessage),
			Entry("um caractere", "a", nil),
			Entry("exatamente o limite", strings.Repeat("a", entities.MaxMessageLength), nil),
			Entry("limite em runas", strings.Repeat("ñ", entities.MaxMessageLength), nil),
			Entry("acima do limite", strings.Repeat("a", entities.MaxMessageLength+1), domainerrors.ErrMessageTooLong),
		)

		It("rejeita mensagem para si mesmo", func() {
			_, err := env.messageSvc.SendMessage(env.ctx, SendMessageInput{SenderID: ana.ID, RecipientID: ana.ID, Body: "hola"})
			Expect(err).To(MatchError(domainerrors.ErrSelfMessage))
		})

		It("exige destinatário ou conversa", func() {
			_, err := env.messageSvc.SendMessage(env.ctx, SendMessageInput{SenderID: ana.ID, Body: "hola"})
			Expect(err).To(MatchError(domainerrors.ErrRecipientRequired))
		})

		It("devolve not found para destinatário inexistente e para conversa inexistente", func() {
			_, err := env.messageSvc.SendMessage(env.ctx, SendMessageInput{
				SenderID:    ana.ID,
				RecipientID: "00000000-0000-0000-0000-000000000000",
				Body:        "hola",
			})
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))

			_, err = env.messageSvc.SendMessage(env.ctx, SendMessageInput{
				SenderID:       ana.ID,
				ConversationID: "00000000-0000-0000-0000-000000000000",
				Body:           "hola",
			})
			Expect(err).To(MatchError(domainerrors.ErrConversationNotFound))
		})

		It("rejeita IDs malformados", func() {
			_, err := env.messageSvc.SendMessage(env.ctx, SendMessageInput{SenderID: ana.ID, RecipientID: "abc", Body: "hola"})
			Expect(err).To(MatchError(domainerrors.ErrInvalidID))
		})

		It("mantém o envio quando a notificação falha", func() {
			logger := logging.NewNopLogger()
			translator, err := i18n.NewEmbeddedService("es")
			Expect(err).NotTo(HaveOccurred())

			failing := NewNotificationService(failingNotificationRepo{env.notifRepo}, env.users, env.posts, env.events, logger)
			svc := NewMessageService(env.conversations, env.messages, env.users, failing,
				translator, env.events, postgres.NewUnitOfWork(env.db), logger)

			res, err := svc.SendMessage(env.ctx, SendMessageInput{SenderID: ana.ID, RecipientID: bruno.ID, Body: "hola"})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.NotificationDelivered).To(BeFalse())
			Expect(env.countRows(&postgres.MessageModel{}, "1 = 1")).To(Equal(int64(1)))
			Expect(env.countRows(&postgres.NotificationModel{}, "1 = 1")).To(BeZero())
		})

		It("trunca a prévia da notificação em 50 caracteres", func() {
			long := strings.Repeat("x", 60)
			send(ana.ID, bruno.ID, long)

			list, err := env.notifications.List(env.ctx, bruno.ID, false, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(list.Items[0].Notification.Body).To(Equal("Ana te envió un mensaje: " + strings.Repeat("x", 50) + "..."))
		})
	})

	Describe("ListConversations", func() {
		It("ordena pela atividade mais recente com a última mensagem", func() {
			carla := env.register("Carla", "carla@example.com")
			send(ana.ID, bruno.ID, "hola bruno")
			send(carla.ID, ana.ID, "hola ana")

			summaries, err := env.messageSvc.ListConversations(env.ctx, ana.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(HaveLen(2))
			Expect(summaries[0].OtherParticipant.ID).To(Equal(carla.ID))
			Expect(summaries[0].LastMessage).To(Equal("hola ana"))
			Expect(summaries[1].OtherParticipant.ID).To(Equal(bruno.ID))
			Expect(summaries[1].UnreadCount).To(BeZero())

			send(bruno.ID, ana.ID, "sigo aquí")
			summaries, err = env.messageSvc.ListConversations(env.ctx, ana.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries[0].OtherParticipant.ID).To(Equal(bruno.ID))
			Expect(summaries[0].LastMessage).To(Equal("sigo aquí"))
		})

		It("devolve lista vazia para quem não tem conversas", func() {
			summaries, err := env.messageSvc.ListConversations(env.ctx, ana.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(summaries).To(BeEmpty())
		})
	})

	Describe("ListMessages", func() {
		It("lista em ordem e marca como lidas só as recebidas", func() {
			first := send(ana.ID, bruno.ID, "uno")
			send(bruno.ID, ana.ID, "dos")
			send(ana.ID, bruno.ID, "tres")
			convID := first.Conversation.ID

			views, err := env.messageSvc.ListMessages(env.ctx, convID, bruno.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(views).To(HaveLen(3))
			Expect(views[0].Message.Body).To(Equal("uno"))
			Expect(views[2].Message.Body).To(Equal("tres"))
			Expect(views[0].Sender.Name).To(Equal("Ana"))
			Expect(views[0].Message.IsRead).To(BeFalse(), "a lista reflete o estado anterior à leitura")

			Expect(env.countRows(&postgres.MessageModel{}, "sender_id = ? AND is_read = ?", ana.ID, true)).To(Equal(int64(2)))
			Expect(env.countRows(&postgres.MessageModel{}, "sender_id = ? AND is_read = ?", bruno.ID, false)).To(Equal(int64(1)))

			again, err := env.messageSvc.ListMessages(env.ctx, convID, bruno.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(again[0].Message.IsRead).To(BeTrue())
			readAt := *again[0].Message.ReadAt

			third, err := env.messageSvc.ListMessages(env.ctx, convID, bruno.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(third[0].Message.ReadAt.Equal(readAt)).To(BeTrue())
		})

		It("bloqueia quem não participa e valida o ID", func() {
			carla := env.register("Carla", "carla@example.com")
			first := send(ana.ID, bruno.ID, "hola")

			_, err := env.messageSvc.ListMessages(env.ctx, first.Conversation.ID, carla.ID)
			Expect(err).To(MatchError(domainerrors.ErrNotParticipant))

			_, err = env.messageSvc.ListMessages(env.ctx, "abc", ana.ID)
			Expect(err).To(MatchError(domainerrors.ErrInvalidID))

			_, err = env.messageSvc.ListMessages(env.ctx, "00000000-0000-0000-0000-000000000000", ana.ID)
			Expect(err).To(MatchError(domainerrors.ErrConversationNotFound))
		})
	})
})

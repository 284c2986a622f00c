package services

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	domainerrors "github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
	"github.com/rafabene/revistete-backend/internal/infrastructure/persistence/postgres"
)

var _ = Describe("AuthService", func() {
	var env *testEnv

	BeforeEach(func() {
		env = newTestEnv()
	})

	Describe("Register", func() {
		It("cria o usuário com e-mail normalizado e senha com hash", func() {
			res, err := env.auth.Register(env.ctx, RegisterInput{
				Name:     "  Ana  ",
				Email:    "Ana@Example.COM",
				Password: "secret123",
				Phone:    "600000000",
				Address:  "Calle Mayor 1",
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Token).NotTo(BeEmpty())
			Expect(res.User.ID).NotTo(BeEmpty())
			Expect(res.User.Email.String()).To(Equal("ana@example.com"))
			Expect(res.User.Name).To(Equal("Ana"))
			Expect(res.User.PasswordHash).NotTo(Equal("secret123"))
			Expect(res.User.IsActive).To(BeTrue())
		})

		It("rejeita e-mail repetido ignorando maiúsculas", func() {
			env.register("Ana", "ana@example.com")

			_, err := env.auth.Register(env.ctx, RegisterInput{
				Name:     "Outra Ana",
				Email:    "ANA@example.com",
				Password: "secret123",
				Phone:    "611111111",
				Address:  "Calle Menor 2",
			})
			Expect(err).To(MatchError(domainerrors.ErrEmailAlreadyExists))
			Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindConflict))

			users, err := env.users.List(env.ctx, repositories.UserFilters{})
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
		})

		It("devolve erro de validação por campo", func() {
			_, err := env.auth.Register(env.ctx, RegisterInput{
				Name:     "A",
				Email:    "not-an-email",
				Password: "123",
			})
			Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindValidation))

			var de *domainerrors.DomainError
			Expect(domainerrors.As(err, &de)).To(BeTrue())
			fields := map[string]string{}
			for _, f := range de.Fields {
				fields[f.Field] = f.Tag
			}
			Expect(fields).To(Equal(map[string]string{
				"name":     "min",
				"email":    "email",
				"password": "min",
				"phone":    "required",
				"address":  "required",
			}))
			Expect(env.countRows(&postgres.UserModel{}, "1 = 1")).To(BeZero())
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			env.register("Ana", "ana@example.com")
		})

		It("emite token com credenciais corretas", func() {
			res, err := env.auth.Login(env.ctx, "ANA@example.com", "secret123")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Token).NotTo(BeEmpty())
			Expect(res.User.Email.String()).To(Equal("ana@example.com"))
		})

		It("não distingue e-mail desconhecido, senha errada e conta desativada", func() {
			_, unknown := env.auth.Login(env.ctx, "nobody@example.com", "secret123")
			_, wrong := env.auth.Login(env.ctx, "ana@example.com", "wrong-password")

			user, err := env.users.FindByEmail(env.ctx, "ana@example.com")
			Expect(err).NotTo(HaveOccurred())
			user.IsActive = false
			Expect(env.users.Update(env.ctx, user)).To(Succeed())
			_, inactive := env.auth.Login(env.ctx, "ana@example.com", "secret123")

			for _, err := range []error{unknown, wrong, inactive} {
				Expect(err).To(MatchError(domainerrors.ErrInvalidCredentials))
				Expect(err.Error()).To(Equal(domainerrors.ErrInvalidCredentials.Error()))
			}
		})
	})

	Describe("Authenticate", func() {
		It("recarrega o usuário do token", func() {
			user := env.register("Ana", "ana@example.com")
			res, err := env.auth.Login(env.ctx, "ana@example.com", "secret123")
			Expect(err).NotTo(HaveOccurred())

			got, err := env.auth.Authenticate(env.ctx, res.Token)
			Expect(err).NotTo(HaveOccurred())
			Expect(got.ID).To(Equal(user.ID))
		})

		It("rejeita token ausente, inválido e de conta desativada com o mesmo erro", func() {
			user := env.register("Ana", "ana@example.com")
			res, err := env.auth.Login(env.ctx, "ana@example.com", "secret123")
			Expect(err).NotTo(HaveOccurred())

			_, missing := env.auth.Authenticate(env.ctx, "")
			_, garbage := env.auth.Authenticate(env.ctx, "not.a.token")

			user.IsActive = false
			Expect(env.users.Update(env.ctx, user)).To(Succeed())
			_, inactive := env.auth.Authenticate(env.ctx, res.Token)

			for _, err := range []error{missing, garbage, inactive} {
				Expect(err).To(MatchError(domainerrors.ErrUnauthorized))
			}
		})

		It("rejeita token de usuário removido", func() {
			user := env.register("Ana", "ana@example.com")
			res, err := env.auth.Login(env.ctx, "ana@example.com", "secret123")
			Expect(err).NotTo(HaveOccurred())
			Expect(env.users.Delete(env.ctx, user.ID)).To(Succeed())

			_, err = env.auth.Authenticate(env.ctx, res.Token)
			Expect(err).To(MatchError(domainerrors.ErrUnauthorized))
		})
	})

	Describe("GetSelf", func() {
		It("devolve not found para ID inexistente", func() {
			_, err := env.auth.GetSelf(env.ctx, "00000000-0000-0000-0000-000000000000")
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))
		})
	})
})

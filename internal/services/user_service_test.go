package services

import (
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
)

func strPtr(s string) *string { return &s }

var _ = Describe("UserService", func() {
	var (
		env *testEnv
		ana *entities.User
	)

	BeforeEach(func() {
		env = newTestEnv()
		ana = env.register("Ana", "ana@example.com")
	})

	Describe("GetPublicProfile", func() {
		It("limita às publicações disponíveis mais recentes", func() {
			for i := 0; i < ProfilePostsLimit+2; i++ {
				env.createPost(ana, fmt.Sprintf("Prenda %02d", i))
			}

			profile, err := env.userSvc.GetPublicProfile(env.ctx, ana.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(profile.User.Name).To(Equal("Ana"))
			Expect(profile.Posts).To(HaveLen(ProfilePostsLimit))
			Expect(profile.Posts[0].Title).To(Equal(fmt.Sprintf("Prenda %02d", ProfilePostsLimit+1)))
		})

		It("devolve not found e erro de validação", func() {
			_, err := env.userSvc.GetPublicProfile(env.ctx, "00000000-0000-0000-0000-000000000000")
			Expect(err).To(MatchError(domainerrors.ErrUserNotFound))

			_, err = env.userSvc.GetPublicProfile(env.ctx, "abc")
			Expect(err).To(MatchError(domainerrors.ErrInvalidID))
		})
	})

	Describe("UpdateProfile", func() {
		It("altera só os campos informados", func() {
			user, err := env.userSvc.UpdateProfile(env.ctx, UpdateProfileInput{UserID: ana.ID, Name: strPtr("  Ana María ")})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Name).To(Equal("Ana María"))
			Expect(user.Phone).To(Equal("600000000"))

			stored, err := env.users.FindByID(env.ctx, ana.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.Name).To(Equal("Ana María"))
			Expect(stored.Email.String()).To(Equal("ana@example.com"))
		})

		It("rejeita nome curto e telefone em branco", func() {
			_, err := env.userSvc.UpdateProfile(env.ctx, UpdateProfileInput{
				UserID: ana.ID,
				Name:   strPtr("A"),
				Phone:  strPtr("   "),
			})
			var de *domainerrors.DomainError
			Expect(domainerrors.As(err, &de)).To(BeTrue())
			Expect(de.Kind).To(Equal(domainerrors.KindValidation))
			Expect(de.Fields).To(HaveLen(2))
			Expect(de.Fields[0].Tag).To(Equal("min"))
			Expect(de.Fields[0].Param).To(Equal("2"))
			Expect(de.Fields[1].Tag).To(Equal("notblank"))
		})

		It("completa cidade e país pelo geocoding inverso", func() {
			user, err := env.userSvc.UpdateProfile(env.ctx, UpdateProfileInput{
				UserID:   ana.ID,
				Location: &ProfileLocationInput{Latitude: 40.4168, Longitude: -3.7038},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(env.geocoder.calls).To(Equal(1))
			Expect(user.Location.City).To(Equal("Madrid"))
			Expect(user.Location.Country).To(Equal("España"))
			Expect(user.Location.Coordinates()).To(Equal([2]float64{-3.7038, 40.4168}))
		})

		It("não consulta o geocoder quando cidade e país vêm informados", func() {
			user, err := env.userSvc.UpdateProfile(env.ctx, UpdateProfileInput{
				UserID:   ana.ID,
				Location: &ProfileLocationInput{Latitude: 41.39, Longitude: 2.17, City: "Barcelona", Country: "España"},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(env.geocoder.calls).To(BeZero())
			Expect(user.Location.City).To(Equal("Barcelona"))
		})

		It("mantém a localização quando o geocoder falha", func() {
			env.geocoder.err = errors.New("nominatim down")

			user, err := env.userSvc.UpdateProfile(env.ctx, UpdateProfileInput{
				UserID:   ana.ID,
				Location: &ProfileLocationInput{Latitude: 40.4168, Longitude: -3.7038},
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(user.Location).NotTo(BeNil())
			Expect(user.Location.City).To(BeEmpty())
		})

		It("rejeita coordenadas fora de faixa", func() {
			_, err := env.userSvc.UpdateProfile(env.ctx, UpdateProfileInput{
				UserID:   ana.ID,
				Location: &ProfileLocationInput{Latitude: 95, Longitude: 10},
			})
			Expect(err).To(MatchError(domainerrors.ErrInvalidCoordinates))
		})
	})

	Describe("ListUsers", func() {
		It("filtra apenas ativos", func() {
			bruno := env.register("Bruno", "bruno@example.com")
			bruno.IsActive = false
			Expect(env.users.Update(env.ctx, bruno)).To(Succeed())

			users, err := env.userSvc.ListUsers(env.ctx, repositories.UserFilters{ActiveOnly: true})
			Expect(err).NotTo(HaveOccurred())
			Expect(users).To(HaveLen(1))
			Expect(users[0].ID).To(Equal(ana.ID))
		})
	})
})

var _ = Describe("GeocodingService", func() {
	var env *testEnv

	BeforeEach(func() {
		env = newTestEnv()
	})

	It("devolve o lugar resolvido", func() {
		place, err := NewGeocodingService(env.geocoder).Reverse(env.ctx, 40.4168, -3.7038)
		Expect(err).NotTo(HaveOccurred())
		Expect(place.City).To(Equal("Madrid"))
	})

	It("valida as coordenadas antes de consultar", func() {
		_, err := NewGeocodingService(env.geocoder).Reverse(env.ctx, 91, 0)
		Expect(err).To(MatchError(domainerrors.ErrInvalidCoordinates))
		Expect(env.geocoder.calls).To(BeZero())
	})

	It("propaga erro transitório do provedor", func() {
		env.geocoder.err = domainerrors.Wrap(domainerrors.ErrUpstreamTimeout, errors.New("timeout"))
		_, err := NewGeocodingService(env.geocoder).Reverse(env.ctx, 40.4, -3.7)
		Expect(domainerrors.KindOf(err)).To(Equal(domainerrors.KindTransient))
	})
})

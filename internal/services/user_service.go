package services

import (
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
	"github.com/rafabene/revistete-backend/internal/domain/valueobjects"
)

// ProfilePostsLimit é o máximo de publicações no perfil público
const ProfilePostsLimit = 20

// UserService contém a lógica de negócio para usuários
type UserService struct {
	userRepo repositories.UserRepository
	postRepo repositories.PostRepository
	geocoder ports.Geocoder
	logger   ports.Logger
}

// NewUserService cria um novo UserService. O geocoder é opcional.
func NewUserService(
	userRepo repositories.UserRepository,
	postRepo repositories.PostRepository,
	geocoder ports.Geocoder,
	logger ports.Logger,
) *UserService {
	return &UserService{
		userRepo: userRepo,
		postRepo: postRepo,
		geocoder: geocoder,
		logger:   logger,
	}
}

// PublicProfile é o perfil visível para qualquer visitante
type PublicProfile struct {
	User  *entities.User
	Posts []*entities.Post
}

// GetPublicProfile busca o usuário e suas publicações disponíveis mais recentes
func (s *UserService) GetPublicProfile(ctx context.Context, id string) (*PublicProfile, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}

	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByUser(ctx, user.ID, ProfilePostsLimit)
	if err != nil {
		return nil, errors.Internal(err)
	}

	return &PublicProfile{User: user, Posts: posts}, nil
}

// GetUser busca um usuário por ID
func (s *UserService) GetUser(ctx context.Context, id string) (*entities.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if user == nil {
		return nil, errors.ErrUserNotFound
	}
	return user, nil
}

// ProfileLocationInput usa latitude/longitude separadas, como o formulário
// de perfil envia
type ProfileLocationInput struct {
	Latitude  float64
	Longitude float64
	City      string
	Country   string
}

// UpdateProfileInput representa uma atualização parcial do perfil.
// Campos nil não são alterados.
type UpdateProfileInput struct {
	UserID   string
	Name     *string
	Phone    *string
	Address  *string
	Location *ProfileLocationInput
}

// UpdateProfile aplica a atualização. Cidade e país ausentes são
// preenchidos pelo geocoding inverso quando disponível.
func (s *UserService) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*entities.User, error) {
	input.Name = trimPtr(input.Name)
	input.Phone = trimPtr(input.Phone)
	input.Address = trimPtr(input.Address)

	var fields []errors.FieldError
	if input.Name != nil {
		switch n := utf8.RuneCountInString(*input.Name); {
		case n < MinNameLength:
			fields = append(fields, fieldError("name", "min", strconv.Itoa(MinNameLength), *input.Name))
		case n > MaxNameLength:
			fields = append(fields, fieldError("name", "max", strconv.Itoa(MaxNameLength), *input.Name))
		}
	}
	if input.Phone != nil && *input.Phone == "" {
		fields = append(fields, fieldError("phone", "notblank", "", ""))
	}
	if input.Address != nil && *input.Address == "" {
		fields = append(fields, fieldError("address", "notblank", "", ""))
	}
	if len(fields) > 0 {
		return nil, errors.NewValidation("error.validation.detail", fields...)
	}

	user, err := s.GetUser(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}
	if input.Address != nil {
		user.Address = *input.Address
	}
	if input.Location != nil {
		location, err := s.resolveLocation(ctx, input.Location)
		if err != nil {
			return nil, err
		}
		user.Location = location
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, errors.Internal(err)
	}

	s.logger.Info("profile updated", "user_id", user.ID)
	return user, nil
}

func (s *UserService) resolveLocation(ctx context.Context, in *ProfileLocationInput) (*valueobjects.GeoPoint, error) {
	loc := &LocationInput{
		Longitude: in.Longitude,
		Latitude:  in.Latitude,
		City:      in.City,
		Country:   in.Country,
	}

	point, err := loc.toGeoPoint()
	if err != nil || point == nil {
		return point, err
	}

	if s.geocoder == nil || (strings.TrimSpace(in.City) != "" && strings.TrimSpace(in.Country) != "") {
		return point, nil
	}

	place, err := s.geocoder.Reverse(ctx, point.Latitude(), point.Longitude())
	if err != nil {
		s.logger.Warn("reverse geocoding failed, keeping location without place names",
			"lat", point.Latitude(), "lng", point.Longitude(), "error", err)
		return point, nil
	}

	if loc.City == "" {
		loc.City = place.City
	}
	if loc.Country == "" {
		loc.Country = place.Country
	}
	if loc.Address == "" {
		loc.Address = place.Address
	}
	return loc.toGeoPoint()
}

// ListUsers lista usuários com filtros
func (s *UserService) ListUsers(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	users, err := s.userRepo.List(ctx, filters)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return users, nil
}

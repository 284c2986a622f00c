package dto

import (
	"time"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/valueobjects"
	"github.com/rafabene/revistete-backend/internal/services"
)

// RegisterRequest representa a requisição de cadastro
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,notblank,min=2,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Phone    string `json:"phone" binding:"required,notblank"`
	Address  string `json:"address" binding:"required,notblank"`
}

// LoginRequest representa a requisição de login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest representa a atualização parcial do perfil
type UpdateProfileRequest struct {
	Name     *string                 `json:"name" binding:"omitempty,min=2,max=50"`
	Phone    *string                 `json:"phone" binding:"omitempty,notblank"`
	Address  *string                 `json:"address" binding:"omitempty,notblank"`
	Location *ProfileLocationRequest `json:"location"`
}

// ProfileLocationRequest usa latitude/longitude separadas
type ProfileLocationRequest struct {
	Latitude  float64 `json:"latitude" binding:"gte=-90,lte=90"`
	Longitude float64 `json:"longitude" binding:"gte=-180,lte=180"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
}

// ToInput converte a requisição para o input do serviço
func (r *UpdateProfileRequest) ToInput(userID string) services.UpdateProfileInput {
	input := services.UpdateProfileInput{
		UserID:  userID,
		Name:    r.Name,
		Phone:   r.Phone,
		Address: r.Address,
	}
	if r.Location != nil {
		input.Location = &services.ProfileLocationInput{
			Latitude:  r.Location.Latitude,
			Longitude: r.Location.Longitude,
			City:      r.Location.City,
			Country:   r.Location.Country,
		}
	}
	return input
}

// LocationResponse é um GeoJSON Point com coordenadas [longitude, latitude]
type LocationResponse struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
	City        string     `json:"city,omitempty"`
	Country     string     `json:"country,omitempty"`
	Address     string     `json:"address,omitempty"`
}

// ToLocationResponse converte um GeoPoint (nil quando ausente)
func ToLocationResponse(p *valueobjects.GeoPoint) *LocationResponse {
	if p == nil {
		return nil
	}
	return &LocationResponse{
		Type:        valueobjects.GeoPointType,
		Coordinates: p.Coordinates(),
		City:        p.City,
		Country:     p.Country,
		Address:     p.Address,
	}
}

// UserResponse representa um usuário sem dados sensíveis
type UserResponse struct {
	ID        string            `json:"id"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	Phone     string            `json:"phone"`
	Address   string            `json:"address"`
	Location  *LocationResponse `json:"location,omitempty"`
	AvatarURL *string           `json:"avatar_url,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// UserSummary é o resumo de usuário embutido em outras respostas
type UserSummary struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// ToUserResponse converte uma entidade User para UserResponse
func ToUserResponse(user *entities.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email.String(),
		Name:      user.Name,
		Phone:     user.Phone,
		Address:   user.Address,
		Location:  ToLocationResponse(user.Location),
		AvatarURL: user.AvatarURL,
		CreatedAt: user.CreatedAt,
	}
}

// ToUserResponses converte uma lista de entidades User para UserResponse
func ToUserResponses(users []*entities.User) []UserResponse {
	responses := make([]UserResponse, len(users))
	for i, user := range users {
		responses[i] = ToUserResponse(user)
	}
	return responses
}

// ToUserSummary devolve nil para usuário ausente (ex.: removido)
func ToUserSummary(user *entities.User) *UserSummary {
	if user == nil {
		return nil
	}
	return &UserSummary{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email.String(),
		AvatarURL: user.AvatarURL,
	}
}

// AuthResponse é a resposta de cadastro e login
type AuthResponse struct {
	Envelope
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      UserResponse `json:"user"`
}

// UserEnvelope embrulha um único usuário
type UserEnvelope struct {
	Envelope
	User UserResponse `json:"user"`
}

// PublicProfileResponse é o perfil público com as publicações do usuário
type PublicProfileResponse struct {
	Envelope
	User  UserResponse   `json:"user"`
	Posts []PostResponse `json:"posts"`
}

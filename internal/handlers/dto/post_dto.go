package dto

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
	"github.com/rafabene/revistete-backend/internal/services"
)

// CreatePostRequest aceita JSON ou multipart. No multipart, photos são
// arquivos e location chega como uma string JSON.
type CreatePostRequest struct {
	Title       string          `json:"title" form:"title" binding:"required,notblank,max=100"`
	Description string          `json:"description" form:"description" binding:"required,notblank,max=1000"`
	Category    string          `json:"category" form:"category" binding:"required,oneof=camisetas pantalones vestidos abrigos zapatos accesorios"`
	Size        string          `json:"size" form:"size" binding:"required,oneof=XS S M L XL XXL"`
	Gender      string          `json:"gender" form:"gender" binding:"required,oneof=hombre mujer unisex niño niña"`
	State       string          `json:"state" form:"state" binding:"omitempty,oneof=new used"`
	Photos      []string        `json:"photos" form:"-"`
	Location    json.RawMessage `json:"location" swaggertype:"object" form:"-"`
}

// UpdatePostRequest é parcial: campos ausentes não mudam.
// location: null remove a localização.
type UpdatePostRequest struct {
	Title          *string         `json:"title" form:"title" binding:"omitempty,notblank,max=100"`
	Description    *string         `json:"description" form:"description" binding:"omitempty,notblank,max=1000"`
	Category       *string         `json:"category" form:"category" binding:"omitempty,oneof=camisetas pantalones vestidos abrigos zapatos accesorios"`
	Size           *string         `json:"size" form:"size" binding:"omitempty,oneof=XS S M L XL XXL"`
	Gender         *string         `json:"gender" form:"gender" binding:"omitempty,oneof=hombre mujer unisex niño niña"`
	State          *string         `json:"state" form:"state" binding:"omitempty,oneof=new used"`
	IsAvailable    *bool           `json:"is_available" form:"is_available"`
	Photos         []string        `json:"photos" form:"-"`
	ExistingPhotos []string        `json:"existing_photos" form:"-"`
	Location       json.RawMessage `json:"location" swaggertype:"object" form:"-"`
}

// LocationRequest é um GeoJSON Point: coordinates = [longitude, latitude]
type LocationRequest struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	Address     string    `json:"address"`
}

// ParseLocation interpreta o campo location. Ausente devolve (nil, false);
// null devolve (nil, true), que significa remover.
func ParseLocation(raw []byte) (loc *services.LocationInput, clear bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, false, nil
	}
	if bytes.Equal(raw, []byte("null")) {
		return nil, true, nil
	}

	var req LocationRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, false, domainerrors.ErrInvalidCoordinates
	}
	if len(req.Coordinates) == 0 {
		return nil, false, nil
	}
	if len(req.Coordinates) != 2 {
		return nil, false, domainerrors.ErrInvalidCoordinates
	}
	return &services.LocationInput{
		Longitude: req.Coordinates[0],
		Latitude:  req.Coordinates[1],
		City:      req.City,
		Country:   req.Country,
		Address:   req.Address,
	}, false, nil
}

// ListPostsQuery são os filtros da listagem pública
type ListPostsQuery struct {
	Category string `form:"category" binding:"omitempty,oneof=camisetas pantalones vestidos abrigos zapatos accesorios"`
	Size     string `form:"size" binding:"omitempty,oneof=XS S M L XL XXL"`
	Gender   string `form:"gender" binding:"omitempty,oneof=hombre mujer unisex niño niña"`
	State    string `form:"state" binding:"omitempty,oneof=new used"`
	Featured string `form:"featured"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,gte=1"`
	Limit    int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
}

// ToFilters converte a query para os filtros do repositório.
// featured só filtra quando vale "true".
func (q *ListPostsQuery) ToFilters() repositories.PostFilters {
	f := repositories.PostFilters{
		Search: q.Search,
		Page:   q.Page,
		Limit:  q.Limit,
	}
	if q.Category != "" {
		v := entities.Category(q.Category)
		f.Category = &v
	}
	if q.Size != "" {
		v := entities.Size(q.Size)
		f.Size = &v
	}
	if q.Gender != "" {
		v := entities.Gender(q.Gender)
		f.Gender = &v
	}
	if q.State != "" {
		v := entities.State(q.State)
		f.State = &v
	}
	if q.Featured == "true" {
		featured := true
		f.Featured = &featured
	}
	return f
}

// PostResponse representa uma publicação
type PostResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Category    string            `json:"category"`
	Size        string            `json:"size"`
	Gender      string            `json:"gender"`
	State       string            `json:"state"`
	Photos      []string          `json:"photos"`
	Location    *LocationResponse `json:"location,omitempty"`
	User        *UserSummary      `json:"user,omitempty"`
	IsAvailable bool              `json:"is_available"`
	IsFeatured  bool              `json:"is_featured"`
	Views       int64             `json:"views"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// ToPostResponse converte uma publicação com o dono opcional
func ToPostResponse(post *entities.Post, owner *entities.User) PostResponse {
	photos := post.Photos
	if photos == nil {
		photos = []string{}
	}
	return PostResponse{
		ID:          post.ID,
		Title:       post.Title,
		Description: post.Description,
		Category:    string(post.Category),
		Size:        string(post.Size),
		Gender:      string(post.Gender),
		State:       string(post.State),
		Photos:      photos,
		Location:    ToLocationResponse(post.Location),
		User:        ToUserSummary(owner),
		IsAvailable: post.IsAvailable,
		IsFeatured:  post.IsFeatured,
		Views:       post.Views,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
	}
}

// ToPostViewResponses converte as views do serviço
func ToPostViewResponses(views []*services.PostView) []PostResponse {
	out := make([]PostResponse, 0, len(views))
	for _, v := range views {
		out = append(out, ToPostResponse(v.Post, v.Owner))
	}
	return out
}

// ToPostResponses converte publicações sem o resumo do dono
func ToPostResponses(posts []*entities.Post) []PostResponse {
	out := make([]PostResponse, 0, len(posts))
	for _, p := range posts {
		out = append(out, ToPostResponse(p, nil))
	}
	return out
}

// PostEnvelope embrulha uma publicação
type PostEnvelope struct {
	Envelope
	Post PostResponse `json:"post"`
}

// PostsEnvelope embrulha as publicações de um usuário
type PostsEnvelope struct {
	Envelope
	Count int            `json:"count"`
	Posts []PostResponse `json:"posts"`
}

// PostPageResponse é uma página da listagem
type PostPageResponse struct {
	Envelope
	Count int            `json:"count"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
	Posts []PostResponse `json:"posts"`
}

// ToPostPageResponse converte a página do serviço
func ToPostPageResponse(page *services.PostPage) PostPageResponse {
	posts := ToPostViewResponses(page.Items)
	return PostPageResponse{
		Envelope: Envelope{Success: true},
		Count:    len(posts),
		Total:    page.Total,
		Page:     page.Page,
		Pages:    page.Pages,
		Posts:    posts,
	}
}

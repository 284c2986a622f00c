package services

import (
	"context"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel/attribute"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/ports"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
	"github.com/rafabene/revistete-backend/internal/domain/valueobjects"
)

// UploadsPath é o prefixo público dos arquivos enviados
const UploadsPath = "/uploads/"

// PostService contém a lógica de negócio das publicações
type PostService struct {
	postRepo repositories.PostRepository
	userRepo repositories.UserRepository
	storage  ports.FileStorage
	logger   ports.Logger
}

// NewPostService cria um novo PostService
func NewPostService(
	postRepo repositories.PostRepository,
	userRepo repositories.UserRepository,
	storage ports.FileStorage,
	logger ports.Logger,
) *PostService {
	return &PostService{
		postRepo: postRepo,
		userRepo: userRepo,
		storage:  storage,
		logger:   logger,
	}
}

// Upload é um arquivo recebido em um formulário multipart
type Upload struct {
	Filename string
	Content  io.Reader
}

// PostView é uma publicação com o resumo do dono
type PostView struct {
	Post  *entities.Post
	Owner *entities.User
}

// PostPage é uma página da listagem
type PostPage struct {
	Items []*PostView
	Total int64
	Page  int
	Limit int
	Pages int
}

// CreatePostInput representa os dados de uma nova publicação.
// Uploads têm precedência sobre PhotoURLs.
type CreatePostInput struct {
	UserID        string
	Title         string
	Description   string
	Category      string
	Size          string
	Gender        string
	State         string
	PhotoURLs     []string
	Uploads       []Upload
	UploadBaseURL string
	Location      *LocationInput
}

// Create valida e persiste a publicação com o chamador como dono
func (s *PostService) Create(ctx context.Context, input CreatePostInput) (_ *PostView, err error) {
	ctx, end := startSpan(ctx, "PostService.Create", attribute.String("user.id", input.UserID))
	defer func() { end(err) }()

	if input.State == "" {
		input.State = string(entities.StateUsed)
	}

	post := &entities.Post{
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Category:    entities.Category(input.Category),
		Size:        entities.Size(input.Size),
		Gender:      entities.Gender(input.Gender),
		State:       entities.State(input.State),
		UserID:      input.UserID,
		IsAvailable: true,
	}
	if err := validatePostFields(post); err != nil {
		return nil, err
	}

	location, err := input.Location.toGeoPoint()
	if err != nil {
		return nil, err
	}
	post.Location = location

	photos := cleanURLs(input.PhotoURLs)
	if len(input.Uploads) == 0 && len(photos) == 0 {
		return nil, errors.ErrPhotoRequired
	}
	if len(input.Uploads) > 0 {
		photos, err = s.saveUploads(ctx, input.Uploads, input.UploadBaseURL)
		if err != nil {
			return nil, err
		}
	}
	if err := checkPhotoCount(photos); err != nil {
		s.removeUploads(ctx, photos)
		return nil, err
	}
	post.Photos = photos

	if err := s.postRepo.Create(ctx, post); err != nil {
		s.removeUploads(ctx, photos)
		return nil, errors.Internal(err)
	}

	s.logger.Info("post created", "post_id", post.ID, "user_id", post.UserID, "photos", len(post.Photos))
	return s.withOwner(ctx, post)
}

// List devolve uma página de publicações disponíveis
func (s *PostService) List(ctx context.Context, filters repositories.PostFilters) (*PostPage, error) {
	filters.Normalize()
	filters.Search = strings.TrimSpace(filters.Search)

	posts, total, err := s.postRepo.List(ctx, filters)
	if err != nil {
		return nil, errors.Internal(err)
	}

	views, err := s.withOwners(ctx, posts)
	if err != nil {
		return nil, err
	}

	pages := int(total / int64(filters.Limit))
	if total%int64(filters.Limit) != 0 {
		pages++
	}

	return &PostPage{
		Items: views,
		Total: total,
		Page:  filters.Page,
		Limit: filters.Limit,
		Pages: pages,
	}, nil
}

// GetByID devolve a publicação e incrementa o contador de visualizações
func (s *PostService) GetByID(ctx context.Context, id string) (*PostView, error) {
	if err := validateID("id", id); err != nil {
		return nil, err
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.postRepo.IncrementViews(ctx, post.ID); err != nil {
		return nil, errors.Internal(err)
	}
	post.Views++

	return s.withOwner(ctx, post)
}

// ListByUser lista as publicações disponíveis de um usuário, mais recentes primeiro
func (s *PostService) ListByUser(ctx context.Context, userID string) ([]*PostView, error) {
	if err := validateID("id", userID); err != nil {
		return nil, err
	}

	posts, err := s.postRepo.ListByUser(ctx, userID, 0)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return s.withOwners(ctx, posts)
}

// UpdatePostInput representa uma atualização parcial. Ponteiros nil não
// alteram o campo.
//
// Fotos: com uploads, as novas URLs são anexadas a ExistingPhotos (ou às
// fotos atuais, se ExistingPhotos for nil). Sem uploads, ExistingPhotos
// e depois PhotoURLs substituem a lista; se ambos forem nil nada muda.
type UpdatePostInput struct {
	PostID         string
	UserID         string
	Title          *string
	Description    *string
	Category       *string
	Size           *string
	Gender         *string
	State          *string
	IsAvailable    *bool
	ExistingPhotos []string
	PhotoURLs      []string
	Uploads        []Upload
	UploadBaseURL  string
	Location       *LocationInput
	ClearLocation  bool
}

// Update aplica a atualização. Só o dono pode alterar a publicação.
func (s *PostService) Update(ctx context.Context, input UpdatePostInput) (_ *PostView, err error) {
	ctx, end := startSpan(ctx, "PostService.Update", attribute.String("post.id", input.PostID))
	defer func() { end(err) }()

	if err := validateID("id", input.PostID); err != nil {
		return nil, err
	}

	post, err := s.findPost(ctx, input.PostID)
	if err != nil {
		return nil, err
	}
	if !post.IsOwnedBy(input.UserID) {
		return nil, errors.ErrNotPostOwner
	}

	if input.Title != nil {
		post.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		post.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		post.Category = entities.Category(*input.Category)
	}
	if input.Size != nil {
		post.Size = entities.Size(*input.Size)
	}
	if input.Gender != nil {
		post.Gender = entities.Gender(*input.Gender)
	}
	if input.State != nil {
		post.State = entities.State(*input.State)
	}
	if input.IsAvailable != nil {
		post.IsAvailable = *input.IsAvailable
	}
	if err := validatePostFields(post); err != nil {
		return nil, err
	}

	switch {
	case input.ClearLocation:
		post.Location = nil
	case input.Location != nil:
		location, err := mergeLocation(input.Location, post.Location)
		if err != nil {
			return nil, err
		}
		post.Location = location
	}

	previous := append([]string{}, post.Photos...)
	var uploaded []string
	switch {
	case len(input.Uploads) > 0:
		uploaded, err = s.saveUploads(ctx, input.Uploads, input.UploadBaseURL)
		if err != nil {
			return nil, err
		}
		base := post.Photos
		if input.ExistingPhotos != nil {
			base = cleanURLs(input.ExistingPhotos)
		}
		post.Photos = append(append([]string{}, base...), uploaded...)
	case input.ExistingPhotos != nil:
		post.Photos = cleanURLs(input.ExistingPhotos)
	case input.PhotoURLs != nil:
		post.Photos = cleanURLs(input.PhotoURLs)
	}

	if len(post.Photos) == 0 {
		s.removeUploads(ctx, uploaded)
		return nil, errors.ErrPhotoRequired
	}
	if err := checkPhotoCount(post.Photos); err != nil {
		s.removeUploads(ctx, uploaded)
		return nil, err
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		s.removeUploads(ctx, uploaded)
		return nil, errors.Internal(err)
	}
	s.removeUploads(ctx, droppedPhotos(previous, post.Photos))

	s.logger.Info("post updated", "post_id", post.ID)
	return s.withOwner(ctx, post)
}

// Delete remove a publicação. Só o dono pode removê-la.
func (s *PostService) Delete(ctx context.Context, id, userID string) error {
	if err := validateID("id", id); err != nil {
		return err
	}

	post, err := s.findPost(ctx, id)
	if err != nil {
		return err
	}
	if !post.IsOwnedBy(userID) {
		return errors.ErrNotPostOwner
	}

	if err := s.postRepo.Delete(ctx, post.ID); err != nil {
		return errors.Internal(err)
	}

	s.removeUploads(ctx, post.Photos)
	s.logger.Info("post deleted", "post_id", post.ID, "user_id", userID)
	return nil
}

func (s *PostService) findPost(ctx context.Context, id string) (*entities.Post, error) {
	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.Internal(err)
	}
	if post == nil {
		return nil, errors.ErrPostNotFound
	}
	return post, nil
}

func (s *PostService) withOwner(ctx context.Context, post *entities.Post) (*PostView, error) {
	owner, err := s.userRepo.FindByID(ctx, post.UserID)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return &PostView{Post: post, Owner: owner}, nil
}

func (s *PostService) withOwners(ctx context.Context, posts []*entities.Post) ([]*PostView, error) {
	ids := make([]string, 0, len(posts))
	seen := make(map[string]bool, len(posts))
	for _, p := range posts {
		if !seen[p.UserID] {
			seen[p.UserID] = true
			ids = append(ids, p.UserID)
		}
	}

	owners, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, errors.Internal(err)
	}

	views := make([]*PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, &PostView{Post: p, Owner: owners[p.UserID]})
	}
	return views, nil
}

func (s *PostService) saveUploads(ctx context.Context, uploads []Upload, baseURL string) ([]string, error) {
	if s.storage == nil {
		return nil, errors.Internal(errors.ErrInvalidUpload)
	}

	urls := make([]string, 0, len(uploads))
	for _, u := range uploads {
		name, err := s.storage.Save(ctx, u.Filename, u.Content)
		if err != nil {
			s.removeUploads(ctx, urls)
			return nil, errors.Internal(err)
		}
		urls = append(urls, strings.TrimRight(baseURL, "/")+UploadsPath+name)
	}
	return urls, nil
}

// removeUploads apaga os arquivos locais referenciados pelas URLs.
// URLs externas são ignoradas e falhas só são registradas em log.
func (s *PostService) removeUploads(ctx context.Context, urls []string) {
	if s.storage == nil {
		return
	}
	for _, u := range urls {
		idx := strings.LastIndex(u, UploadsPath)
		if idx < 0 {
			continue
		}
		name := u[idx+len(UploadsPath):]
		if err := s.storage.Remove(ctx, name); err != nil {
			s.logger.Warn("failed to remove upload", "file", name, "error", err)
		}
	}
}

func validatePostFields(post *entities.Post) error {
	var fields []errors.FieldError

	switch n := utf8.RuneCountInString(post.Title); {
	case n == 0:
		fields = append(fields, fieldError("title", "required", "", ""))
	case n > entities.MaxPostTitleLength:
		fields = append(fields, fieldError("title", "max", strconv.Itoa(entities.MaxPostTitleLength), ""))
	}
	switch n := utf8.RuneCountInString(post.Description); {
	case n == 0:
		fields = append(fields, fieldError("description", "required", "", ""))
	case n > entities.MaxPostDescriptionLength:
		fields = append(fields, fieldError("description", "max", strconv.Itoa(entities.MaxPostDescriptionLength), ""))
	}
	if !post.Category.IsValid() {
		fields = append(fields, fieldError("category", "oneof", joinValues(entities.Categories), string(post.Category)))
	}
	if !post.Size.IsValid() {
		fields = append(fields, fieldError("size", "oneof", joinValues(entities.Sizes), string(post.Size)))
	}
	if !post.Gender.IsValid() {
		fields = append(fields, fieldError("gender", "oneof", joinValues(entities.Genders), string(post.Gender)))
	}
	if !post.State.IsValid() {
		fields = append(fields, fieldError("state", "oneof", joinValues(entities.States), string(post.State)))
	}

	if len(fields) > 0 {
		return errors.NewValidation("error.validation.detail", fields...)
	}
	return nil
}

func checkPhotoCount(photos []string) error {
	if len(photos) > entities.MaxPostPhotos {
		return errors.NewValidation("error.validation.detail",
			fieldError("photos", "max", strconv.Itoa(entities.MaxPostPhotos), ""))
	}
	return nil
}

// mergeLocation aplica a nova localização mantendo cidade, país e endereço
// anteriores quando não informados. [0, 0] remove a localização.
func mergeLocation(in *LocationInput, current *valueobjects.GeoPoint) (*valueobjects.GeoPoint, error) {
	merged := *in
	if current != nil {
		if merged.City == "" {
			merged.City = current.City
		}
		if merged.Country == "" {
			merged.Country = current.Country
		}
		if merged.Address == "" {
			merged.Address = current.Address
		}
	}
	return merged.toGeoPoint()
}

func cleanURLs(urls []string) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, u)
		}
	}
	return out
}

// droppedPhotos devolve as URLs de before que não estão em after
func droppedPhotos(before, after []string) []string {
	kept := make(map[string]struct{}, len(after))
	for _, u := range after {
		kept[u] = struct{}{}
	}
	var dropped []string
	for _, u := range before {
		if _, ok := kept[u]; !ok {
			dropped = append(dropped, u)
		}
	}
	return dropped
}

func joinValues[T ~string](values []T) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = string(v)
	}
	return strings.Join(parts, " ")
}

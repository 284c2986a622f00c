package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
)

// PostRepository implementa repositories.PostRepository
type PostRepository struct {
	repoBase
}

// NewPostRepository cria um novo PostRepository
func NewPostRepository(db *gorm.DB, queryTimeout time.Duration) repositories.PostRepository {
	return &PostRepository{repoBase{db: db, timeout: queryTimeout}}
}

func (r *PostRepository) Create(ctx context.Context, post *entities.Post) error {
	model := toPostModel(post)

	if err := r.run(ctx, func(db *gorm.DB) error {
		return db.Create(model).Error
	}); err != nil {
		return err
	}

	post.ID = model.ID
	post.CreatedAt = fromNanos(model.CreatedAt)
	post.UpdatedAt = fromNanos(model.UpdatedAt)
	return nil
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (*entities.Post, error) {
	var model PostModel

	err := r.run(ctx, func(db *gorm.DB) error {
		return db.Where("id = ?", id).First(&model).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return toPostEntity(&model), nil
}

func (r *PostRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*entities.Post, error) {
	result := make(map[string]*entities.Post, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var models []*PostModel
	if err := r.run(ctx, func(db *gorm.DB) error {
		return db.Where("id IN ?", ids).Find(&models).Error
	}); err != nil {
		return nil, err
	}

	for _, model := range models {
		result[model.ID] = toPostEntity(model)
	}
	return result, nil
}

func (r *PostRepository) Update(ctx context.Context, post *entities.Post) error {
	model := toPostModel(post)

	if err := r.run(ctx, func(db *gorm.DB) error {
		// Views fica de fora: só IncrementViews altera o contador
		return db.Select("*").Omit("views", "created_at").Save(model).Error
	}); err != nil {
		return err
	}

	post.UpdatedAt = fromNanos(model.UpdatedAt)
	return nil
}

func (r *PostRepository) Delete(ctx context.Context, id string) error {
	return r.run(ctx, func(db *gorm.DB) error {
		return db.Where("id = ?", id).Delete(&PostModel{}).Error
	})
}

func (r *PostRepository) List(ctx context.Context, filters repositories.PostFilters) ([]*entities.Post, int64, error) {
	filters.Normalize()

	var (
		models []*PostModel
		total  int64
	)

	err := r.run(ctx, func(db *gorm.DB) error {
		query := db.Model(&PostModel{}).Where("is_available = ?", true)

		if filters.Category != nil {
			query = query.Where("category = ?", string(*filters.Category))
		}
		if filters.Size != nil {
			query = query.Where("size = ?", string(*filters.Size))
		}
		if filters.Gender != nil {
			query = query.Where("gender = ?", string(*filters.Gender))
		}
		if filters.State != nil {
			query = query.Where("state = ?", string(*filters.State))
		}
		if filters.Featured != nil {
			query = query.Where("is_featured = ?", *filters.Featured)
		}
		if search := strings.TrimSpace(filters.Search); search != "" {
			pattern := "%" + escapeLike(strings.ToLower(search)) + "%"
			query = query.Where(
				`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(description) LIKE ? ESCAPE '\')`,
				pattern, pattern,
			)
		}

		if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
			return err
		}

		return query.Session(&gorm.Session{}).
			Order("created_at DESC").
			Limit(filters.Limit).
			Offset((filters.Page - 1) * filters.Limit).
			Find(&models).Error
	})
	if err != nil {
		return nil, 0, err
	}

	return toPostEntities(models), total, nil
}

func (r *PostRepository) ListByUser(ctx context.Context, userID string, limit int) ([]*entities.Post, error) {
	var models []*PostModel

	err := r.run(ctx, func(db *gorm.DB) error {
		query := db.Where("user_id = ? AND is_available = ?", userID, true).Order("created_at DESC")
		if limit > 0 {
			query = query.Limit(limit)
		}
		return query.Find(&models).Error
	})
	if err != nil {
		return nil, err
	}

	return toPostEntities(models), nil
}

// IncrementViews incrementa o contador no próprio banco, sem read-modify-write
func (r *PostRepository) IncrementViews(ctx context.Context, id string) error {
	return r.run(ctx, func(db *gorm.DB) error {
		return db.Model(&PostModel{}).
			Where("id = ?", id).
			UpdateColumn("views", gorm.Expr("views + ?", 1)).Error
	})
}

func toPostModel(post *entities.Post) *PostModel {
	return &PostModel{
		ID:          post.ID,
		Title:       post.Title,
		Description: post.Description,
		Category:    string(post.Category),
		Size:        string(post.Size),
		Gender:      string(post.Gender),
		State:       string(post.State),
		Photos:      datatypes.NewJSONSlice(post.Photos),
		Location:    toLocationColumns(post.Location),
		UserID:      post.UserID,
		IsAvailable: post.IsAvailable,
		IsFeatured:  post.IsFeatured,
		Views:       post.Views,
		CreatedAt:   toNanos(post.CreatedAt),
		UpdatedAt:   toNanos(post.UpdatedAt),
	}
}

func toPostEntity(model *PostModel) *entities.Post {
	photos := make([]string, len(model.Photos))
	copy(photos, model.Photos)

	return &entities.Post{
		ID:          model.ID,
		Title:       model.Title,
		Description: model.Description,
		Category:    entities.Category(model.Category),
		Size:        entities.Size(model.Size),
		Gender:      entities.Gender(model.Gender),
		State:       entities.State(model.State),
		Photos:      photos,
		Location:    model.Location.toGeoPoint(),
		UserID:      model.UserID,
		IsAvailable: model.IsAvailable,
		IsFeatured:  model.IsFeatured,
		Views:       model.Views,
		CreatedAt:   fromNanos(model.CreatedAt),
		UpdatedAt:   fromNanos(model.UpdatedAt),
	}
}

func toPostEntities(models []*PostModel) []*entities.Post {
	posts := make([]*entities.Post, 0, len(models))
	for _, model := range models {
		posts = append(posts, toPostEntity(model))
	}
	return posts
}

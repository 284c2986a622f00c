package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/rafabene/revistete-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/revistete-backend/internal/domain/errors"
	"github.com/rafabene/revistete-backend/internal/domain/repositories"
	"github.com/rafabene/revistete-backend/internal/domain/valueobjects"
)

// UserRepository implementa repositories.UserRepository
type UserRepository struct {
	repoBase
}

// NewUserRepository cria um novo UserRepository
func NewUserRepository(db *gorm.DB, queryTimeout time.Duration) repositories.UserRepository {
	return &UserRepository{repoBase{db: db, timeout: queryTimeout}}
}

func (r *UserRepository) Create(ctx context.Context, user *entities.User) error {
	model := r.toModel(user)

	err := r.run(ctx, func(db *gorm.DB) error {
		return db.Create(model).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domainerrors.Wrap(domainerrors.ErrEmailAlreadyExists, err)
	}
	if err != nil {
		return err
	}

	user.ID = model.ID
	user.CreatedAt = fromNanos(model.CreatedAt)
	user.UpdatedAt = fromNanos(model.UpdatedAt)
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*entities.User, error) {
	return r.findOne(ctx, "id = ? AND deleted_at IS NULL", id)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*entities.User, error) {
	return r.findOne(ctx, "email = ? AND deleted_at IS NULL", email)
}

func (r *UserRepository) findOne(ctx context.Context, query string, args ...any) (*entities.User, error) {
	var model UserModel

	err := r.run(ctx, func(db *gorm.DB) error {
		return db.Where(query, args...).First(&model).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return r.toEntity(&model)
}

func (r *UserRepository) FindByIDs(ctx context.Context, ids []string) (map[string]*entities.User, error) {
	result := make(map[string]*entities.User, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var models []*UserModel
	err := r.run(ctx, func(db *gorm.DB) error {
		return db.Where("id IN ? AND deleted_at IS NULL", ids).Find(&models).Error
	})
	if err != nil {
		return nil, err
	}

	for _, model := range models {
		user, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		result[user.ID] = user
	}
	return result, nil
}

func (r *UserRepository) Update(ctx context.Context, user *entities.User) error {
	model := r.toModel(user)

	err := r.run(ctx, func(db *gorm.DB) error {
		return db.Save(model).Error
	})
	if err != nil {
		return err
	}

	user.UpdatedAt = fromNanos(model.UpdatedAt)
	return nil
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	// Soft delete: atualizar deleted_at ao invés de deletar
	now := time.Now().UnixNano()
	return r.run(ctx, func(db *gorm.DB) error {
		return db.Model(&UserModel{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Update("deleted_at", now).Error
	})
}

func (r *UserRepository) List(ctx context.Context, filters repositories.UserFilters) ([]*entities.User, error) {
	var models []*UserModel

	page := filters.Page
	if page < 1 {
		page = 1
	}
	pageSize := filters.PageSize
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	err := r.run(ctx, func(db *gorm.DB) error {
		query := db.Model(&UserModel{}).Where("deleted_at IS NULL")
		if filters.ActiveOnly {
			query = query.Where("is_active = ?", true)
		}
		return query.Order("created_at DESC").
			Limit(pageSize).
			Offset((page - 1) * pageSize).
			Find(&models).Error
	})
	if err != nil {
		return nil, err
	}

	return r.toEntities(models)
}

// Conversores
func (r *UserRepository) toModel(user *entities.User) *UserModel {
	var deletedAt *int64
	if user.DeletedAt != nil {
		ts := user.DeletedAt.UnixNano()
		deletedAt = &ts
	}

	return &UserModel{
		ID:           user.ID,
		Email:        user.Email.String(),
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Phone:        user.Phone,
		Address:      user.Address,
		Location:     toLocationColumns(user.Location),
		AvatarURL:    user.AvatarURL,
		IsActive:     user.IsActive,
		CreatedAt:    toNanos(user.CreatedAt),
		UpdatedAt:    toNanos(user.UpdatedAt),
		DeletedAt:    deletedAt,
	}
}

func (r *UserRepository) toEntity(model *UserModel) (*entities.User, error) {
	email, err := valueobjects.NewEmail(model.Email)
	if err != nil {
		return nil, err
	}

	return &entities.User{
		ID:           model.ID,
		Email:        email,
		Name:         model.Name,
		PasswordHash: model.PasswordHash,
		Phone:        model.Phone,
		Address:      model.Address,
		Location:     model.Location.toGeoPoint(),
		AvatarURL:    model.AvatarURL,
		IsActive:     model.IsActive,
		CreatedAt:    fromNanos(model.CreatedAt),
		UpdatedAt:    fromNanos(model.UpdatedAt),
		DeletedAt:    fromNanosPtr(model.DeletedAt),
	}, nil
}

func (r *UserRepository) toEntities(models []*UserModel) ([]*entities.User, error) {
	users := make([]*entities.User, 0, len(models))

	for _, model := range models {
		entity, err := r.toEntity(model)
		if err != nil {
			return nil, err
		}
		users = append(users, entity)
	}

	return users, nil
}

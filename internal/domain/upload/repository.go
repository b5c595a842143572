package upload

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, u *Upload) error
	GetByID(ctx context.Context, id string) (*Upload, error)
	Delete(ctx context.Context, id string) error
	ListOlderThan(ctx context.Context, cutoff time.Time) ([]*Upload, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, u *Upload) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *repository) GetByID(ctx context.Context, id string) (*Upload, error) {
	var u Upload
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrUploadNotFound
	}
	return &u, err
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Upload{}).Error
}

func (r *repository) ListOlderThan(ctx context.Context, cutoff time.Time) ([]*Upload, error) {
	var uploads []*Upload
	err := r.db.WithContext(ctx).Where("created_at < ?", cutoff).Order("created_at ASC").Find(&uploads).Error
	return uploads, err
}

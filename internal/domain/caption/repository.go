package caption

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, rec *CaptionRecord) error
	ListByHandle(ctx context.Context, handle string, limit int) ([]*CaptionRecord, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rec *CaptionRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *repository) ListByHandle(ctx context.Context, handle string, limit int) ([]*CaptionRecord, error) {
	var recs []*CaptionRecord
	q := r.db.WithContext(ctx).Where("handle = ?", handle).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&recs).Error
	return recs, err
}

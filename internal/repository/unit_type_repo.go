package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"rentflow/internal/domain"
)

type UnitTypeRepository struct {
	db *gorm.DB
}

func NewUnitTypeRepository(db *gorm.DB) *UnitTypeRepository {
	return &UnitTypeRepository{db: db}
}

func (r *UnitTypeRepository) Create(ctx context.Context, ut *domain.UnitType) error {
	return r.db.WithContext(ctx).Create(ut).Error
}

func (r *UnitTypeRepository) GetByID(ctx context.Context, id int64) (*domain.UnitType, error) {
	var ut domain.UnitType
	if err := r.db.WithContext(ctx).First(&ut, id).Error; err != nil {
		return nil, err
	}
	return &ut, nil
}

func (r *UnitTypeRepository) List(ctx context.Context, providerID int64) ([]domain.UnitType, error) {
	q := r.db.WithContext(ctx).Order("name")
	if providerID > 0 {
		q = q.Where("provider_id = ?", providerID)
	}

	var rows []domain.UnitType
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *UnitTypeRepository) Update(ctx context.Context, ut *domain.UnitType) error {
	ut.UpdatedAt = time.Now().UTC()
	return r.db.WithContext(ctx).Save(ut).Error
}

package catalog

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rentflow/internal/domain"
	"rentflow/internal/repository"
)

var ErrNotFound = errors.New("unit type or asset not found")

// Service covers the thin inventory-management surface around the
// reservation core: unit types and the physical assets behind them.
type Service struct {
	unitTypes *repository.UnitTypeRepository
	assets    *repository.AssetRepository
}

func NewService(unitTypes *repository.UnitTypeRepository, assets *repository.AssetRepository) *Service {
	return &Service{
		unitTypes: unitTypes,
		assets:    assets,
	}
}

func (s *Service) CreateUnitType(ctx context.Context, providerID int64, req CreateUnitTypeRequest) (*domain.UnitType, error) {
	ut := &domain.UnitType{
		ProviderID:    providerID,
		Name:          req.Name,
		Description:   req.Description,
		TotalQuantity: req.TotalQuantity,
		PricePerDay:   req.PricePerDay,
	}
	if err := s.unitTypes.Create(ctx, ut); err != nil {
		return nil, err
	}
	return ut, nil
}

func (s *Service) GetUnitType(ctx context.Context, id int64) (*domain.UnitType, error) {
	ut, err := s.unitTypes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return ut, nil
}

func (s *Service) ListUnitTypes(ctx context.Context, providerID int64) ([]domain.UnitType, error) {
	return s.unitTypes.List(ctx, providerID)
}

func (s *Service) ListAssets(ctx context.Context, unitTypeID int64) ([]domain.Asset, error) {
	if _, err := s.GetUnitType(ctx, unitTypeID); err != nil {
		return nil, err
	}
	return s.assets.ListByUnitType(ctx, unitTypeID)
}

func (s *Service) CreateAsset(ctx context.Context, req CreateAssetRequest) (*domain.Asset, error) {
	if _, err := s.GetUnitType(ctx, req.UnitTypeID); err != nil {
		return nil, err
	}

	a := &domain.Asset{
		UnitTypeID:     req.UnitTypeID,
		Serial:         req.Serial,
		Status:         domain.AssetAvailable,
		ConditionScore: req.ConditionScore,
	}
	if err := s.assets.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

// UpdateAssetStatus flags an asset, e.g. pulling it into maintenance so
// the conflict resolver stops offering it.
func (s *Service) UpdateAssetStatus(ctx context.Context, id int64, status domain.AssetStatus) (*domain.Asset, error) {
	if err := s.assets.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.assets.GetByID(ctx, id)
}

package assignment

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"rentflow/internal/domain"
)

// Service is the asset conflict resolver: it matches a reservation bound
// to a unit type with a concrete physical unit whose calendar is free for
// the reservation's window.
type Service struct {
	assets       AssetRepository
	reservations ReservationReader
}

func NewService(assets AssetRepository, reservations ReservationReader) *Service {
	return &Service{
		assets:       assets,
		reservations: reservations,
	}
}

// FindCandidates lists assets an operator can bind the reservation to,
// best condition first. High-wear units get assigned first, a deliberate
// rotation policy. An empty result means the capacity accounting was
// overridden somewhere; it is surfaced to the operator, never auto-fixed.
func (s *Service) FindCandidates(ctx context.Context, reservationID int64, actorProviderID int64, actorRole string) ([]Candidate, error) {
	res, err := s.authorizedReservation(ctx, reservationID, actorProviderID, actorRole)
	if err != nil {
		return nil, err
	}

	assets, err := s.assets.CandidateAssets(ctx, res.UnitTypeID, res.StartDate, res.EndDate, res.ID)
	if err != nil {
		return nil, err
	}

	out := make([]Candidate, 0, len(assets))
	for _, a := range assets {
		out = append(out, Candidate{
			AssetID:        a.ID,
			Serial:         a.Serial,
			ConditionScore: a.ConditionScore,
		})
	}
	return out, nil
}

// Assign binds (or rebinds) the reservation to the asset. Only confirmed
// or active reservations occupy an asset's calendar, so only they may be
// bound. The overlap invariant is enforced inside the repository's
// transaction; a conflict here means another operator got there first.
func (s *Service) Assign(ctx context.Context, reservationID, assetID int64, actorProviderID int64, actorRole string) (*AssignmentView, error) {
	res, err := s.authorizedReservation(ctx, reservationID, actorProviderID, actorRole)
	if err != nil {
		return nil, err
	}

	if res.Status != domain.ReservationConfirmed && res.Status != domain.ReservationActive {
		return nil, ErrUnassignableState
	}

	asset, err := s.assets.GetByID(ctx, assetID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if asset.UnitTypeID != res.UnitTypeID {
		return nil, ErrWrongUnitType
	}
	if asset.Status == domain.AssetMaintenance {
		return nil, ErrConflict
	}

	if err := s.assets.Assign(ctx, res.ID, asset.ID, res.StartDate, res.EndDate); err != nil {
		if errors.Is(err, domain.ErrAssignmentConflict) {
			return nil, ErrConflict
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	ra, err := s.assets.GetAssignment(ctx, res.ID)
	if err != nil {
		return nil, err
	}
	if ra == nil {
		return nil, ErrNotFound
	}

	return &AssignmentView{
		ReservationID: ra.ReservationID,
		AssetID:       ra.AssetID,
		AssignedAt:    ra.AssignedAt,
	}, nil
}

func (s *Service) authorizedReservation(ctx context.Context, reservationID int64, actorProviderID int64, actorRole string) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if actorRole != "admin" && res.ProviderID != actorProviderID {
		return nil, ErrForbidden
	}
	return res, nil
}

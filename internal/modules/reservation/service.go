package reservation

import (
	"context"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"rentflow/internal/domain"
	"rentflow/internal/repository"
)

const (
	// maxQuantityPerRequest rejects absurd bulk requests before they
	// reach the ledger. The UI never asks for more than double digits.
	maxQuantityPerRequest = 99

	minIdempotencyKeyLen = 10
)

type Service struct {
	reservations ReservationRepository
	unitTypes    UnitTypeReader
	holdTTL      time.Duration
}

func NewService(reservations ReservationRepository, unitTypes UnitTypeReader, holdTTL time.Duration) *Service {
	if holdTTL <= 0 {
		holdTTL = domain.HoldTTL
	}
	return &Service{
		reservations: reservations,
		unitTypes:    unitTypes,
		holdTTL:      holdTTL,
	}
}

// CreateHold is the reservation hold protocol: validate, resolve the unit
// type, then run the locked availability-check-and-insert transaction.
// Replays of a known idempotency key return the original reservation. A
// transient ledger failure is retried exactly once with the same key;
// capacity conflicts are never retried.
func (s *Service) CreateHold(ctx context.Context, req CreateHoldRequest) (*CreateHoldResult, error) {
	now := time.Now().UTC()

	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 1 || req.Quantity > maxQuantityPerRequest {
		return nil, ErrValidation
	}
	if !req.StartDate.Before(req.EndDate) {
		return nil, ErrValidation
	}
	if req.StartDate.Before(now) {
		return nil, ErrValidation
	}
	if strings.TrimSpace(req.Customer.Name) == "" {
		return nil, ErrValidation
	}
	if strings.TrimSpace(req.Customer.Email) == "" && strings.TrimSpace(req.Customer.Phone) == "" {
		return nil, ErrValidation
	}

	key := strings.TrimSpace(req.IdempotencyKey)
	if key == "" {
		key = uuid.NewString()
	} else if len(key) < minIdempotencyKeyLen {
		return nil, ErrValidation
	}

	ut, err := s.unitTypes.GetByID(ctx, req.UnitTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if ut.ProviderID != req.ProviderID {
		return nil, ErrNotFound
	}

	total := 0.0
	if req.TotalPrice != nil {
		if *req.TotalPrice < 0 {
			return nil, ErrValidation
		}
		total = *req.TotalPrice
	} else {
		days := req.EndDate.Sub(req.StartDate).Hours() / 24
		total = math.Round(days*ut.PricePerDay*float64(req.Quantity)*100) / 100
	}

	expiresAt := now.Add(s.holdTTL)
	res := &domain.Reservation{
		ProviderID:     req.ProviderID,
		UnitTypeID:     req.UnitTypeID,
		CustomerName:   strings.TrimSpace(req.Customer.Name),
		CustomerEmail:  strings.TrimSpace(req.Customer.Email),
		CustomerPhone:  strings.TrimSpace(req.Customer.Phone),
		Quantity:       req.Quantity,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Status:         domain.ReservationHold,
		ExpiresAt:      &expiresAt,
		TotalPrice:     total,
		DepositPaid:    req.DepositPaid,
		IdempotencyKey: key,
		Notes:          req.Notes,
	}

	idempotent, err := s.createWithRetry(ctx, res)
	if err != nil {
		return nil, err
	}

	return &CreateHoldResult{
		ReservationID: res.ID,
		Status:        string(res.Status),
		ExpiresAt:     res.ExpiresAt,
		Idempotent:    idempotent,
	}, nil
}

func (s *Service) createWithRetry(ctx context.Context, res *domain.Reservation) (bool, error) {
	attempt := *res
	idempotent, err := s.reservations.CreateHold(ctx, &attempt)
	if err != nil {
		if replayed, rerr := s.replayOnDuplicateKey(ctx, res.IdempotencyKey, err); rerr == nil && replayed != nil {
			*res = *replayed
			return true, nil
		}
		if errors.Is(err, domain.ErrCapacityExceeded) {
			return false, ErrConflict
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrNotFound
		}

		// Transient ledger failure: the idempotency key makes one
		// blind retry of the whole transaction safe.
		attempt = *res
		idempotent, err = s.reservations.CreateHold(ctx, &attempt)
		if err != nil {
			if replayed, rerr := s.replayOnDuplicateKey(ctx, res.IdempotencyKey, err); rerr == nil && replayed != nil {
				*res = *replayed
				return true, nil
			}
			if errors.Is(err, domain.ErrCapacityExceeded) {
				return false, ErrConflict
			}
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, ErrNotFound
			}
			return false, err
		}
	}

	*res = attempt
	return idempotent, nil
}

// replayOnDuplicateKey maps a unique-violation on the idempotency index
// to the original reservation. Two racing requests with the same key can
// both miss the in-transaction lookup; the constraint is the backstop.
func (s *Service) replayOnDuplicateKey(ctx context.Context, key string, err error) (*domain.Reservation, error) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return nil, err
	}
	if pgErr.Code != "23505" || !strings.Contains(pgErr.ConstraintName, "idempotency") {
		return nil, err
	}
	return s.reservations.GetByIdempotencyKey(ctx, key)
}

// CheckAvailability is the optimistic pre-check UIs call before starting
// the booking flow. It may return a false positive under race; only the
// check inside CreateHold's transaction is authoritative.
func (s *Service) CheckAvailability(ctx context.Context, unitTypeID int64, start, end time.Time, quantity int, excludeReservationID int64) (*AvailabilityResult, error) {
	if quantity <= 0 {
		quantity = 1
	}
	if !start.Before(end) {
		return nil, ErrValidation
	}

	ut, err := s.unitTypes.GetByID(ctx, unitTypeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	committed, err := s.reservations.OverlappingQuantity(ctx, unitTypeID, start, end, excludeReservationID)
	if err != nil {
		return nil, err
	}

	remaining := ut.TotalQuantity - committed
	if remaining < 0 {
		remaining = 0
	}
	return &AvailabilityResult{
		UnitTypeID: unitTypeID,
		StartDate:  start,
		EndDate:    end,
		Requested:  quantity,
		Remaining:  remaining,
		Available:  quantity <= remaining,
	}, nil
}

// Confirm promotes an unexpired hold to confirmed. The guarded update in
// the repository decides under concurrency; the pre-read only produces
// the right error kind for the caller.
func (s *Service) Confirm(ctx context.Context, id int64, paymentRef string) (*domain.Reservation, error) {
	res, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if res.Status != domain.ReservationHold {
		return nil, ErrStateTransition
	}
	if res.HoldExpired(now) {
		return nil, ErrHoldExpired
	}

	updated, err := s.reservations.ConfirmHold(ctx, id, paymentRef, now)
	if err != nil {
		return nil, err
	}
	if !updated {
		// Lost a race with the sweeper or another confirm; re-read to
		// report which.
		res, err = s.get(ctx, id)
		if err != nil {
			return nil, err
		}
		if res.HoldExpired(now) || res.Status == domain.ReservationExpired {
			return nil, ErrHoldExpired
		}
		return nil, ErrStateTransition
	}

	return s.get(ctx, id)
}

// Cancel is the explicit user/operator path out of hold or confirmed.
func (s *Service) Cancel(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.transition(ctx, id, domain.ReservationCancelled)
}

// Pickup marks physical handover: confirmed -> active.
func (s *Service) Pickup(ctx context.Context, id int64, actorProviderID int64, actorRole string) (*domain.Reservation, error) {
	if err := s.authorizeOperator(ctx, id, actorProviderID, actorRole); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, domain.ReservationActive)
}

// Complete marks physical return: active -> completed.
func (s *Service) Complete(ctx context.Context, id int64, actorProviderID int64, actorRole string) (*domain.Reservation, error) {
	if err := s.authorizeOperator(ctx, id, actorProviderID, actorRole); err != nil {
		return nil, err
	}
	return s.transition(ctx, id, domain.ReservationCompleted)
}

func (s *Service) transition(ctx context.Context, id int64, to domain.ReservationStatus) (*domain.Reservation, error) {
	res, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !domain.CanTransition(res.Status, to) {
		return nil, ErrStateTransition
	}

	ok, err := s.reservations.TransitionStatus(ctx, id, res.Status, to)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrStateTransition
	}

	return s.get(ctx, id)
}

func (s *Service) authorizeOperator(ctx context.Context, id int64, actorProviderID int64, actorRole string) error {
	if actorRole == "admin" {
		return nil
	}

	res, err := s.get(ctx, id)
	if err != nil {
		return err
	}
	if res.ProviderID != actorProviderID {
		return ErrForbidden
	}
	return nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	return s.get(ctx, id)
}

func (s *Service) ListByProvider(ctx context.Context, providerID int64, f repository.ReservationFilters) ([]domain.Reservation, error) {
	return s.reservations.ListByProvider(ctx, providerID, f)
}

func (s *Service) get(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return res, nil
}

package reservation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"rentflow/internal/domain"
	"rentflow/internal/repository"
)

type MockReservationRepository struct {
	mock.Mock
}

func (m *MockReservationRepository) CreateHold(ctx context.Context, res *domain.Reservation) (bool, error) {
	args := m.Called(ctx, res)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Reservation, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *MockReservationRepository) OverlappingQuantity(ctx context.Context, unitTypeID int64, start, end time.Time, excludeID int64) (int, error) {
	args := m.Called(ctx, unitTypeID, start, end, excludeID)
	return args.Int(0), args.Error(1)
}

func (m *MockReservationRepository) ConfirmHold(ctx context.Context, id int64, paymentRef string, now time.Time) (bool, error) {
	args := m.Called(ctx, id, paymentRef, now)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) TransitionStatus(ctx context.Context, id int64, from, to domain.ReservationStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}

func (m *MockReservationRepository) SweepExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockReservationRepository) ListByProvider(ctx context.Context, providerID int64, f repository.ReservationFilters) ([]domain.Reservation, error) {
	args := m.Called(ctx, providerID, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

type MockUnitTypeReader struct {
	mock.Mock
}

func (m *MockUnitTypeReader) GetByID(ctx context.Context, id int64) (*domain.UnitType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnitType), args.Error(1)
}

func bikeUnitType() *domain.UnitType {
	return &domain.UnitType{
		ID:            10,
		ProviderID:    1,
		Name:          "Mountain bike",
		TotalQuantity: 5,
		PricePerDay:   35,
	}
}

func holdRequest() CreateHoldRequest {
	start := time.Date(2027, 3, 1, 9, 0, 0, 0, time.UTC)
	return CreateHoldRequest{
		UnitTypeID:     10,
		ProviderID:     1,
		Quantity:       2,
		StartDate:      start,
		EndDate:        start.AddDate(0, 0, 3),
		IdempotencyKey: "client-key-0001",
		Customer:       CustomerInfo{Name: "Sam Carter", Email: "sam@example.com"},
	}
}

func TestService_CreateHold_Success(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)
	unitTypes.On("GetByID", mock.Anything, int64(10)).Return(bikeUnitType(), nil)

	repo.On("CreateHold", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Reservation).ID = 42 // simulate DB insert
		}).
		Return(false, nil)

	service := NewService(repo, unitTypes, 15*time.Minute)

	result, err := service.CreateHold(context.Background(), holdRequest())

	assert.NoError(t, err)
	assert.Equal(t, int64(42), result.ReservationID)
	assert.Equal(t, "hold", result.Status)
	assert.False(t, result.Idempotent)
	assert.NotNil(t, result.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().Add(15*time.Minute), *result.ExpiresAt, 5*time.Second)
	repo.AssertNumberOfCalls(t, "CreateHold", 1)
}

func TestService_CreateHold_ComputesPriceFromUnitType(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)
	unitTypes.On("GetByID", mock.Anything, int64(10)).Return(bikeUnitType(), nil)

	var written domain.Reservation
	repo.On("CreateHold", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			written = *args.Get(1).(*domain.Reservation)
		}).
		Return(false, nil)

	service := NewService(repo, unitTypes, 15*time.Minute)

	_, err := service.CreateHold(context.Background(), holdRequest())

	assert.NoError(t, err)
	// 3 days x 35/day x 2 units
	assert.Equal(t, 210.0, written.TotalPrice)
	assert.Equal(t, domain.ReservationHold, written.Status)
	assert.Equal(t, "client-key-0001", written.IdempotencyKey)
}

func TestService_CreateHold_GeneratesIdempotencyKey(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)
	unitTypes.On("GetByID", mock.Anything, int64(10)).Return(bikeUnitType(), nil)

	var written domain.Reservation
	repo.On("CreateHold", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			written = *args.Get(1).(*domain.Reservation)
		}).
		Return(false, nil)

	service := NewService(repo, unitTypes, 15*time.Minute)

	req := holdRequest()
	req.IdempotencyKey = ""
	_, err := service.CreateHold(context.Background(), req)

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, len(written.IdempotencyKey), minIdempotencyKeyLen)
}

func TestService_CreateHold_ValidationRejectsBeforeAnyWrite(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)
	service := NewService(repo, unitTypes, 15*time.Minute)

	cases := map[string]func(*CreateHoldRequest){
		"end before start":   func(r *CreateHoldRequest) { r.EndDate = r.StartDate.AddDate(0, 0, -1) },
		"zero-length window": func(r *CreateHoldRequest) { r.EndDate = r.StartDate },
		"start in the past":  func(r *CreateHoldRequest) { r.StartDate = time.Now().UTC().Add(-time.Hour) },
		"no contact channel": func(r *CreateHoldRequest) { r.Customer.Email = ""; r.Customer.Phone = "" },
		"blank name":         func(r *CreateHoldRequest) { r.Customer.Name = "   " },
		"absurd quantity":    func(r *CreateHoldRequest) { r.Quantity = 100 },
		"negative quantity":  func(r *CreateHoldRequest) { r.Quantity = -1 },
		"short idem key":     func(r *CreateHoldRequest) { r.IdempotencyKey = "short" },
	}

	for name, mutate := range cases {
		req := holdRequest()
		mutate(&req)
		_, err := service.CreateHold(context.Background(), req)
		assert.ErrorIs(t, err, ErrValidation, name)
	}

	repo.AssertNotCalled(t, "CreateHold", mock.Anything, mock.Anything)
}

func TestService_CreateHold_DefaultsQuantityToOne(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)
	unitTypes.On("GetByID", mock.Anything, int64(10)).Return(bikeUnitType(), nil)

	var written domain.Reservation
	repo.On("CreateHold", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			written = *args.Get(1).(*domain.Reservation)
		}).
		Return(false, nil)

	service := NewService(repo, unitTypes, 15*time.Minute)

	req := holdRequest()
	req.Quantity = 0
	_, err := service.CreateHold(context.Background(), req)

	assert.NoError(t, err)
	assert.Equal(t, 1, written.Quantity)
}

func TestService_CreateHold_CapacityConflictIsNotRetried(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)
	unitTypes.On("GetByID", mock.Anything, int64(10)).Return(bikeUnitType(), nil)
	repo.On("CreateHold", mock.Anything, mock.Anything).Return(false, domain.ErrCapacityExceeded)

	service := NewService(repo, unitTypes, 15*time.Minute)

	_, err := service.CreateHold(context.Background(), holdRequest())

	assert.ErrorIs(t, err, ErrConflict)
	repo.AssertNumberOfCalls(t, "CreateHold", 1)
}

func TestService_CreateHold_IdempotentReplay(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)
	unitTypes.On("GetByID", mock.Anything, int64(10)).Return(bikeUnitType(), nil)

	expires := time.Date(2027, 3, 1, 9, 15, 0, 0, time.UTC)
	repo.On("CreateHold", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			res := args.Get(1).(*domain.Reservation)
			res.ID = 42
			res.Status = domain.ReservationHold
			res.ExpiresAt = &expires
		}).
		Return(true, nil)

	service := NewService(repo, unitTypes, 15*time.Minute)

	result, err := service.CreateHold(context.Background(), holdRequest())

	assert.NoError(t, err)
	assert.True(t, result.Idempotent)
	assert.Equal(t, int64(42), result.ReservationID)
}

func TestService_CreateHold_TransientFailureRetriedOnce(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)
	unitTypes.On("GetByID", mock.Anything, int64(10)).Return(bikeUnitType(), nil)

	repo.On("CreateHold", mock.Anything, mock.Anything).Return(false, errors.New("connection reset")).Once()
	repo.On("CreateHold", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Reservation).ID = 42
		}).
		Return(false, nil).Once()

	service := NewService(repo, unitTypes, 15*time.Minute)

	result, err := service.CreateHold(context.Background(), holdRequest())

	assert.NoError(t, err)
	assert.Equal(t, int64(42), result.ReservationID)
	repo.AssertNumberOfCalls(t, "CreateHold", 2)
}

func TestService_CreateHold_SecondTransientFailureSurfaces(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)
	unitTypes.On("GetByID", mock.Anything, int64(10)).Return(bikeUnitType(), nil)

	repo.On("CreateHold", mock.Anything, mock.Anything).Return(false, errors.New("connection reset"))

	service := NewService(repo, unitTypes, 15*time.Minute)

	_, err := service.CreateHold(context.Background(), holdRequest())

	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrConflict)
	repo.AssertNumberOfCalls(t, "CreateHold", 2)
}

func TestService_CreateHold_UnitTypeNotFound(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)
	unitTypes.On("GetByID", mock.Anything, int64(10)).Return(nil, gorm.ErrRecordNotFound)

	service := NewService(repo, unitTypes, 15*time.Minute)

	_, err := service.CreateHold(context.Background(), holdRequest())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_CreateHold_ProviderMismatchReadsAsNotFound(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)
	unitTypes.On("GetByID", mock.Anything, int64(10)).Return(bikeUnitType(), nil)

	service := NewService(repo, unitTypes, 15*time.Minute)

	req := holdRequest()
	req.ProviderID = 99
	_, err := service.CreateHold(context.Background(), req)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestService_Confirm_Success(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)

	future := time.Now().UTC().Add(10 * time.Minute)
	repo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{
		ID: 42, Status: domain.ReservationHold, ExpiresAt: &future,
	}, nil).Once()
	repo.On("ConfirmHold", mock.Anything, int64(42), "pay_123", mock.Anything).Return(true, nil)
	repo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{
		ID: 42, Status: domain.ReservationConfirmed, PaymentRef: "pay_123",
	}, nil).Once()

	service := NewService(repo, unitTypes, 15*time.Minute)

	res, err := service.Confirm(context.Background(), 42, "pay_123")

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationConfirmed, res.Status)
	repo.AssertExpectations(t)
}

func TestService_Confirm_NotInHoldState(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)

	repo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{
		ID: 42, Status: domain.ReservationConfirmed,
	}, nil)

	service := NewService(repo, unitTypes, 15*time.Minute)

	_, err := service.Confirm(context.Background(), 42, "")

	assert.ErrorIs(t, err, ErrStateTransition)
	repo.AssertNotCalled(t, "ConfirmHold", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Confirm_ExpiredHold(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)

	past := time.Now().UTC().Add(-time.Minute)
	repo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{
		ID: 42, Status: domain.ReservationHold, ExpiresAt: &past,
	}, nil)

	service := NewService(repo, unitTypes, 15*time.Minute)

	_, err := service.Confirm(context.Background(), 42, "")

	assert.ErrorIs(t, err, ErrHoldExpired)
	repo.AssertNotCalled(t, "ConfirmHold", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Confirm_LosesRaceWithSweeper(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)

	future := time.Now().UTC().Add(10 * time.Minute)
	repo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{
		ID: 42, Status: domain.ReservationHold, ExpiresAt: &future,
	}, nil).Once()
	repo.On("ConfirmHold", mock.Anything, int64(42), "", mock.Anything).Return(false, nil)
	repo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{
		ID: 42, Status: domain.ReservationExpired,
	}, nil).Once()

	service := NewService(repo, unitTypes, 15*time.Minute)

	_, err := service.Confirm(context.Background(), 42, "")

	assert.ErrorIs(t, err, ErrHoldExpired)
}

func TestService_Cancel_FromConfirmed(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)

	repo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{
		ID: 42, Status: domain.ReservationConfirmed,
	}, nil).Once()
	repo.On("TransitionStatus", mock.Anything, int64(42), domain.ReservationConfirmed, domain.ReservationCancelled).Return(true, nil)
	repo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{
		ID: 42, Status: domain.ReservationCancelled,
	}, nil).Once()

	service := NewService(repo, unitTypes, 15*time.Minute)

	res, err := service.Cancel(context.Background(), 42)

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationCancelled, res.Status)
}

func TestService_Cancel_TerminalRowsAreImmutable(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)
	service := NewService(repo, unitTypes, 15*time.Minute)

	for _, status := range []domain.ReservationStatus{
		domain.ReservationCompleted, domain.ReservationCancelled, domain.ReservationExpired,
	} {
		repo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{
			ID: 42, Status: status,
		}, nil).Once()

		_, err := service.Cancel(context.Background(), 42)
		assert.ErrorIs(t, err, ErrStateTransition, string(status))
	}

	repo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Pickup_ForbiddenForOtherProvider(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)

	repo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{
		ID: 42, ProviderID: 1, Status: domain.ReservationConfirmed,
	}, nil)

	service := NewService(repo, unitTypes, 15*time.Minute)

	_, err := service.Pickup(context.Background(), 42, 2, "operator")

	assert.ErrorIs(t, err, ErrForbidden)
}

func TestService_Pickup_AdminBypassesProviderScope(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)

	repo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{
		ID: 42, ProviderID: 1, Status: domain.ReservationConfirmed,
	}, nil).Once()
	repo.On("TransitionStatus", mock.Anything, int64(42), domain.ReservationConfirmed, domain.ReservationActive).Return(true, nil)
	repo.On("GetByID", mock.Anything, int64(42)).Return(&domain.Reservation{
		ID: 42, ProviderID: 1, Status: domain.ReservationActive,
	}, nil).Once()

	service := NewService(repo, unitTypes, 15*time.Minute)

	res, err := service.Pickup(context.Background(), 42, 0, "admin")

	assert.NoError(t, err)
	assert.Equal(t, domain.ReservationActive, res.Status)
}

func TestService_CheckAvailability(t *testing.T) {
	repo := new(MockReservationRepository)
	unitTypes := new(MockUnitTypeReader)
	unitTypes.On("GetByID", mock.Anything, int64(10)).Return(bikeUnitType(), nil)

	start := time.Date(2027, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 3)
	repo.On("OverlappingQuantity", mock.Anything, int64(10), start, end, int64(0)).Return(3, nil)

	service := NewService(repo, unitTypes, 15*time.Minute)

	result, err := service.CheckAvailability(context.Background(), 10, start, end, 2, 0)
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Remaining)
	assert.True(t, result.Available)

	result, err = service.CheckAvailability(context.Background(), 10, start, end, 3, 0)
	assert.NoError(t, err)
	assert.False(t, result.Available)
}

package reservation

import "time"

type CustomerInfo struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type CreateHoldRequest struct {
	UnitTypeID     int64        `json:"unit_type_id" binding:"required"`
	ProviderID     int64        `json:"provider_id" binding:"required"`
	Quantity       int          `json:"quantity"`
	StartDate      time.Time    `json:"start_date" binding:"required"`
	EndDate        time.Time    `json:"end_date" binding:"required"`
	IdempotencyKey string       `json:"idempotency_key"`
	Customer       CustomerInfo `json:"customer" binding:"required"`
	TotalPrice     *float64     `json:"total_price"`
	DepositPaid    bool         `json:"deposit_paid"`
	Notes          string       `json:"notes"`
}

type CreateHoldResult struct {
	ReservationID int64      `json:"reservation_id"`
	Status        string     `json:"status"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	Idempotent    bool       `json:"idempotent"`
}

type ConfirmRequest struct {
	PaymentReference string `json:"payment_reference"`
}

type AvailabilityResult struct {
	UnitTypeID int64     `json:"unit_type_id"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
	Requested  int       `json:"requested"`
	Remaining  int       `json:"remaining"`
	Available  bool      `json:"available"`
}

type SweepResult struct {
	ExpiredCount int64 `json:"expired_count"`
}

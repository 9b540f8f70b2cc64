package domain

import "time"

type ReservationStatus string

const (
	ReservationHold      ReservationStatus = "hold"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationActive    ReservationStatus = "active"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationExpired   ReservationStatus = "expired"
)

// HoldTTL is how long an unconfirmed hold keeps its claim on inventory.
// Long enough to finish a payment step, short enough that abandoned carts
// do not starve capacity.
const HoldTTL = 15 * time.Minute

// validTransitions is the authoritative transition table. Terminal states
// (completed, cancelled, expired) have no outgoing edges and must never
// regain one; nothing ever transitions back to hold.
var validTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationHold:      {ReservationConfirmed, ReservationCancelled, ReservationExpired},
	ReservationConfirmed: {ReservationActive, ReservationCancelled},
	ReservationActive:    {ReservationCompleted},
}

func (s ReservationStatus) IsTerminal() bool {
	switch s {
	case ReservationCompleted, ReservationCancelled, ReservationExpired:
		return true
	}
	return false
}

// CanTransition reports whether moving a reservation from one status to
// another is permitted.
func CanTransition(from, to ReservationStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CountableStatuses are the statuses that hold a claim against unit-type
// capacity. An expired-but-unswept hold still counts until the sweeper
// releases it.
var CountableStatuses = []ReservationStatus{
	ReservationHold,
	ReservationConfirmed,
	ReservationActive,
}

type Reservation struct {
	ID             int64             `json:"id"`
	ProviderID     int64             `json:"provider_id"`
	UnitTypeID     int64             `json:"unit_type_id"`
	CustomerName   string            `json:"customer_name"`
	CustomerEmail  string            `json:"customer_email,omitempty"`
	CustomerPhone  string            `json:"customer_phone,omitempty"`
	Quantity       int               `json:"quantity"`
	StartDate      time.Time         `json:"start_date"`
	EndDate        time.Time         `json:"end_date"`
	Status         ReservationStatus `json:"status"`
	ExpiresAt      *time.Time        `json:"expires_at,omitempty"`
	TotalPrice     float64           `json:"total_price"`
	DepositPaid    bool              `json:"deposit_paid"`
	IdempotencyKey string            `json:"idempotency_key" gorm:"uniqueIndex:idx_reservations_idempotency_key"`
	Notes          string            `json:"notes,omitempty" gorm:"type:text"`
	PaymentRef     string            `json:"payment_reference,omitempty" gorm:"column:payment_reference"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	CancelledAt    *time.Time        `json:"cancelled_at,omitempty"`
}

// HoldExpired reports whether a hold has outlived its expiry timestamp.
// Only meaningful while Status == hold; expires_at is ignored afterwards.
func (r *Reservation) HoldExpired(now time.Time) bool {
	return r.Status == ReservationHold && r.ExpiresAt != nil && r.ExpiresAt.Before(now)
}

// Overlaps is the half-open interval test used everywhere date ranges are
// compared: [a, b) and [c, d) conflict iff a < d and b > c. Back-to-back
// bookings sharing a boundary instant do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && aEnd.After(bStart)
}

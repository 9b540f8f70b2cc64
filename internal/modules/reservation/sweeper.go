package reservation

import (
	"context"
	"log"
	"time"
)

// Sweeper releases capacity held by abandoned carts: every interval it
// bulk-transitions stale holds to expired. A failed run is logged and the
// next tick tries again; sweeping is self-healing by being re-run on
// cadence, so nothing here escalates.
type Sweeper struct {
	reservations ReservationRepository
	interval     time.Duration
}

func NewSweeper(reservations ReservationRepository, interval time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		reservations: reservations,
		interval:     interval,
	}
}

// Sweep runs one pass. Safe to invoke concurrently with CreateHold; the
// ledger's bulk update and the creation transaction serialize on the
// database.
func (s *Sweeper) Sweep(ctx context.Context) (int64, error) {
	count, err := s.reservations.SweepExpired(ctx, time.Now().UTC())
	if err != nil {
		return 0, err
	}
	if count > 0 {
		log.Printf("hold sweep released capacity: expired=%d", count)
	}
	return count, nil
}

// Start runs the sweep loop until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	log.Printf("hold sweeper starting: interval=%s", s.interval)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("hold sweeper shutting down")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				log.Printf("hold sweep failed: %v", err)
			}
		}
	}
}

package workflow

import (
	"context"
	"log"
	"time"

	"complainthub/backend/internal/storage"
)

// Sweeper periodically re-enters the engine's overdue-escalation path. It is
// owned by the composition root and runs independently of request handling.
type Sweeper struct {
	Engine   *Engine
	Storage  storage.Storage
	Interval time.Duration
}

func NewSweeper(engine *Engine, s storage.Storage, interval time.Duration) *Sweeper {
	return &Sweeper{Engine: engine, Storage: s, Interval: interval}
}

// Run blocks until ctx is cancelled; start it in its own goroutine.
func (s *Sweeper) Run(ctx context.Context) {
	log.Printf("Escalation sweeper started (interval %s).", s.Interval)
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-ctx.Done():
			log.Println("Escalation sweeper stopped.")
			return
		}
	}
}

// Sweep runs one pass. Exposed so the admin CLI can trigger it on demand.
func (s *Sweeper) Sweep() {
	complaints, err := s.Storage.ListOpenComplaints()
	if err != nil {
		log.Printf("ERROR: Sweep failed to list open complaints: %v", err)
		return
	}
	if n := s.Engine.CheckAndEscalateOverdue(complaints); n > 0 {
		log.Printf("INFO: Sweep escalated %d overdue complaint(s).", n)
	}
}

package gc

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	sweeper *Sweeper
}

func NewScheduler(sweeper *Sweeper) *Scheduler {
	return &Scheduler{sweeper: sweeper}
}

// Start schedules the nightly orphan sweep (3:30 AM).
func (s *Scheduler) Start() {
	c := cron.New(cron.WithSeconds())

	_, err := c.AddFunc("0 30 3 * * *", func() {
		s.runSweep()
	})
	if err != nil {
		log.Printf("Failed to create gc cron job: %v", err)
		return
	}

	log.Println("Blob gc scheduler started (nightly at 3:30AM)")
	c.Start()
}

func (s *Scheduler) runSweep() {
	log.Println("Nightly blob gc sweep started...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	removed, err := s.sweeper.Sweep(ctx)
	if err != nil {
		log.Printf("Blob gc sweep failed: %v", err)
		return
	}

	log.Printf("Blob gc sweep completed, removed %d orphaned objects at: %s", removed, time.Now().Format(time.RFC1123))
}

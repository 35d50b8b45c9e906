// services/scheduler.go
package services

import (
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartTournamentScheduler keeps tournament phases moving even when no
// request touches them. Phase transitions stay lazy on the read path;
// this job is the sweep that finalizes tournaments nobody is watching.
func (s *TournamentService) StartTournamentScheduler() (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}
	sched.Start()

	// Every minute: pin start/end dates on templates and advance phases
	_, err = sched.NewJob(
		gocron.DurationJob(1*time.Minute),
		gocron.NewTask(func() {
			now := time.Now()
			if err := s.ScheduleUpcoming(now); err != nil {
				log.Printf("[Scheduler] Failed to schedule tournaments: %v", err)
			}
			if err := s.Sweep(now); err != nil {
				log.Printf("[Scheduler] Tournament sweep error: %v", err)
			}
		}),
	)
	if err != nil {
		return nil, err
	}

	log.Println("✅ Tournament scheduler running")
	return sched, nil
}

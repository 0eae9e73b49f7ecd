// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// StartArchiveScheduler runs ArchiveCompleted every interval until the
// returned scheduler is shut down.
func (a *ArchiveService) StartArchiveScheduler(ctx context.Context, interval time.Duration) (gocron.Scheduler, error) {
	sched, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	_, err = sched.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			n, err := a.ArchiveCompleted(ctx)
			if err != nil {
				log.Printf("[Scheduler] Archive run failed: %v", err)
				return
			}
			if n > 0 {
				log.Printf("[Scheduler] Archived %d session(s)", n)
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = sched.Shutdown()
		return nil, err
	}

	sched.Start()
	return sched, nil
}

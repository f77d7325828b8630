package worker

import (
	"context"
	"fmt"
	"time"

	"fitness-league-go/internal/domain/restday"
	"fitness-league-go/pkg/logger"
	"github.com/go-co-op/gocron/v2"
)

const restDayJobName = "rest-day-backfill"

type Backfiller interface {
	Run(ctx context.Context) (restday.Result, error)
}

// RestDayScheduler runs the rest-day backfill once a day at a fixed UTC
// time. Overlapping runs are rescheduled rather than stacked.
type RestDayScheduler struct {
	scheduler gocron.Scheduler
	job       gocron.Job
	backfill  Backfiller
	log       logger.Logger
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewRestDayScheduler(backfill Backfiller, hour, minute uint, log logger.Logger, options ...gocron.SchedulerOption) (*RestDayScheduler, error) {
	options = append([]gocron.SchedulerOption{gocron.WithLocation(time.UTC)}, options...)
	scheduler, err := gocron.NewScheduler(options...)
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s := &RestDayScheduler{
		scheduler: scheduler,
		backfill:  backfill,
		log:       log.With("job", restDayJobName),
		ctx:       ctx,
		cancel:    cancel,
	}

	s.job, err = scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(hour, minute, 0))),
		gocron.NewTask(s.run),
		gocron.WithName(restDayJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("schedule rest day backfill: %w", err)
	}

	return s, nil
}

func (s *RestDayScheduler) Start() {
	s.scheduler.Start()
	if next, err := s.job.NextRun(); err == nil {
		s.log.Info("worker: scheduler started", "next_run", next)
	}
}

// Shutdown cancels an in-flight run and waits for it to return.
func (s *RestDayScheduler) Shutdown() error {
	s.cancel()
	return s.scheduler.Shutdown()
}

func (s *RestDayScheduler) run() {
	started := time.Now()
	result, err := s.backfill.Run(s.ctx)
	if err != nil {
		s.log.InternalError("worker: rest day backfill failed", err)
		return
	}
	s.log.Info("worker: rest day backfill done",
		"assigned", result.Assigned,
		"processed", result.Processed,
		"duration", time.Since(started),
	)
}

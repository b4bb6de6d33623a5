package jobs

import (
	"context"
	"log/slog"
	"time"

	"orders/internal/core/application/usecases/commands"

	"github.com/robfig/cron/v3"
)

// DefaultOutboxRelaySchedule runs the relay every five seconds.
const DefaultOutboxRelaySchedule = "*/5 * * * * *"

type outboxRelayer interface {
	Handle(ctx context.Context, cmd commands.RelayOutboxCommand) (int, error)
}

// OutboxRelayJob periodically drains the outbox: each tick publishes batches
// until a batch comes back short or a run exceeds its time budget.
type OutboxRelayJob struct {
	handler  outboxRelayer
	cmd      commands.RelayOutboxCommand
	schedule string
	budget   time.Duration
	cron     *cron.Cron
	logger   *slog.Logger
}

// NewOutboxRelayJob accepts a six-field cron expression (seconds first); an
// empty schedule selects DefaultOutboxRelaySchedule.
func NewOutboxRelayJob(handler outboxRelayer, schedule string, batchSize int, logger *slog.Logger) (*OutboxRelayJob, error) {
	cmd, err := commands.NewRelayOutboxCommand(batchSize)
	if err != nil {
		return nil, err
	}
	if schedule == "" {
		schedule = DefaultOutboxRelaySchedule
	}

	return &OutboxRelayJob{
		handler:  handler,
		cmd:      cmd,
		schedule: schedule,
		budget:   30 * time.Second,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger.With("component", "outbox_relay_job"),
	}, nil
}

func (j *OutboxRelayJob) Start() error {
	if _, err := j.cron.AddFunc(j.schedule, j.tick); err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Outbox relay job started", "schedule", j.schedule)
	return nil
}

// Stop waits for a running tick to finish.
func (j *OutboxRelayJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Outbox relay job stopped")
}

func (j *OutboxRelayJob) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), j.budget)
	defer cancel()

	published, err := j.RunOnce(ctx)
	if err != nil {
		j.logger.ErrorContext(ctx, "Outbox relay failed", "error", err, "published", published)
		return
	}
	if published > 0 {
		j.logger.DebugContext(ctx, "Outbox relayed", "published", published)
	}
}

// RunOnce drains pending messages and returns how many were published.
func (j *OutboxRelayJob) RunOnce(ctx context.Context) (int, error) {
	total := 0
	for {
		n, err := j.handler.Handle(ctx, j.cmd)
		total += n
		if err != nil {
			return total, err
		}
		if n < j.cmd.BatchSize() || ctx.Err() != nil {
			return total, nil
		}
	}
}

// Package jobs provides scheduled background tasks for the order service.
//
// Jobs are built on github.com/robfig/cron/v3 with second-resolution schedules.
//
// # Available Jobs
//
// OutboxRelayJob publishes order events that were committed to the outbox table.
// Each tick drains the outbox batch by batch; a tick still running when the next
// one is due is skipped.
//
// # Usage
//
//	relay, err := jobs.NewOutboxRelayJob(&relayHandler, cfg.OutboxRelaySchedule, cfg.OutboxBatchSize, logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//	jobManager := jobs.NewJobManager(relay)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed batch is logged and left pending; the next tick retries it.
package jobs

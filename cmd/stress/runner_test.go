package main

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"orders/cmd"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJudgeShipRace(t *testing.T) {
	ok := result{status: http.StatusOK}
	conflict := result{status: http.StatusConflict, reason: "CONFLICT"}
	alreadyShipped := result{status: http.StatusBadRequest, reason: "INVALID_STATE"}

	assert.Empty(t, judgeShipRace([]result{ok, conflict}))
	assert.Empty(t, judgeShipRace([]result{alreadyShipped, ok}))
	assert.Contains(t, judgeShipRace([]result{ok, ok}), "2 ships succeeded")
	assert.Contains(t, judgeShipRace([]result{conflict, alreadyShipped}), "0 ships succeeded")
	assert.Contains(t, judgeShipRace([]result{ok, {status: http.StatusInternalServerError, reason: "INTERNAL"}}), "500 INTERNAL")
	assert.Contains(t, judgeShipRace([]result{ok, {status: http.StatusBadRequest, reason: "INVALID_ARGUMENT"}}), "400 INVALID_ARGUMENT")
}

func TestRunner_ReportsNoBreachesAgainstMemoryService(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	root, err := cmd.NewCompositionRoot(ctx, cmd.Config{DBDriver: cmd.DriverMemory, OutboxBatchSize: 100}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = root.Close() })
	e, err := root.CreateRouter(ctx)
	require.NoError(t, err)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	opts := options{
		baseURL:     srv.URL,
		orders:      60,
		concurrency: 16,
		payStorm:    4,
		users:       10,
		products:    20,
		timeout:     10 * time.Second,
		seed:        3,
	}
	r := &runner{
		client: &client{baseURL: srv.URL, http: srv.Client()},
		opts:   opts,
		rnd:    rand.New(rand.NewPCG(opts.seed, opts.seed+1)),
	}

	report, err := r.run(ctx)

	require.NoError(t, err)
	assert.Empty(t, report.breaches)
	for _, phase := range phaseOrder {
		assert.Contains(t, report.phases, phase)
	}
	assert.Equal(t, opts.orders, report.phases[phaseCreate].statuses[statusKey{status: http.StatusCreated}])
	assert.Equal(t, opts.orders, report.phases[phasePayStorm].statuses[statusKey{status: http.StatusOK}])
	assert.Equal(t, opts.orders*(opts.payStorm-1),
		report.phases[phasePayStorm].statuses[statusKey{status: http.StatusConflict, reason: "ALREADY_PAID"}])
	assert.Equal(t, len(analyticsPaths), report.phases[phaseAnalytics].statuses[statusKey{status: http.StatusOK}])
}

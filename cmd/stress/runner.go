package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	phaseCreate    = "create"
	phasePayStorm  = "pay storm"
	phaseShip      = "ship race"
	phaseComplete  = "complete"
	phaseVerify    = "verify"
	phaseAnalytics = "analytics"
)

var analyticsPaths = []string{
	"/api/v1/analytics/revenue",
	"/api/v1/analytics/revenue/users?limit=10",
	"/api/v1/analytics/orders/status",
	"/api/v1/analytics/products/top?limit=10",
}

type createdOrder struct {
	id         int64
	totalCents int64
}

type runner struct {
	client *client
	opts   options
	rnd    *rand.Rand

	mu     sync.Mutex
	report *report
}

func (r *runner) run(ctx context.Context) (*report, error) {
	r.report = newReport()

	created, err := r.createOrders(ctx)
	if err != nil {
		return nil, err
	}
	if len(created) == 0 {
		r.breach("no order was created; check that users 1..%d and products 1..%d exist", r.opts.users, r.opts.products)
		return r.report, nil
	}

	paid, err := r.payStorm(ctx, created)
	if err != nil {
		return nil, err
	}
	if err := r.shipAndComplete(ctx, paid); err != nil {
		return nil, err
	}
	if err := r.checkAnalytics(ctx); err != nil {
		return nil, err
	}
	return r.report, nil
}

func (r *runner) createOrders(ctx context.Context) ([]createdOrder, error) {
	requests := make([][]orderLine, r.opts.orders)
	userIDs := make([]int64, r.opts.orders)
	for i := range requests {
		userIDs[i] = 1 + r.rnd.Int64N(int64(r.opts.users))
		requests[i] = make([]orderLine, 1+r.rnd.IntN(5))
		for j := range requests[i] {
			requests[i][j] = orderLine{ProductID: 1 + r.rnd.Int64N(int64(r.opts.products)), Quantity: 1 + r.rnd.IntN(3)}
		}
	}

	var created []createdOrder
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.concurrency)
	for i := range requests {
		g.Go(func() error {
			res, env, err := r.client.createOrder(gctx, userIDs[i], requests[i])
			if err != nil {
				return err
			}
			r.observe(phaseCreate, res)
			if res.status != http.StatusCreated {
				return nil
			}
			if env.Order.Status != "CREATED" || env.Order.TotalCents <= 0 {
				r.breach("order %d created as %s with total %d", env.Order.ID, env.Order.Status, env.Order.TotalCents)
			}
			r.mu.Lock()
			created = append(created, createdOrder{id: env.Order.ID, totalCents: env.Order.TotalCents})
			r.mu.Unlock()
			return nil
		})
	}
	return created, g.Wait()
}

// payStorm fires payStorm identical payments at every order at once. Exactly
// one may succeed and every other attempt must be rejected as already paid.
func (r *runner) payStorm(ctx context.Context, orders []createdOrder) ([]createdOrder, error) {
	var paid []createdOrder
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.opts.concurrency/r.opts.payStorm))
	for _, o := range orders {
		g.Go(func() error {
			results, err := r.race(gctx, r.opts.payStorm, func(ctx context.Context) (result, error) {
				return r.client.pay(ctx, o.id, o.totalCents)
			})
			if err != nil {
				return err
			}

			ok, rejected := 0, 0
			for _, res := range results {
				r.observe(phasePayStorm, res)
				switch {
				case res.status == http.StatusOK:
					ok++
				case res.status == http.StatusConflict && res.reason == "ALREADY_PAID":
					rejected++
				}
			}
			if ok != 1 || rejected != len(results)-1 {
				r.breach("order %d: %d successful pays and %d ALREADY_PAID out of %d", o.id, ok, rejected, len(results))
			}
			if ok > 0 {
				r.mu.Lock()
				paid = append(paid, o)
				r.mu.Unlock()
			}
			return nil
		})
	}
	return paid, g.Wait()
}

// shipAndComplete races two ships per order, completes the winner and reads
// the order back.
func (r *runner) shipAndComplete(ctx context.Context, orders []createdOrder) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, r.opts.concurrency/2))
	for _, o := range orders {
		g.Go(func() error {
			results, err := r.race(gctx, 2, func(ctx context.Context) (result, error) {
				return r.client.transition(ctx, o.id, "ship")
			})
			if err != nil {
				return err
			}
			for _, res := range results {
				r.observe(phaseShip, res)
			}
			if problem := judgeShipRace(results); problem != "" {
				r.breach("order %d: %s", o.id, problem)
				return nil
			}

			res, err := r.client.transition(gctx, o.id, "complete")
			if err != nil {
				return err
			}
			r.observe(phaseComplete, res)
			if res.status != http.StatusOK {
				r.breach("order %d: complete answered %d %s", o.id, res.status, res.reason)
				return nil
			}

			return r.verify(gctx, o)
		})
	}
	return g.Wait()
}

func (r *runner) verify(ctx context.Context, o createdOrder) error {
	res, err := r.client.get(ctx, fmt.Sprintf("/api/v1/orders/%d", o.id))
	if err != nil {
		return err
	}
	r.observe(phaseVerify, res)

	var env struct {
		Order struct {
			Status     string `json:"status"`
			TotalCents int64  `json:"totalCents"`
			Payment    *struct {
				AmountCents int64 `json:"amountCents"`
			} `json:"payment"`
		} `json:"order"`
	}
	if res.status != http.StatusOK || json.Unmarshal(res.body, &env) != nil {
		r.breach("order %d: read back failed with %d", o.id, res.status)
		return nil
	}
	switch {
	case env.Order.Status != "COMPLETED":
		r.breach("order %d: expected COMPLETED, got %s", o.id, env.Order.Status)
	case env.Order.TotalCents != o.totalCents:
		r.breach("order %d: total changed from %d to %d", o.id, o.totalCents, env.Order.TotalCents)
	case env.Order.Payment == nil || env.Order.Payment.AmountCents != o.totalCents:
		r.breach("order %d: payment missing or not equal to the total", o.id)
	}
	return nil
}

func (r *runner) checkAnalytics(ctx context.Context) error {
	for _, path := range analyticsPaths {
		res, err := r.client.get(ctx, path)
		if err != nil {
			return err
		}
		r.observe(phaseAnalytics, res)
		if res.status != http.StatusOK {
			r.breach("%s answered %d %s", path, res.status, res.reason)
		}
	}
	return nil
}

// judgeShipRace expects exactly one winner. A loser either lost the conditional
// update (409 CONFLICT) or loaded the order after the winner committed and saw
// it already SHIPPED (400 INVALID_STATE).
func judgeShipRace(results []result) string {
	winners := 0
	for _, res := range results {
		switch {
		case res.status == http.StatusOK:
			winners++
		case res.status == http.StatusConflict && res.reason == "CONFLICT":
		case res.status == http.StatusBadRequest && res.reason == "INVALID_STATE":
		default:
			return fmt.Sprintf("losing ship answered %d %s", res.status, res.reason)
		}
	}
	if winners != 1 {
		return fmt.Sprintf("%d ships succeeded", winners)
	}
	return ""
}

// race releases n calls at the same instant and collects every result.
func (r *runner) race(ctx context.Context, n int, call func(context.Context) (result, error)) ([]result, error) {
	results := make([]result, n)
	start := make(chan struct{})
	g, gctx := errgroup.WithContext(ctx)
	for i := range n {
		g.Go(func() error {
			<-start
			res, err := call(gctx)
			results[i] = res
			return err
		})
	}
	close(start)
	return results, g.Wait()
}

func (r *runner) observe(phase string, res result) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.observe(phase, res)
}

func (r *runner) breach(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.report.breaches = append(r.report.breaches, fmt.Sprintf(format, args...))
}

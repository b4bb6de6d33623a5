package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

var phaseOrder = []string{phaseCreate, phasePayStorm, phaseShip, phaseComplete, phaseVerify, phaseAnalytics}

type statusKey struct {
	status int
	reason string
}

type phaseStats struct {
	latencies []time.Duration
	statuses  map[statusKey]int
}

type report struct {
	phases   map[string]*phaseStats
	breaches []string
}

func newReport() *report {
	return &report{phases: make(map[string]*phaseStats)}
}

func (r *report) observe(phase string, res result) {
	stats, ok := r.phases[phase]
	if !ok {
		stats = &phaseStats{statuses: make(map[statusKey]int)}
		r.phases[phase] = stats
	}
	stats.latencies = append(stats.latencies, res.latency)
	stats.statuses[statusKey{status: res.status, reason: res.reason}]++
}

func (r *report) render(w io.Writer) error {
	latency := tablewriter.NewWriter(w)
	latency.Header("Phase", "Requests", "p50", "p90", "p99", "Max")
	for _, phase := range phaseOrder {
		stats, ok := r.phases[phase]
		if !ok {
			continue
		}
		sorted := slices.Clone(stats.latencies)
		slices.Sort(sorted)
		if err := latency.Append([]string{
			phase,
			strconv.Itoa(len(sorted)),
			percentile(sorted, 50).String(),
			percentile(sorted, 90).String(),
			percentile(sorted, 99).String(),
			sorted[len(sorted)-1].String(),
		}); err != nil {
			return err
		}
	}
	if err := latency.Render(); err != nil {
		return err
	}

	statuses := tablewriter.NewWriter(w)
	statuses.Header("Phase", "Status", "Reason", "Count")
	for _, phase := range phaseOrder {
		stats, ok := r.phases[phase]
		if !ok {
			continue
		}
		keys := make([]statusKey, 0, len(stats.statuses))
		for k := range stats.statuses {
			keys = append(keys, k)
		}
		slices.SortFunc(keys, func(a, b statusKey) int {
			return cmp.Or(cmp.Compare(a.status, b.status), cmp.Compare(a.reason, b.reason))
		})
		for _, k := range keys {
			if err := statuses.Append([]string{phase, strconv.Itoa(k.status), k.reason, strconv.Itoa(stats.statuses[k])}); err != nil {
				return err
			}
		}
	}
	if err := statuses.Render(); err != nil {
		return err
	}

	if len(r.breaches) == 0 {
		_, err := fmt.Fprintln(w, "No invariant breaches.")
		return err
	}
	breaches := tablewriter.NewWriter(w)
	breaches.Header("#", "Breach")
	for i, b := range r.breaches {
		if err := breaches.Append([]string{strconv.Itoa(i + 1), b}); err != nil {
			return err
		}
	}
	return breaches.Render()
}

// percentile uses the nearest-rank method on an ascending slice.
func percentile(sorted []time.Duration, p int) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p*len(sorted) + 99) / 100
	return sorted[max(rank, 1)-1]
}

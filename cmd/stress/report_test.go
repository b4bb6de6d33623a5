package main

import (
	"bytes"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentile(t *testing.T) {
	var sorted []time.Duration
	for i := 1; i <= 100; i++ {
		sorted = append(sorted, time.Duration(i)*time.Millisecond)
	}

	assert.Equal(t, 50*time.Millisecond, percentile(sorted, 50))
	assert.Equal(t, 99*time.Millisecond, percentile(sorted, 99))
	assert.Equal(t, time.Millisecond, percentile(sorted[:1], 90))
	assert.Zero(t, percentile(nil, 50))
}

func TestReport_Render(t *testing.T) {
	r := newReport()
	r.observe(phasePayStorm, result{status: http.StatusOK, latency: 3 * time.Millisecond})
	r.observe(phasePayStorm, result{status: http.StatusConflict, reason: "ALREADY_PAID", latency: 5 * time.Millisecond})
	r.breaches = append(r.breaches, "order 7: 2 successful pays and 0 ALREADY_PAID out of 2")

	var out bytes.Buffer
	require.NoError(t, r.render(&out))

	text := out.String()
	assert.Contains(t, text, "pay storm")
	assert.Contains(t, text, "ALREADY_PAID")
	assert.Contains(t, text, "order 7")
}

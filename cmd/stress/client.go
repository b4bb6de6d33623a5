package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type client struct {
	baseURL string
	http    *http.Client
}

type result struct {
	status  int
	reason  string
	latency time.Duration
	body    []byte
}

type orderLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type orderEnvelope struct {
	Order struct {
		ID         int64  `json:"id"`
		Status     string `json:"status"`
		TotalCents int64  `json:"totalCents"`
	} `json:"order"`
}

type errorBody struct {
	Code    int    `json:"code"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (c *client) createOrder(ctx context.Context, userID int64, lines []orderLine) (result, orderEnvelope, error) {
	res, err := c.do(ctx, http.MethodPost, "/api/v1/orders", map[string]any{"userId": userID, "items": lines})
	if err != nil {
		return res, orderEnvelope{}, err
	}
	var env orderEnvelope
	if res.status == http.StatusCreated {
		if err := json.Unmarshal(res.body, &env); err != nil {
			return res, orderEnvelope{}, fmt.Errorf("decode order: %w", err)
		}
	}
	return res, env, nil
}

func (c *client) pay(ctx context.Context, orderID, amountCents int64) (result, error) {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/pay", orderID), map[string]any{"amountCents": amountCents})
}

func (c *client) transition(ctx context.Context, orderID int64, action string) (result, error) {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/v1/orders/%d/%s", orderID, action), nil)
}

func (c *client) get(ctx context.Context, path string) (result, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

func (c *client) do(ctx context.Context, method, path string, payload any) (result, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return result{}, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return result{}, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return result{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	res := result{status: resp.StatusCode, latency: time.Since(start), body: raw}
	if err != nil {
		return res, err
	}
	if resp.StatusCode >= http.StatusBadRequest {
		var e errorBody
		if json.Unmarshal(raw, &e) == nil {
			res.reason = e.Reason
		}
	}
	return res, nil
}

package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	apihttp "orders/internal/adapters/in/http"
	"orders/internal/adapters/out/memory"
	"orders/internal/core/application/usecases/commands"
	"orders/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	e          *echo.Echo
	userIDs    []int64
	productIDs []int64
}

type orderBody struct {
	Order struct {
		ID         int64  `json:"id"`
		UserID     int64  `json:"userId"`
		Status     string `json:"status"`
		TotalCents int64  `json:"totalCents"`
		Total      string `json:"total"`
		Items      []struct {
			ProductID     int64 `json:"productId"`
			Quantity      int   `json:"quantity"`
			PriceCents    int64 `json:"priceCents"`
			SubtotalCents int64 `json:"subtotalCents"`
		} `json:"items"`
		Payment *struct {
			Reference   string `json:"reference"`
			AmountCents int64  `json:"amountCents"`
		} `json:"payment"`
	} `json:"order"`
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	return newTestAPIWithCatalog(t, 2, 3)
}

func newTestAPIWithCatalog(t *testing.T, userCount, productCount int) *testAPI {
	t.Helper()

	store := memory.New()
	users, products := store.SeedCatalog(userCount, productCount)
	factory := memory.NewUnitOfWorkFactory(store)
	readModel := memory.NewReadModel(store)

	createFactory := commands.CreateOrderUoWFactoryFunc(func() commands.CreateOrderUoW { return factory.Create() })
	transitions := commands.TransitionUoWFactoryFunc(func() commands.TransitionUoW { return factory.Create() })

	server := apihttp.NewServer(apihttp.Handlers{
		CreateOrder:       commands.NewCreateOrderCommandHandler(createFactory),
		PayOrder:          commands.NewPayOrderCommandHandler(transitions),
		ShipOrder:         commands.NewShipOrderCommandHandler(transitions),
		CompleteOrder:     commands.NewCompleteOrderCommandHandler(transitions),
		GetOrder:          queries.NewGetOrderQueryHandler(readModel),
		GetRevenue:        queries.NewGetRevenueQueryHandler(readModel),
		GetRevenueByUser:  queries.NewGetRevenueByUserQueryHandler(readModel),
		GetOrdersByStatus: queries.NewGetOrdersByStatusQueryHandler(readModel),
		GetTopProducts:    queries.NewGetTopProductsQueryHandler(readModel),
	}, apihttp.NewMetrics())

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	e, err := apihttp.NewRouter(context.Background(), server, nil, logger)
	require.NoError(t, err)

	return &testAPI{e: e, userIDs: users, productIDs: products}
}

func (a *testAPI) do(method, path, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) createOrder(t *testing.T, quantity int) orderBody {
	t.Helper()
	rec := a.do(http.MethodPost, "/api/v1/orders", jsonBody(t, map[string]any{
		"userId": a.userIDs[0],
		"items": []map[string]any{
			{"productId": a.productIDs[0], "quantity": quantity},
			{"productId": a.productIDs[1], "quantity": 1},
		},
	}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[orderBody](t, rec)
}

func jsonBody(t *testing.T, v any) string {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return string(data)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, code int, reason string) {
	t.Helper()
	require.Equal(t, code, rec.Code, rec.Body.String())
	body := decode[apihttp.ErrorResponse](t, rec)
	assert.Equal(t, code, body.Code)
	assert.Equal(t, reason, body.Reason)
	assert.NotEmpty(t, body.Message)
}

func payPath(id int64) string {
	return "/api/v1/orders/" + itoa(id) + "/pay"
}

func itoa(id int64) string {
	data, _ := json.Marshal(id)
	return string(data)
}

func TestCreateOrder(t *testing.T) {
	api := newTestAPI(t)

	t.Run("should price items and return 201", func(t *testing.T) {
		body := api.createOrder(t, 2)

		assert.Positive(t, body.Order.ID)
		assert.Equal(t, "CREATED", body.Order.Status)
		require.Len(t, body.Order.Items, 2)
		var sum int64
		for _, item := range body.Order.Items {
			assert.Equal(t, item.PriceCents*int64(item.Quantity), item.SubtotalCents)
			sum += item.SubtotalCents
		}
		assert.Equal(t, sum, body.Order.TotalCents)
	})

	t.Run("should accept an order without items", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/v1/orders", jsonBody(t, map[string]any{"userId": api.userIDs[1]}))

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, int64(0), decode[orderBody](t, rec).Order.TotalCents)
	})

	t.Run("should report unknown user", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/v1/orders", jsonBody(t, map[string]any{"userId": 999}))

		assertError(t, rec, http.StatusNotFound, apihttp.ReasonNotFound)
	})

	t.Run("should reject a malformed user id as invalid argument", func(t *testing.T) {
		for _, userID := range []int64{0, -1} {
			rec := api.do(http.MethodPost, "/api/v1/orders", jsonBody(t, map[string]any{"userId": userID}))

			assertError(t, rec, http.StatusBadRequest, apihttp.ReasonInvalidArgument)
		}
	})

	t.Run("should report unknown product", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/v1/orders", jsonBody(t, map[string]any{
			"userId": api.userIDs[0],
			"items":  []map[string]any{{"productId": 999, "quantity": 1}},
		}))

		assertError(t, rec, http.StatusNotFound, apihttp.ReasonNotFound)
	})

	t.Run("should reject non-positive quantity", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/v1/orders", jsonBody(t, map[string]any{
			"userId": api.userIDs[0],
			"items":  []map[string]any{{"productId": api.productIDs[0], "quantity": 0}},
		}))

		assertError(t, rec, http.StatusBadRequest, apihttp.ReasonInvalidArgument)
	})

	t.Run("should reject a body that does not match the schema", func(t *testing.T) {
		rec := api.do(http.MethodPost, "/api/v1/orders", `{"userId":"one"}`)

		assertError(t, rec, http.StatusBadRequest, apihttp.ReasonInvalidArgument)
	})
}

func TestOrderLifecycle(t *testing.T) {
	api := newTestAPI(t)
	created := api.createOrder(t, 1)
	id := created.Order.ID

	rec := api.do(http.MethodPost, "/api/v1/orders/"+itoa(id)+"/ship", "")
	assertError(t, rec, http.StatusBadRequest, apihttp.ReasonInvalidState)

	rec = api.do(http.MethodPost, payPath(id), jsonBody(t, map[string]any{"amountCents": created.Order.TotalCents + 1}))
	assertError(t, rec, http.StatusBadRequest, apihttp.ReasonInvalidArgument)

	rec = api.do(http.MethodPost, payPath(id), jsonBody(t, map[string]any{"amountCents": created.Order.TotalCents}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "PAID", decode[orderBody](t, rec).Order.Status)

	rec = api.do(http.MethodPost, payPath(id), jsonBody(t, map[string]any{"amountCents": created.Order.TotalCents}))
	assertError(t, rec, http.StatusConflict, apihttp.ReasonAlreadyPaid)

	rec = api.do(http.MethodPost, "/api/v1/orders/"+itoa(id)+"/ship", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "SHIPPED", decode[orderBody](t, rec).Order.Status)

	rec = api.do(http.MethodPost, "/api/v1/orders/"+itoa(id)+"/complete", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "COMPLETED", decode[orderBody](t, rec).Order.Status)

	rec = api.do(http.MethodPost, "/api/v1/orders/"+itoa(id)+"/complete", "")
	assertError(t, rec, http.StatusBadRequest, apihttp.ReasonInvalidState)

	rec = api.do(http.MethodGet, "/api/v1/orders/"+itoa(id), "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[orderBody](t, rec)
	assert.Equal(t, "COMPLETED", got.Order.Status)
	require.NotNil(t, got.Order.Payment)
	assert.Equal(t, created.Order.TotalCents, got.Order.Payment.AmountCents)
	assert.NotEmpty(t, got.Order.Payment.Reference)
}

func TestOrderPaths(t *testing.T) {
	api := newTestAPI(t)

	assertError(t, api.do(http.MethodGet, "/api/v1/orders/424242", ""), http.StatusNotFound, apihttp.ReasonNotFound)
	assertError(t, api.do(http.MethodGet, "/api/v1/orders/abc", ""), http.StatusBadRequest, apihttp.ReasonInvalidArgument)
	assertError(t, api.do(http.MethodPost, "/api/v1/orders/424242/ship", ""), http.StatusNotFound, apihttp.ReasonNotFound)
	assertError(t, api.do(http.MethodPost, payPath(1), `{}`), http.StatusBadRequest, apihttp.ReasonInvalidArgument)
}

// TestPayOrder_ConcurrentRequests fires parallel pay requests at one order:
// exactly one succeeds and every other request sees ALREADY_PAID.
func TestPayOrder_ConcurrentRequests(t *testing.T) {
	api := newTestAPI(t)
	created := api.createOrder(t, 2)
	body := jsonBody(t, map[string]any{"amountCents": created.Order.TotalCents})

	const attempts = 20
	codes := make(chan int, attempts)
	reasons := make(chan string, attempts)
	var wg sync.WaitGroup
	for range attempts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec := api.do(http.MethodPost, payPath(created.Order.ID), body)
			codes <- rec.Code
			if rec.Code != http.StatusOK {
				var e apihttp.ErrorResponse
				_ = json.Unmarshal(rec.Body.Bytes(), &e)
				reasons <- e.Reason
			}
		}()
	}
	wg.Wait()
	close(codes)
	close(reasons)

	counts := map[int]int{}
	for code := range codes {
		counts[code]++
	}
	assert.Equal(t, map[int]int{http.StatusOK: 1, http.StatusConflict: attempts - 1}, counts)
	for reason := range reasons {
		assert.Equal(t, apihttp.ReasonAlreadyPaid, reason)
	}

	rec := api.do(http.MethodGet, "/api/v1/analytics/revenue", "")
	require.Equal(t, http.StatusOK, rec.Code)
	revenue := decode[struct {
		Data apihttp.RevenueResponse `json:"data"`
	}](t, rec)
	assert.Equal(t, int64(1), revenue.Data.Payments)
	assert.Equal(t, created.Order.TotalCents, revenue.Data.TotalCents)
}

func TestAnalytics(t *testing.T) {
	api := newTestAPI(t)
	created := api.createOrder(t, 3)
	api.createOrder(t, 1)
	rec := api.do(http.MethodPost, payPath(created.Order.ID), jsonBody(t, map[string]any{"amountCents": created.Order.TotalCents}))
	require.Equal(t, http.StatusOK, rec.Code)

	t.Run("revenue is timed", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/analytics/revenue", "")

		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("X-Response-Time"))
		var raw map[string]json.RawMessage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))
		assert.Contains(t, raw, "execution_ms")
		assert.Contains(t, raw, "data")
	})

	t.Run("revenue by user", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/analytics/revenue/users?limit=5", "")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[struct {
			Data []apihttp.UserRevenueResponse `json:"data"`
		}](t, rec)
		require.Len(t, body.Data, 1)
		assert.Equal(t, api.userIDs[0], body.Data[0].ID)
		assert.Equal(t, created.Order.Total, body.Data[0].TotalSpent)
	})

	t.Run("orders by status lists every status", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/analytics/orders/status", "")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[struct {
			Data []apihttp.StatusCountResponse `json:"data"`
		}](t, rec)
		assert.Equal(t, []apihttp.StatusCountResponse{
			{Status: "CREATED", Count: 1},
			{Status: "PAID", Count: 1},
			{Status: "SHIPPED", Count: 0},
			{Status: "COMPLETED", Count: 0},
		}, body.Data)
	})

	t.Run("top products", func(t *testing.T) {
		rec := api.do(http.MethodGet, "/api/v1/analytics/products/top", "")

		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[struct {
			Data []apihttp.ProductSalesResponse `json:"data"`
		}](t, rec)
		require.Len(t, body.Data, 2)
		assert.Equal(t, api.productIDs[0], body.Data[0].ID)
		assert.Equal(t, int64(4), body.Data[0].TotalSold)
	})

	t.Run("limit out of range", func(t *testing.T) {
		for _, path := range []string{
			"/api/v1/analytics/products/top?limit=1000",
			"/api/v1/analytics/products/top?limit=0",
			"/api/v1/analytics/revenue/users?limit=101",
			"/api/v1/analytics/revenue/users?limit=ten",
		} {
			assertError(t, api.do(http.MethodGet, path, ""), http.StatusBadRequest, apihttp.ReasonInvalidArgument)
		}
	})
}

func TestAnalytics_DefaultLimit(t *testing.T) {
	api := newTestAPIWithCatalog(t, 12, 12)

	items := make([]map[string]any, 0, len(api.productIDs))
	for _, id := range api.productIDs {
		items = append(items, map[string]any{"productId": id, "quantity": 1})
	}
	for _, userID := range api.userIDs {
		rec := api.do(http.MethodPost, "/api/v1/orders", jsonBody(t, map[string]any{"userId": userID, "items": items}))
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		created := decode[orderBody](t, rec)
		rec = api.do(http.MethodPost, payPath(created.Order.ID), jsonBody(t, map[string]any{"amountCents": created.Order.TotalCents}))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := api.do(http.MethodGet, "/api/v1/analytics/products/top", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	products := decode[struct {
		Data []apihttp.ProductSalesResponse `json:"data"`
	}](t, rec)
	assert.Len(t, products.Data, 10)

	rec = api.do(http.MethodGet, "/api/v1/analytics/revenue/users", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	users := decode[struct {
		Data []apihttp.UserRevenueResponse `json:"data"`
	}](t, rec)
	assert.Len(t, users.Data, 10)

	rec = api.do(http.MethodGet, "/api/v1/analytics/revenue/users?limit=3", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	users = decode[struct {
		Data []apihttp.UserRevenueResponse `json:"data"`
	}](t, rec)
	assert.Len(t, users.Data, 3)
}

func TestOperationalEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.createOrder(t, 1)

	rec := api.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())

	rec = api.do(http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "orders_http_requests_total")
	assert.Contains(t, rec.Body.String(), `orders_lifecycle_transitions_total{operation="create",outcome="OK"} 1`)

	rec = api.do(http.MethodGet, "/swagger/doc.json", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/orders/{id}/pay")

	assertError(t, api.do(http.MethodGet, "/api/v1/nothing-here", ""), http.StatusNotFound, apihttp.ReasonNotFound)
	assertError(t, api.do(http.MethodGet, "/api/v1/orders/1/nothing-here", ""), http.StatusNotFound, apihttp.ReasonNotFound)
	assertError(t, api.do(http.MethodDelete, "/api/v1/orders/1", ""), http.StatusMethodNotAllowed, apihttp.ReasonMethodNotAllowed)
	assertError(t, api.do(http.MethodGet, "/api/v1/orders/1/pay", ""), http.StatusMethodNotAllowed, apihttp.ReasonMethodNotAllowed)
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/service"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/config"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/events"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/http/handler"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/realtime"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/repository/filestore"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/telemetry"
)

type envelope struct {
	Status      string          `json:"status"`
	Payload     json.RawMessage `json:"payload"`
	Message     string          `json:"message"`
	Errors      []string        `json:"errors"`
	TotalPages  int             `json:"totalPages"`
	TotalDocs   int             `json:"totalDocs"`
	HasNextPage bool            `json:"hasNextPage"`
	NextLink    *string         `json:"nextLink"`
}

type testApp struct {
	server *httptest.Server
	hub    *realtime.Hub
}

func newTestApp(t *testing.T, checkStock bool) *testApp {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tracer := tracenoop.NewTracerProvider().Tracer("http-test")
	meter := metricnoop.NewMeterProvider().Meter("http-test")

	cfg := &config.Config{
		Server: config.ServerConfig{Host: "127.0.0.1", Port: "0"},
		OTLP:   config.OTLPConfig{ServiceName: "http-test"},
	}
	telem, err := telemetry.NewNoOpTelemetry(cfg)
	require.NoError(t, err)

	store, err := filestore.Open(t.TempDir(), tracer, logger)
	require.NoError(t, err)

	fanout := events.NewFanout()
	products := service.NewProductService(store.Products, fanout, tracer, meter, logger)
	carts := service.NewCartService(store.Carts, store.Products, checkStock, tracer, meter, logger)
	students := service.NewStudentService(store.Students, tracer, meter, logger)
	users := service.NewUserService(store.Users, tracer, meter, logger)

	hub := realtime.NewHub(products, logger)
	fanout.Add(hub)

	srv := NewServer(&cfg.Server, Handlers{
		Products: handler.NewProductHandler(products, 100, logger),
		Carts:    handler.NewCartHandler(carts, logger),
		Students: handler.NewStudentHandler(students, 100),
		Users:    handler.NewUserHandler(users, 100),
		Views:    handler.NewViewHandler(products, 100, logger),
		Live:     hub,
	}, logger, telem)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		hub.Close()
		ts.Close()
		_ = telem.Shutdown(context.Background())
	})
	return &testApp{server: ts, hub: hub}
}

func (a *testApp) do(t *testing.T, method, path, body string) (int, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.server.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(bytes.TrimSpace(raw)) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return resp.StatusCode, env
}

func productBody(code string, price float64, stock int) string {
	b, _ := json.Marshal(map[string]any{
		"title":       "Product " + code,
		"description": "desc number ten+",
		"code":        code,
		"price":       price,
		"stock":       stock,
		"category":    "Accesorios",
	})
	return string(b)
}

func payloadID(t *testing.T, env envelope) string {
	t.Helper()
	var p struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Payload, &p))
	return p.ID
}

func TestProductEndpoints(t *testing.T) {
	app := newTestApp(t, false)

	t.Run("CreateAssignsSequentialIDAndRejectsDuplicate", func(t *testing.T) {
		status, env := app.do(t, http.MethodPost, "/api/products", productBody("C1", 10, 5))
		require.Equal(t, http.StatusCreated, status)
		assert.Equal(t, "success", env.Status)
		assert.Equal(t, "1", payloadID(t, env))

		status, env = app.do(t, http.MethodPost, "/api/products", productBody("c1", 12, 1))
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "error", env.Status)
		assert.Contains(t, env.Message, "code")
	})

	t.Run("MissingFieldsAreItemized", func(t *testing.T) {
		status, env := app.do(t, http.MethodPost, "/api/products", `{"title":"only"}`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Validation failed", env.Message)
		assert.GreaterOrEqual(t, len(env.Errors), 4)
	})

	t.Run("MalformedBody", func(t *testing.T) {
		status, env := app.do(t, http.MethodPost, "/api/products", `{"title":`)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "error", env.Status)
	})

	t.Run("PartialUpdate", func(t *testing.T) {
		status, env := app.do(t, http.MethodPut, "/api/products/1", `{"id":"99","price":20}`)
		require.Equal(t, http.StatusOK, status)

		var p struct {
			ID    string  `json:"id"`
			Price float64 `json:"price"`
			Code  string  `json:"code"`
		}
		require.NoError(t, json.Unmarshal(env.Payload, &p))
		assert.Equal(t, "1", p.ID)
		assert.Equal(t, 20.0, p.Price)
		assert.Equal(t, "C1", p.Code)
	})

	t.Run("DeleteThenGetIsNotFound", func(t *testing.T) {
		status, _ := app.do(t, http.MethodPost, "/api/products", productBody("GONE", 5, 1))
		require.Equal(t, http.StatusCreated, status)

		status, _ = app.do(t, http.MethodDelete, "/api/products/2", "")
		require.Equal(t, http.StatusOK, status)

		status, env := app.do(t, http.MethodGet, "/api/products/2", "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "Product not found", env.Message)
	})
}

func TestProductListing(t *testing.T) {
	app := newTestApp(t, false)

	for _, p := range []struct {
		code  string
		price float64
	}{{"A", 10}, {"B", 50}, {"C", 30}, {"D", 80}, {"E", 45}} {
		status, _ := app.do(t, http.MethodPost, "/api/products", productBody(p.code, p.price, 1))
		require.Equal(t, http.StatusCreated, status)
	}

	t.Run("FilterSortLimit", func(t *testing.T) {
		status, env := app.do(t, http.MethodGet, "/api/products?query=price:50&sort=desc&limit=2&page=1", "")
		require.Equal(t, http.StatusOK, status)

		var items []struct {
			Price float64 `json:"price"`
		}
		require.NoError(t, json.Unmarshal(env.Payload, &items))
		require.Len(t, items, 2)
		assert.Equal(t, 50.0, items[0].Price)
		assert.Equal(t, 45.0, items[1].Price)

		assert.Equal(t, 4, env.TotalDocs)
		assert.Equal(t, 2, env.TotalPages)
		assert.True(t, env.HasNextPage)
		require.NotNil(t, env.NextLink)
		assert.Contains(t, *env.NextLink, "page=2")
		assert.Contains(t, *env.NextLink, "sort=desc")
	})

	t.Run("InvalidLimit", func(t *testing.T) {
		status, env := app.do(t, http.MethodGet, "/api/products?limit=500", "")
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, "Invalid query parameters", env.Message)
	})

	t.Run("HugePageIsRejected", func(t *testing.T) {
		for _, q := range []string{"page=922337203685477581&limit=20", "page=9223372036854775807&limit=10"} {
			status, env := app.do(t, http.MethodGet, "/api/products?"+q, "")
			assert.Equal(t, http.StatusBadRequest, status, q)
			assert.Equal(t, []string{"page is out of range"}, env.Errors, q)
		}
	})

	t.Run("UnknownQueryPrefix", func(t *testing.T) {
		status, _ := app.do(t, http.MethodGet, "/api/products?query=color:red", "")
		assert.Equal(t, http.StatusBadRequest, status)
	})
}

func TestCartEndpoints(t *testing.T) {
	app := newTestApp(t, true)

	status, _ := app.do(t, http.MethodPost, "/api/products", productBody("P", 10, 5))
	require.Equal(t, http.StatusCreated, status)

	status, env := app.do(t, http.MethodPost, "/api/carts", "")
	require.Equal(t, http.StatusCreated, status)
	cid := payloadID(t, env)

	type cartPayload struct {
		Products []struct {
			ProductID string `json:"product_id"`
			Quantity  int    `json:"quantity"`
			Stale     bool   `json:"stale"`
		} `json:"products"`
	}
	readCart := func(t *testing.T, env envelope) cartPayload {
		var c cartPayload
		require.NoError(t, json.Unmarshal(env.Payload, &c))
		return c
	}

	t.Run("AddingTwiceMerges", func(t *testing.T) {
		status, _ := app.do(t, http.MethodPost, "/api/carts/"+cid+"/products/1", `{"quantity":3}`)
		require.Equal(t, http.StatusOK, status)

		status, env := app.do(t, http.MethodPost, "/api/carts/"+cid+"/products/1", `{"quantity":2}`)
		require.Equal(t, http.StatusOK, status)

		c := readCart(t, env)
		require.Len(t, c.Products, 1)
		assert.Equal(t, "1", c.Products[0].ProductID)
		assert.Equal(t, 5, c.Products[0].Quantity)
	})

	t.Run("InsufficientStock", func(t *testing.T) {
		status, _ := app.do(t, http.MethodPost, "/api/carts/"+cid+"/products/1", `{"quantity":6}`)
		assert.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("MissingCartOrProduct", func(t *testing.T) {
		status, _ := app.do(t, http.MethodPost, "/api/carts/404/products/1", "")
		assert.Equal(t, http.StatusNotFound, status)

		status, _ = app.do(t, http.MethodPost, "/api/carts/"+cid+"/products/404", "")
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("SetQuantityRemoveAndClear", func(t *testing.T) {
		status, env := app.do(t, http.MethodPut, "/api/carts/"+cid+"/products/1", `{"quantity":2}`)
		require.Equal(t, http.StatusOK, status)
		assert.Equal(t, 2, readCart(t, env).Products[0].Quantity)

		status, _ = app.do(t, http.MethodPut, "/api/carts/"+cid+"/products/1", `{"quantity":0}`)
		assert.Equal(t, http.StatusBadRequest, status)

		status, env = app.do(t, http.MethodDelete, "/api/carts/"+cid+"/products/1", "")
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, readCart(t, env).Products)

		status, _ = app.do(t, http.MethodDelete, "/api/carts/"+cid+"/products/1", "")
		assert.Equal(t, http.StatusNotFound, status)

		status, env = app.do(t, http.MethodPut, "/api/carts/"+cid, `{"products":[{"product":"1","quantity":1},{"product":"1","quantity":2}]}`)
		require.Equal(t, http.StatusOK, status)
		c := readCart(t, env)
		require.Len(t, c.Products, 1)
		assert.Equal(t, 3, c.Products[0].Quantity)

		status, env = app.do(t, http.MethodDelete, "/api/carts/"+cid, "")
		require.Equal(t, http.StatusOK, status)
		assert.Empty(t, readCart(t, env).Products)
	})
}

func TestStudentAndUserEndpoints(t *testing.T) {
	app := newTestApp(t, false)

	status, env := app.do(t, http.MethodPost, "/api/students",
		`{"first_name":"Ana","last_name":"Paz","age":20,"course":"Medio","email":"ANA@example.com"}`)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "1", payloadID(t, env))

	status, _ = app.do(t, http.MethodPost, "/api/students",
		`{"first_name":"Ana","last_name":"Paz","age":20,"course":"medio","email":"ana@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = app.do(t, http.MethodGet, "/api/students?query=course:medio", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, env.TotalDocs)

	status, env = app.do(t, http.MethodPost, "/api/users", `{"first_name":"Leo","last_name":"Sol","email":"leo@example.com"}`)
	require.Equal(t, http.StatusCreated, status)
	uid := payloadID(t, env)

	status, _ = app.do(t, http.MethodPut, "/api/users/"+uid, `{"last_name":"Luna"}`)
	assert.Equal(t, http.StatusOK, status)

	status, _ = app.do(t, http.MethodDelete, "/api/users/"+uid, "")
	assert.Equal(t, http.StatusOK, status)

	status, _ = app.do(t, http.MethodGet, "/api/users/"+uid, "")
	assert.Equal(t, http.StatusNotFound, status)
}

func TestAuxiliaryRoutes(t *testing.T) {
	app := newTestApp(t, false)

	t.Run("UnknownRouteIsJSON404", func(t *testing.T) {
		status, env := app.do(t, http.MethodGet, "/api/nope", "")
		assert.Equal(t, http.StatusNotFound, status)
		assert.Equal(t, "error", env.Status)
	})

	t.Run("HealthAndMetrics", func(t *testing.T) {
		for _, path := range []string{"/health", "/metrics"} {
			resp, err := app.server.Client().Get(app.server.URL + path)
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		}
	})

	t.Run("Views", func(t *testing.T) {
		status, _ := app.do(t, http.MethodPost, "/api/products", productBody("VIEW", 10, 1))
		require.Equal(t, http.StatusCreated, status)

		for _, path := range []string{"/", "/realtimeproducts"} {
			resp, err := app.server.Client().Get(app.server.URL + path)
			require.NoError(t, err)
			body, _ := io.ReadAll(resp.Body)
			resp.Body.Close()

			assert.Equal(t, http.StatusOK, resp.StatusCode, path)
			assert.Contains(t, resp.Header.Get("Content-Type"), "text/html")
			assert.Contains(t, string(body), "VIEW")
		}

		resp, err := app.server.Client().Get(app.server.URL + "/?limit=0&page=-1")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLiveChannelSeesHTTPMutations(t *testing.T) {
	app := newTestApp(t, false)

	url := "ws" + strings.TrimPrefix(app.server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	read := func() realtime.Message {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var msg realtime.Message
		require.NoError(t, conn.ReadJSON(&msg))
		return msg
	}

	require.NoError(t, conn.WriteJSON(realtime.Message{Event: realtime.EventRequestProducts}))
	assert.Equal(t, realtime.EventUpdateProducts, read().Event)

	status, _ := app.do(t, http.MethodPost, "/api/products", productBody("LIVE", 10, 1))
	require.Equal(t, http.StatusCreated, status)

	snapshot := read()
	assert.Equal(t, realtime.EventUpdateProducts, snapshot.Event)
	assert.Contains(t, string(snapshot.Data), "LIVE")
	assert.Equal(t, realtime.EventProductAdded, read().Event)
}

package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mrops-br/coder-ecommerce-api/internal/app/dto"
	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
	"github.com/mrops-br/coder-ecommerce-api/internal/infrastructure/http/response"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 << 10
	sendBuffer     = 16
)

// Catalog is the product surface the channel drives.
type Catalog interface {
	Snapshot(ctx context.Context) ([]*dto.ProductResponse, error)
	CreateProduct(ctx context.Context, req *dto.CreateProductRequest) (*dto.ProductResponse, error)
	DeleteProduct(ctx context.Context, id string) (*dto.ProductResponse, error)
}

// Hub tracks connected clients and pushes catalog snapshots to all of them
// whenever a product mutation is published.
type Hub struct {
	catalog  Catalog
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*client]struct{}
}

func NewHub(catalog Catalog, logger *slog.Logger) *Hub {
	return &Hub{
		catalog: catalog,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP upgrades the request and serves the client until it leaves.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WarnContext(r.Context(), "Websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	c := &client{
		id:   uuid.NewString(),
		hub:  h,
		conn: conn,
		send: make(chan []byte, sendBuffer),
		done: make(chan struct{}),
	}
	h.register(c)

	go c.writePump()
	c.readPump()
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// PublishProductEvent broadcasts the new catalog snapshot followed by the
// event itself.
func (h *Hub) PublishProductEvent(ctx context.Context, evt domain.ProductEvent) error {
	products, err := h.catalog.Snapshot(ctx)
	if err != nil {
		return err
	}
	if err := h.broadcast(EventUpdateProducts, products); err != nil {
		return err
	}

	switch evt.Type {
	case domain.ProductCreated:
		return h.broadcast(EventProductAdded, dto.ToProductResponse(evt.Product))
	case domain.ProductDeleted:
		return h.broadcast(EventProductDeleted, dto.ToProductResponse(evt.Product))
	}
	return nil
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
}

func (h *Hub) broadcast(event string, data any) error {
	frame, err := encode(event, data)
	if err != nil {
		return err
	}

	h.mu.RLock()
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if !c.enqueue(frame) {
			h.logger.Warn("Dropping slow websocket client", slog.String("client_id", c.id))
			h.unregister(c)
		}
	}
	return nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("Websocket client connected", slog.String("client_id", c.id))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()

	if ok {
		c.close()
		h.logger.Info("Websocket client disconnected", slog.String("client_id", c.id))
	}
}

// handle runs a client request. Failures are reported to that client only.
func (h *Hub) handle(ctx context.Context, c *client, msg Message) {
	var err error
	switch msg.Event {
	case EventRequestProducts:
		var products []*dto.ProductResponse
		if products, err = h.catalog.Snapshot(ctx); err == nil {
			c.emit(EventUpdateProducts, products)
		}
	case EventAddProduct:
		var req dto.CreateProductRequest
		if err = json.Unmarshal(msg.Data, &req); err != nil {
			err = domain.NewValidationError("invalid product payload: " + err.Error())
		} else {
			_, err = h.catalog.CreateProduct(ctx, &req)
		}
	case EventDeleteProduct:
		var id string
		if id, err = decodeID(msg.Data); err != nil {
			err = domain.NewValidationError(err.Error())
		} else {
			_, err = h.catalog.DeleteProduct(ctx, id)
		}
	default:
		h.logger.DebugContext(ctx, "Ignoring unknown websocket event",
			slog.String("client_id", c.id),
			slog.String("event", msg.Event),
		)
		return
	}

	if err != nil {
		h.logger.WarnContext(ctx, "Websocket request failed",
			slog.String("client_id", c.id),
			slog.String("event", msg.Event),
			slog.String("error", err.Error()),
		)
		// Same wording as the HTTP API, so internal failures stay generic.
		_, body := response.Describe(err)
		c.emit(EventError, errorPayload{Message: body.Message, Errors: body.Errors})
	}
}

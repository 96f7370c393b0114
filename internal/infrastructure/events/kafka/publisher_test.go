package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/mrops-br/coder-ecommerce-api/internal/domain"
)

type fakeClient struct {
	records []*kgo.Record
	err     error
	closed  bool
}

func (f *fakeClient) ProduceSync(_ context.Context, rs ...*kgo.Record) kgo.ProduceResults {
	results := make(kgo.ProduceResults, 0, len(rs))
	for _, r := range rs {
		f.records = append(f.records, r)
		results = append(results, kgo.ProduceResult{Record: r, Err: f.err})
	}
	return results
}

func (f *fakeClient) Close() { f.closed = true }

func TestPublisher(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	evt := domain.ProductEvent{
		Type:    domain.ProductDeleted,
		Product: &domain.Product{ID: "7", Title: "Phone", Code: "PH1"},
	}

	t.Run("EncodesRecord", func(t *testing.T) {
		cl := &fakeClient{}
		p := NewPublisherWithClient(cl, "products.events", logger)
		require.NoError(t, p.PublishProductEvent(context.Background(), evt))

		require.Len(t, cl.records, 1)
		rec := cl.records[0]
		assert.Equal(t, "products.events", rec.Topic)
		assert.Equal(t, []byte("7"), rec.Key)
		assert.Equal(t, "productDeleted", string(rec.Headers[0].Value))

		var body struct {
			Type    string `json:"type"`
			Product struct {
				ID   string `json:"id"`
				Code string `json:"code"`
			} `json:"product"`
		}
		require.NoError(t, json.Unmarshal(rec.Value, &body))
		assert.Equal(t, "productDeleted", body.Type)
		assert.Equal(t, "7", body.Product.ID)
		assert.Equal(t, "PH1", body.Product.Code)

		p.Close()
		assert.True(t, cl.closed)
	})

	t.Run("ReportsProduceError", func(t *testing.T) {
		errBroker := errors.New("broker down")
		p := NewPublisherWithClient(&fakeClient{err: errBroker}, "t", logger)
		assert.ErrorIs(t, p.PublishProductEvent(context.Background(), evt), errBroker)
	})
}

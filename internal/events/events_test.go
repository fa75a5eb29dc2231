package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rahul4902/blood-sub001/internal/storage"
)

func TestBuildCartCheckedOutEvent(t *testing.T) {
	now := time.Date(2024, time.January, 1, 10, 0, 0, 0, time.UTC)
	payload := CartCheckedOutPayload{
		CartID:      "cart-1",
		OrderID:     "order-9",
		Items:       []CartCheckedOutItem{{ID: "t1", Type: "test", Name: "CBC", Quantity: 2, Price: 100}},
		Subtotal:    200,
		Discount:    20,
		Tax:         32.4,
		TotalAmount: 212.4,
		PaymentMode: "cod",
	}

	env := BuildCartCheckedOutEvent(payload, EnvelopeOptions{
		Sequence:      42,
		CorrelationID: "53b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		EventID:       "73b0fd3e-8d6b-49af-8c1f-12cf4182c2f7",
		OccurredAt:    now,
	})

	require.Equal(t, CartCheckedOutEventName, env.EventName)
	require.Equal(t, CartCheckedOutEventVersion, env.EventVersion)
	require.Equal(t, "73b0fd3e-8d6b-49af-8c1f-12cf4182c2f7", env.EventID)
	require.Equal(t, "cart-1", env.PartitionKey)
	require.EqualValues(t, 42, env.Sequence)
	require.Equal(t, DefaultProducer, env.Producer)
	require.Equal(t, CartCheckedOutEnvelopedSchemaPath, env.Schema)
	require.Equal(t, now, env.Payload.Timestamp)

	body, err := json.Marshal(env)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	for _, field := range []string{"eventName", "eventVersion", "eventId", "correlationId", "producer", "partitionKey", "sequence", "occurredAt", "schema", "payload"} {
		require.Contains(t, decoded, field)
	}
	require.NotContains(t, decoded, "causationId")
}

func TestBuildCartCheckedOutEvent_GeneratesIDs(t *testing.T) {
	a := BuildCartCheckedOutEvent(CartCheckedOutPayload{CartID: "c"}, EnvelopeOptions{})
	b := BuildCartCheckedOutEvent(CartCheckedOutPayload{CartID: "c"}, EnvelopeOptions{})
	require.NotEmpty(t, a.EventID)
	require.NotEqual(t, a.EventID, b.EventID)
	require.False(t, a.OccurredAt.IsZero())
}

type brokenStore struct{ storage.Store }

func (brokenStore) Get(context.Context, string) ([]byte, error) { return nil, errors.New("io") }

func TestStorageSequence_IncrementsPerPartition(t *testing.T) {
	mem := storage.NewMemory()
	repo := NewStorageSequence(mem)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := repo.NextSequence(ctx, "cart-1")
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	got, err := repo.NextSequence(ctx, "cart-2")
	require.NoError(t, err)
	require.EqualValues(t, 1, got)

	// survives a new repository over the same storage
	got, err = NewStorageSequence(mem).NextSequence(ctx, "cart-1")
	require.NoError(t, err)
	require.EqualValues(t, 4, got)

	_, err = repo.NextSequence(ctx, "")
	require.Error(t, err)

	_, err = NewStorageSequence(brokenStore{mem}).NextSequence(ctx, "cart-1")
	require.Error(t, err)

	require.NoError(t, mem.Set(ctx, sequenceKey("bad"), []byte("x")))
	_, err = repo.NextSequence(ctx, "bad")
	require.Error(t, err)
}

func TestNopPublisher(t *testing.T) {
	require.NoError(t, NopPublisher{}.PublishCartCheckedOut(context.Background(), EventMeta{}, CartCheckedOutPayload{}))
}

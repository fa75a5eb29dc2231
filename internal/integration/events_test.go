//go:build integration

package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/require"

	"github.com/rahul4902/blood-sub001/internal/cart"
	"github.com/rahul4902/blood-sub001/internal/events"
	"github.com/rahul4902/blood-sub001/internal/middleware"
	"github.com/rahul4902/blood-sub001/internal/model"
	"github.com/rahul4902/blood-sub001/internal/orders"
	"github.com/rahul4902/blood-sub001/internal/storage"
)

type acceptingSubmitter struct{ n int }

func (s *acceptingSubmitter) SubmitOrder(context.Context, orders.Request) (orders.Confirmation, error) {
	s.n++
	return orders.Confirmation{ID: fmt.Sprintf("order-%d", s.n), OrderNumber: "LAB-0001", Status: "pending"}, nil
}

func TestPlaceOrder_PublishesCartCheckedOut(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	rabbitC, rabbitURL := startRabbitMQ(ctx, t)
	defer terminateContainer(t, rabbitC)

	conn, err := events.Dial(rabbitURL)
	require.NoError(t, err)
	defer conn.Close()

	mem := storage.NewMemory()
	pub, err := events.NewPublisher(conn, events.NewStorageSequence(mem), events.PublisherOptions{})
	require.NoError(t, err)
	defer pub.Close()

	msgs := bindQueue(t, conn)

	store := cart.NewStore(cart.Options{Storage: mem})
	store.Load(ctx)

	svc := orders.NewService(orders.Options{
		Cart:      store,
		Submitter: &acceptingSubmitter{},
		Publisher: pub,
		CartID:    "client-1",
		UserID:    func() string { return "user-1" },
	})

	for i := 1; i <= 2; i++ {
		fillCart(store)
		res := svc.PlaceOrder(middleware.WithCorrelationID(ctx, "cid-1"))
		require.True(t, res.Success, res.Error)
		require.Empty(t, store.Snapshot().Items)

		got := receive(t, msgs)
		require.Equal(t, events.CartCheckedOutEventName, got.EventName)
		require.Equal(t, "client-1", got.PartitionKey)
		require.Equal(t, int64(i), got.Sequence)
		require.Equal(t, "cid-1", got.CorrelationID)
		require.Equal(t, "user-1", got.Payload.UserID)
		require.Equal(t, "cod", got.Payload.PaymentMode)
		require.InDelta(t, 590.0, got.Payload.TotalAmount, 0.001)
		require.Len(t, got.Payload.Items, 1)
	}
}

func fillCart(s *cart.Store) {
	s.AddToCart(model.LineItem{ID: "t1", Type: model.ItemTypeTest, Name: "CBC", Price: 500})
	s.SetSelectedAddress(model.Address{ID: "a1", Line1: "12 MG Road", City: "Pune", State: "MH", Pincode: "411001"})
	s.SetPatientInfo(model.PatientInfo{Name: "Asha", Age: 34, Gender: "female"})
	s.SetSelectedTimeSlot(model.TimeSlot{Date: "2026-10-17", Start: "07:00", End: "08:00"})
	s.SetPaymentMode(model.PaymentCash)
}

func bindQueue(t *testing.T, conn *amqp.Connection) <-chan amqp.Delivery {
	t.Helper()

	ch, err := conn.Channel()
	require.NoError(t, err)
	t.Cleanup(func() { _ = ch.Close() })

	q, err := ch.QueueDeclare(
		"",
		false, // durable
		true,  // autoDelete
		true,  // exclusive
		false, // noWait
		nil,   // args
	)
	require.NoError(t, err)
	require.NoError(t, ch.QueueBind(q.Name, events.CartCheckedOutRoutingKey, events.EventsExchange, false, nil))

	msgs, err := ch.Consume(q.Name, "integration-cart-checkedout", true, true, false, false, nil)
	require.NoError(t, err)
	return msgs
}

func receive(t *testing.T, msgs <-chan amqp.Delivery) events.EventEnvelope {
	t.Helper()

	select {
	case msg := <-msgs:
		require.Equal(t, "application/json", msg.ContentType)
		var env events.EventEnvelope
		require.NoError(t, json.Unmarshal(msg.Body, &env))
		require.Equal(t, env.EventID, msg.MessageId)
		return env
	case <-time.After(10 * time.Second):
		t.Fatal("timed out waiting for CartCheckedOut")
		return events.EventEnvelope{}
	}
}

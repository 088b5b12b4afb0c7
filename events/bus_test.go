package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/models"
)

func TestBusDeliversToAllSubscribers(t *testing.T) {
	bus := NewBus()
	received := make(chan OrderStatusChanged, 2)
	bus.Subscribe(func(e OrderStatusChanged) { received <- e })
	bus.Subscribe(func(e OrderStatusChanged) { received <- e })

	event := OrderStatusChanged{
		OrderID: primitive.NewObjectID(),
		UserID:  primitive.NewObjectID(),
		From:    models.StatusProcessing,
		To:      models.StatusCompleted,
	}
	bus.Publish(event)

	for i := 0; i < 2; i++ {
		select {
		case got := <-received:
			assert.Equal(t, event, got)
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestPublishWithoutSubscribersDoesNotPanic(t *testing.T) {
	bus := NewBus()
	bus.Publish(OrderStatusChanged{OrderID: primitive.NewObjectID()})
}

type recordingMailer struct {
	mu    sync.Mutex
	sent  []string
	errOn string
}

func (m *recordingMailer) SendOrderStatusEmail(toEmail, locale, orderID string, status models.PaymentStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.errOn == string(status) {
		return errors.New("smtp down")
	}
	m.sent = append(m.sent, toEmail+"/"+locale+"/"+string(status))
	return nil
}

func TestNotifierEmailsOrderOwner(t *testing.T) {
	userID := primitive.NewObjectID()

	mailer := &recordingMailer{}
	notifier := NewNotifier(func(_ context.Context, id primitive.ObjectID) (models.User, error) {
		require.Equal(t, userID, id)
		return models.User{ID: id, Email: "kundin@example.ch", Locale: "fr"}, nil
	}, mailer)

	notifier.Handle(OrderStatusChanged{
		OrderID: primitive.NewObjectID(),
		UserID:  userID,
		From:    models.StatusProcessing,
		To:      models.StatusCompleted,
	})

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "kundin@example.ch/fr/completed", mailer.sent[0])
}

func TestNotifierSwallowsDeliveryFailure(t *testing.T) {
	mailer := &recordingMailer{errOn: string(models.StatusRejected)}
	notifier := NewNotifier(func(_ context.Context, id primitive.ObjectID) (models.User, error) {
		return models.User{ID: id, Email: "kunde@example.de", Locale: "de"}, nil
	}, mailer)

	notifier.Handle(OrderStatusChanged{
		OrderID: primitive.NewObjectID(),
		UserID:  primitive.NewObjectID(),
		From:    models.StatusProcessing,
		To:      models.StatusRejected,
	})

	mailer.mu.Lock()
	defer mailer.mu.Unlock()
	assert.Empty(t, mailer.sent)
}

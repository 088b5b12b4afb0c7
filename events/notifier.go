package events

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"modehaus/models"
)

// UserLookup resolves the account a notification should go to.
type UserLookup func(ctx context.Context, id primitive.ObjectID) (models.User, error)

// Mailer sends a localized order-status email.
type Mailer interface {
	SendOrderStatusEmail(toEmail, locale, orderID string, status models.PaymentStatus) error
}

// Notifier emails customers about order status changes. Delivery is strictly
// best effort: every failure is logged and swallowed.
type Notifier struct {
	lookup UserLookup
	mail   Mailer
}

// NewNotifier creates a notifier and returns it; attach it with bus.Subscribe.
func NewNotifier(lookup UserLookup, mail Mailer) *Notifier {
	return &Notifier{lookup: lookup, mail: mail}
}

// Handle is the bus subscription entry point.
func (n *Notifier) Handle(e OrderStatusChanged) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := n.lookup(ctx, e.UserID)
	if err != nil {
		log.Printf("events: cannot resolve user %s for order %s: %v", e.UserID.Hex(), e.OrderID.Hex(), err)
		return
	}

	if err := n.mail.SendOrderStatusEmail(user.Email, user.Locale, e.OrderID.Hex(), e.To); err != nil {
		log.Printf("events: failed to send %s email to %s: %v", e.To, user.Email, err)
	}
}

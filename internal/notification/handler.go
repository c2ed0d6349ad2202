package notification

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/vendor-market/internal/account"
	"github.com/example/vendor-market/internal/email"
	"github.com/example/vendor-market/internal/orders"
)

// Handler turns order events into confirmation emails.
type Handler struct {
	emailService *email.Service
	accounts     account.Store
}

func NewHandler(emailSvc *email.Service, accounts account.Store) *Handler {
	return &Handler{
		emailService: emailSvc,
		accounts:     accounts,
	}
}

// HandleEvent processes one message from the events topic. The topic only
// carries order.placed today, anything that does not decode as one is
// skipped.
func (h *Handler) HandleEvent(ctx context.Context, key, value []byte) error {
	var e orders.OrderPlacedEvent
	if err := json.Unmarshal(value, &e); err != nil {
		log.Printf("[Notifier] Failed to unmarshal event %s: %v", key, err)
		return err
	}
	if e.OrderID == "" {
		log.Printf("[Notifier] Skipping message %s: not an order event", key)
		return nil
	}
	return h.handleOrderPlaced(ctx, e)
}

func (h *Handler) handleOrderPlaced(ctx context.Context, e orders.OrderPlacedEvent) error {
	log.Printf("[Notifier] Processing %s for order %s, user %s", orders.EventOrderPlaced, e.OrderID, e.UserID)

	user, err := h.accounts.Get(ctx, e.UserID)
	if err != nil {
		// The account may have been removed since checkout, nothing to send.
		log.Printf("[Notifier] Could not resolve user %s: %v", e.UserID, err)
		return nil
	}

	// Order items carry name and price snapshots from checkout, no catalog
	// lookup needed.
	emailItems := make([]email.OrderItem, len(e.Items))
	for i, item := range e.Items {
		emailItems[i] = email.OrderItem{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			Price:     item.Price,
		}
	}

	if err := h.emailService.SendOrderConfirmation(user.Email, e.OrderID, e.Marketplace, e.TotalPrice, emailItems); err != nil {
		log.Printf("[Notifier] Failed to send email to %s: %v", user.Email, err)
		return err
	}

	log.Printf("[Notifier] Order confirmation email sent to %s for order %s", user.Email, e.OrderID)
	return nil
}

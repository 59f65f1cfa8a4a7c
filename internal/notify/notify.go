// Package notify builds the order notifications the chat collaborator
// pushes after a checkout: a summary for the shop owner and a
// confirmation for the buyer. Transport is the collaborator's problem;
// this package only produces messages.
package notify

import (
	"context"
	"fmt"
	"strings"

	"chatshop-be/internal/logger"
	"chatshop-be/internal/order"

	"go.uber.org/zap"
)

// Pusher delivers a text message to a chat user.
type Pusher interface {
	Push(ctx context.Context, userID, text string) error
}

// LogPusher is the default Pusher: it logs instead of delivering.
type LogPusher struct{}

func (LogPusher) Push(ctx context.Context, userID, text string) error {
	logger.FromCtx(ctx).Info("notification",
		zap.String("to", userID),
		zap.String("text", text),
	)
	return nil
}

type Notifier struct {
	pusher         Pusher
	ownerUserID    string
	currencyPrefix string
}

// NewNotifier wires a pusher with the owner recipient and currency
// prefix. An empty ownerUserID disables the owner summary.
func NewNotifier(pusher Pusher, ownerUserID, currencyPrefix string) *Notifier {
	return &Notifier{
		pusher:         pusher,
		ownerUserID:    ownerUserID,
		currencyPrefix: currencyPrefix,
	}
}

// OrderPlaced pushes the owner summary and the buyer confirmation for a
// committed order. Both pushes are attempted; the first failure wins.
func (n *Notifier) OrderPlaced(ctx context.Context, o *order.Order) error {
	var firstErr error

	if n.ownerUserID != "" {
		if err := n.pusher.Push(ctx, n.ownerUserID, n.OwnerMessage(o)); err != nil {
			firstErr = err
		}
	}
	if o.UserID != "" {
		if err := n.pusher.Push(ctx, o.UserID, n.BuyerMessage(o)); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}

// OwnerMessage is the new-order summary for the shop owner: id, line
// items and the total.
func (n *Notifier) OwnerMessage(o *order.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "New order %s\n", o.ID)
	fmt.Fprintf(&b, "Buyer: %s\n", o.UserID)
	b.WriteString("Items:\n")
	for _, line := range o.Lines {
		fmt.Fprintf(&b, "  %s x%d\n", line.Name, line.Quantity)
	}
	fmt.Fprintf(&b, "Total: %s%d", n.currencyPrefix, o.Total)

	return b.String()
}

// BuyerMessage is the confirmation pushed to the buyer.
func (n *Notifier) BuyerMessage(o *order.Order) string {
	return fmt.Sprintf(
		"Order confirmed!\nOrder id: %s\nAmount: %s%d\nThank you for your purchase.",
		o.ID, n.currencyPrefix, o.Total,
	)
}

package whatsapp

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	client "github.com/mamadbah2/ranchprice/pkg/clients/whatsapp"
)

// Notifier pushes operator notifications to a fixed WhatsApp recipient.
type Notifier struct {
	client client.Client
	to     string
	logger *zap.Logger
}

// NewNotifier wires a notifier that sends to the configured recipient.
func NewNotifier(c client.Client, to string, logger *zap.Logger) *Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{client: c, to: to, logger: logger}
}

// Notify sends message, bounded by a short timeout.
func (n *Notifier) Notify(ctx context.Context, message string) error {
	if n.client == nil || n.to == "" {
		return errors.New("whatsapp notifier is not configured")
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	id, err := n.client.SendText(ctxWithTimeout, n.to, message)
	if err != nil {
		return err
	}

	n.logger.Debug("notification sent", zap.String("to", n.to), zap.String("message_id", id))
	return nil
}

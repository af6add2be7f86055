package command

import (
	"context"

	"github.com/tair/shopfront/internal/shop/domain"
	"github.com/tair/shopfront/kafka"
	"github.com/tair/shopfront/pkg/logger"
)

// CartEventPublisher receives an event after each committed mutation.
type CartEventPublisher interface {
	PublishCartEvent(ctx context.Context, event kafka.CartEvent) error
}

// publish never fails the request: the mutation is already committed.
func publish(ctx context.Context, pub CartEventPublisher, eventType string, user *domain.User, productID string, quantity int) {
	if pub == nil {
		return
	}
	event := kafka.CartEvent{
		EventType: eventType,
		UserID:    user.ID,
		ProductID: productID,
		Quantity:  quantity,
		CartCount: user.Cart.Count(),
		CartValue: user.Cart.Value(),
	}
	if err := pub.PublishCartEvent(ctx, event); err != nil {
		logger.Warn(ctx).
			Err(err).
			Str("event_type", eventType).
			Str("user_id", user.ID).
			Msg("Failed to publish cart event")
	}
}

package kafka

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartEvent is emitted after every committed cart or wishlist mutation
type CartEvent struct {
	EventID   string          `json:"event_id"`
	EventType string          `json:"event_type"`
	UserID    string          `json:"user_id"`
	ProductID string          `json:"product_id,omitempty"`
	Quantity  int             `json:"quantity,omitempty"`
	CartCount int             `json:"cart_count"`
	CartValue decimal.Decimal `json:"cart_value"`
	Timestamp time.Time       `json:"timestamp"`
}

// SessionRevokedEvent carries a logout to the other replicas. Only the token
// fingerprint travels, never the token.
type SessionRevokedEvent struct {
	EventID     string    `json:"event_id"`
	InstanceID  string    `json:"instance_id"`
	Fingerprint string    `json:"fingerprint"`
	ExpiresAt   time.Time `json:"expires_at"`
	Timestamp   time.Time `json:"timestamp"`
}

// Event types
const (
	EventTypeCartItemAdded       = "cart.item_added"
	EventTypeCartQuantityChanged = "cart.quantity_changed"
	EventTypeCartItemRemoved     = "cart.item_removed"
	EventTypeCartCleared         = "cart.cleared"
	EventTypeWishlistMigrated    = "wishlist.migrated"
	EventTypeSessionRevoked      = "session.revoked"
)

// Kafka topics
const (
	TopicCartEvents     = "cart-events"
	TopicSessionRevoked = "session-revoked"
)

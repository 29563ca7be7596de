package messaging

import (
	"context"

	"go.uber.org/zap"

	cartapp "github.com/palindromepay/PalindromeFox/internal/application/cart"
)

// TopicBadgeUpdate carries the cart line-item count to whatever UI surface
// renders the badge.
const TopicBadgeUpdate = "badge.update"

// BadgeNotifier publishes cart counts over the bus. Delivery failures are
// logged and swallowed; the badge is best-effort.
type BadgeNotifier struct {
	bus    *Bus
	logger *zap.Logger
}

// NewBadgeNotifier creates a badge notifier on the given bus.
func NewBadgeNotifier(bus *Bus, logger *zap.Logger) *BadgeNotifier {
	return &BadgeNotifier{bus: bus, logger: logger}
}

var _ cartapp.BadgeNotifier = (*BadgeNotifier)(nil)

// CartCount sends the current line-item count to the badge topic.
func (n *BadgeNotifier) CartCount(ctx context.Context, count int) {
	if _, err := n.bus.Request(ctx, TopicBadgeUpdate, count); err != nil {
		n.logger.Warn("badge update not delivered",
			zap.Int("count", count),
			zap.Error(err),
		)
	}
}

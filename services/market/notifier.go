package market

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/event"

	"github.com/status-im/nft-market/logutils"
	"github.com/status-im/nft-market/services/wallet/walletevent"
)

const (
	EventNotice        walletevent.EventType = "market-notice"
	EventNoticeCleared walletevent.EventType = "market-notice-cleared"
	EventAlert         walletevent.EventType = "market-alert"
)

// Notifier owns the single transient status line and the blocking alert
// surface. Everything shown is also published on the feed.
type Notifier struct {
	feed    *event.Feed
	timeout time.Duration

	mu      sync.Mutex
	current string

	logger *zap.Logger
}

func NewNotifier(feed *event.Feed, timeout time.Duration) *Notifier {
	if feed == nil {
		feed = new(event.Feed)
	}
	return &Notifier{
		feed:    feed,
		timeout: timeout,
		logger:  logutils.ZapLogger().Named("Notifier"),
	}
}

func (n *Notifier) Subscribe(ch chan<- walletevent.Event) event.Subscription {
	return n.feed.Subscribe(ch)
}

// Notify shows msg for the default timeout.
func (n *Notifier) Notify(msg string) {
	n.NotifyFor(msg, n.timeout)
}

// NotifyFor shows msg and clears it after timeout, unless another message
// replaced it in the meantime. A zero timeout keeps it until replaced.
func (n *Notifier) NotifyFor(msg string, timeout time.Duration) {
	n.logger.Info("notice", zap.String("message", msg))

	n.mu.Lock()
	n.current = msg
	n.mu.Unlock()

	n.send(EventNotice, msg)

	if timeout > 0 {
		time.AfterFunc(timeout, func() {
			n.mu.Lock()
			if n.current != msg {
				n.mu.Unlock()
				return
			}
			n.current = ""
			n.mu.Unlock()
			n.send(EventNoticeCleared, msg)
		})
	}
}

// Alert reports an error the user has to acknowledge. It never expires.
func (n *Notifier) Alert(msg string) {
	n.logger.Warn("alert", zap.String("message", msg))
	n.send(EventAlert, msg)
}

// Current is the message on display, empty when nothing is.
func (n *Notifier) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}

func (n *Notifier) send(typ walletevent.EventType, msg string) {
	n.feed.Send(walletevent.Event{
		Type:    typ,
		Message: msg,
		At:      time.Now().UnixMilli(),
	})
}

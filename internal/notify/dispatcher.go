package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	orderdomain "github.com/dwikikusuma/storefront/internal/order/domain"
)

// Dispatcher sends order notifications in the background. A failed send is
// logged and dropped; it never reaches the customer and is never retried.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	log      *slog.Logger

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(notifier Notifier, timeout time.Duration, log *slog.Logger) *Dispatcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{notifier: notifier, timeout: timeout, log: log}
}

func (d *Dispatcher) OrderPlaced(order orderdomain.Order) {
	d.Dispatch(Summarize(order))
}

func (d *Dispatcher) Dispatch(s OrderSummary) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Warn("notification dropped after shutdown", slog.String("order_id", s.OrderID))
		return
	}
	d.wg.Add(1)
	d.mu.Unlock()

	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		if err := d.notifier.Notify(ctx, s); err != nil {
			d.log.Error("order notification failed",
				slog.String("order_id", s.OrderID),
				slog.Any("err", err))
			return
		}
		d.log.Info("order notification sent", slog.String("order_id", s.OrderID))
	}()
}

// Close stops accepting work and waits for in-flight sends.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	d.wg.Wait()
}

package market

import (
	"time"

	"go.uber.org/zap"

	"github.com/status-im/nft-market/common"
)

// scheduleReload invalidates and reloads the feed after delay. Disconnect
// and Close cancel it.
func (c *Controller) scheduleReload(delay time.Duration) {
	c.mu.Lock()
	ctx := c.reloadCtx
	c.mu.Unlock()

	c.wg.Add(1)
	go func() {
		defer common.LogOnPanic()
		defer c.wg.Done()

		timer := time.NewTimer(delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			c.logger.Debug("reload cancelled")
			return
		case <-timer.C:
		}

		c.Invalidate()
		if err := c.LoadMore(ctx); err != nil {
			c.logger.Warn("reload failed", zap.Error(err))
		}
	}()
}

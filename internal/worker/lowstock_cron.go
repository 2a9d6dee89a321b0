package worker

// lowstock_cron.go
// Background goroutine that periodically scans the catalog for items at or
// below their minimum quantity and enqueues an alert notification. A Redis
// SETNX marker per item code suppresses duplicate alerts while the item
// remains low.

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockroom/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	lowStockTickInterval = 15 * time.Minute
	lowStockAlertTTL     = 24 * time.Hour
	lowStockAlertPrefix  = "alert:lowstock:"
)

// LowStockCronConfig holds all dependencies for the alert goroutine.
type LowStockCronConfig struct {
	Items      repository.ItemRepository
	Dispatcher *Dispatcher
	RDB        *redis.Client
}

// StartLowStockCron launches a background goroutine that ticks every 15min,
// queries items below their threshold, and enqueues one alert per item per
// 24h window. It respects the context for graceful shutdown.
func StartLowStockCron(ctx context.Context, cfg LowStockCronConfig) {
	go func() {
		ticker := time.NewTicker(lowStockTickInterval)
		defer ticker.Stop()

		log.Info().Msg("lowstock_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("lowstock_cron: shutting down")
				return
			case <-ticker.C:
				processLowStock(ctx, cfg)
			}
		}
	}()
}

func processLowStock(ctx context.Context, cfg LowStockCronConfig) {
	items, err := cfg.Items.ListBelowMin(ctx)
	if err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to query low-stock items")
		return
	}
	if len(items) == 0 {
		return
	}

	var lines []string
	for _, item := range items {
		// SETNX dedupe: only the first scan in the TTL window alerts
		key := lowStockAlertPrefix + item.Code
		set, err := cfg.RDB.SetNX(ctx, key, "1", lowStockAlertTTL).Result()
		if err != nil {
			log.Error().Err(err).Str("code", item.Code).Msg("lowstock_cron: dedupe check failed")
			continue
		}
		if !set {
			continue // already alerted within the window
		}
		lines = append(lines, fmt.Sprintf("%s %s: %d on hand (minimum %d)",
			item.Code, item.Name, item.Quantity, item.MinQuantity))
	}
	if len(lines) == 0 {
		return
	}

	subject := fmt.Sprintf("Low stock alert: %d item(s) below threshold", len(lines))
	body := "The following items are at or below their minimum quantity:\n\n" +
		strings.Join(lines, "\n")
	if err := cfg.Dispatcher.QueueNotification(ctx, subject, body); err != nil {
		log.Error().Err(err).Msg("lowstock_cron: failed to enqueue alert")
		return
	}
	log.Info().Int("items", len(lines)).Msg("lowstock_cron: alert enqueued")
}

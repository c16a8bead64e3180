package worker

import (
	"context"
	"log"
	"time"

	"pos-bot/internal/bot"
	"pos-bot/internal/telegram"
)

// UpdatePoller long-polls the Bot API and feeds every update into the
// dispatch pipeline. Used outside production, where no webhook URL is
// reachable.
type UpdatePoller struct {
	client      *telegram.Client
	bot         *bot.Bot
	pollTimeout int
	offset      int64
}

// NewUpdatePoller creates a new update poller
func NewUpdatePoller(client *telegram.Client, b *bot.Bot, pollTimeout int) *UpdatePoller {
	return &UpdatePoller{
		client:      client,
		bot:         b,
		pollTimeout: pollTimeout,
	}
}

// Start polls until the context is cancelled. Each batch advances the
// offset past the highest update seen, which acknowledges the batch to
// the Bot API.
func (p *UpdatePoller) Start(ctx context.Context) error {
	log.Println("Starting update poller...")

	for {
		select {
		case <-ctx.Done():
			log.Println("Stopping update poller...")
			return ctx.Err()
		default:
		}

		updates, err := p.client.GetUpdates(ctx, p.offset, p.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("Failed to fetch updates: %v", err)
			time.Sleep(3 * time.Second)
			continue
		}

		for i := range updates {
			update := &updates[i]
			if update.UpdateID >= p.offset {
				p.offset = update.UpdateID + 1
			}
			p.bot.Dispatch(ctx, update)
		}
	}
}

package broadcast

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/moonlit/verifybot/internal/config"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Broadcaster repeats a message into a channel, chunked at the platform
// message-length limit and paced by a rate limiter. It owns the per-user,
// per-command cooldown state for the privileged commands.
type Broadcaster struct {
	config  config.BroadcastConfig
	limiter *rate.Limiter
	logger  *zap.SugaredLogger

	mu        sync.Mutex
	cooldowns map[string]time.Time
}

func New(cfg config.BroadcastConfig, logger *zap.SugaredLogger) *Broadcaster {
	return &Broadcaster{
		config:    cfg,
		limiter:   rate.NewLimiter(rate.Limit(cfg.MessagesPerSec), 1),
		logger:    logger,
		cooldowns: make(map[string]time.Time),
	}
}

// TryAcquire gates a (user, command) pair on the configured cooldown. It
// reports false while a previous trigger is still cooling down.
func (b *Broadcaster) TryAcquire(userID string, command string) bool {
	key := userID + "-" + command
	now := time.Now()

	b.mu.Lock()
	defer b.mu.Unlock()

	if until, ok := b.cooldowns[key]; ok && now.Before(until) {
		return false
	}
	b.cooldowns[key] = now.Add(b.config.Cooldown)

	return true
}

// Run sends the message the configured number of times through the send
// callback, one chunk per limiter token. It stops on the first send failure
// or when the context is done.
func (b *Broadcaster) Run(ctx context.Context, message string, send func(content string) error) error {
	runID := uuid.NewString()
	parts := SplitMessage(message, b.config.MaxMessageLength)

	b.logger.Infow("broadcast started", "run_id", runID, "chunks", len(parts), "repeats", b.config.Repeats)

	for i := 0; i < b.config.Repeats; i++ {
		for _, part := range parts {
			if err := b.limiter.Wait(ctx); err != nil {
				return fmt.Errorf("broadcast pacing interrupted: %w", err)
			}
			if err := send(part); err != nil {
				return fmt.Errorf("broadcast send failed: %w", err)
			}
		}
	}

	b.logger.Infow("broadcast finished", "run_id", runID)

	return nil
}

// SplitMessage splits on line boundaries so no chunk exceeds maxLength. A
// single line longer than the limit is emitted whole as its own chunk.
func SplitMessage(text string, maxLength int) []string {
	var (
		parts   []string
		current strings.Builder
	)

	for _, line := range strings.Split(text, "\n") {
		if current.Len() > 0 && current.Len()+len(line)+1 > maxLength {
			parts = append(parts, current.String())
			current.Reset()
		}
		current.WriteString(line)
		current.WriteByte('\n')
	}
	if current.Len() > 0 {
		parts = append(parts, current.String())
	}

	return parts
}

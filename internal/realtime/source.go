// Package realtime delivers tracking-event refresh signals over redis
// pub/sub. The dashboard subscribes per user; whenever the backend lands
// new events it publishes to the user's channel and the report refetches.
package realtime

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ignite/campaign-console/internal/config"
	"github.com/ignite/campaign-console/internal/pkg/logger"
)

const channelPrefix = "tracking:events:"

// Source is a redis-backed refresh signal source. It implements
// analytics.RefreshSource.
type Source struct {
	client *redis.Client
	log    *logger.Logger

	// Bursts of events within this window collapse into one callback, so
	// a busy send does not hammer the aggregation backend.
	debounce time.Duration
}

// NewSource connects to redis and verifies the connection.
func NewSource(ctx context.Context, cfg config.RedisConfig) (*Source, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return &Source{
		client:   client,
		log:      logger.With("realtime"),
		debounce: 2 * time.Second,
	}, nil
}

// Channel returns the pub/sub channel carrying a user's tracking events.
func Channel(userID string) string {
	return channelPrefix + userID
}

// Subscribe registers fn to run whenever tracking events land for the user.
// Delivery is at-most-once per debounce window; a dropped signal only delays
// the refresh until the next event. The subscription ends when ctx does; the
// returned channel closes once delivery has stopped, so owners can tell a
// live subscription from a dead one.
func (s *Source) Subscribe(ctx context.Context, userID string, fn func()) (<-chan struct{}, error) {
	sub := s.client.Subscribe(ctx, Channel(userID))

	// Fail now if the subscribe itself did not go through.
	if _, err := sub.Receive(ctx); err != nil {
		sub.Close()
		return nil, fmt.Errorf("subscribing to %s: %w", Channel(userID), err)
	}

	done := make(chan struct{})
	go s.deliver(ctx, sub, userID, fn, done)
	return done, nil
}

func (s *Source) deliver(ctx context.Context, sub *redis.PubSub, userID string, fn func(), done chan<- struct{}) {
	defer close(done)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case _, ok := <-ch:
			if !ok {
				s.log.Warn("refresh subscription closed", "user_id", userID)
				return
			}
			// Swallow the rest of the burst, then fire once.
			timer := time.NewTimer(s.debounce)
		drain:
			for {
				select {
				case <-ctx.Done():
					timer.Stop()
					return
				case _, ok := <-ch:
					if !ok {
						timer.Stop()
						return
					}
				case <-timer.C:
					break drain
				}
			}
			fn()
		}
	}
}

// Notify publishes a refresh signal for the user. The console itself calls
// this after mutations that change reported numbers, such as a campaign
// send; the tracking backend publishes to the same channels.
func (s *Source) Notify(ctx context.Context, userID string) error {
	return s.client.Publish(ctx, Channel(userID), time.Now().UTC().Format(time.RFC3339)).Err()
}

// Close releases the redis connection.
func (s *Source) Close() error {
	return s.client.Close()
}

// Package retryfetch wraps a holdings.Source with retry/backoff, narrowed
// from the teacher's order-retry client to a single idempotent fetch call.
package retryfetch

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/eddiefleurent/stratmatch/internal/holdings"
	"github.com/eddiefleurent/stratmatch/internal/models"
	"github.com/sirupsen/logrus"
)

// Config tunes the retry loop.
type Config struct {
	MaxAttempts    int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	BackoffFactor  float64
	Timeout        time.Duration
}

// DefaultConfig matches the teacher's order-retry defaults, scaled down for
// a read-only fetch instead of an order placement.
var DefaultConfig = Config{
	MaxAttempts:    3,
	InitialBackoff: 100 * time.Millisecond,
	MaxBackoff:     2 * time.Second,
	BackoffFactor:  2.0,
	Timeout:        10 * time.Second,
}

// Client wraps a holdings.Source, retrying transient failures with
// exponential backoff and jitter.
type Client struct {
	source holdings.Source
	log    *logrus.Logger
	config Config
}

// NewClient builds a Client over source. A zero Config falls back to
// DefaultConfig; a nil logger falls back to logrus's standard logger.
func NewClient(source holdings.Source, log *logrus.Logger, config ...Config) *Client {
	cfg := DefaultConfig
	if len(config) > 0 && config[0] != (Config{}) {
		cfg = config[0]
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{source: source, log: log, config: cfg}
}

// Holdings implements holdings.Source, retrying transient errors from the
// wrapped source up to config.MaxAttempts times.
func (c *Client) Holdings(ctx context.Context, underlying string) ([]models.OptionPosition, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var lastErr error
	backoff := c.config.InitialBackoff
	attempts := 0

	for attempt := 0; attempt < c.config.MaxAttempts; attempt++ {
		select {
		case <-fetchCtx.Done():
			return nil, fmt.Errorf("holdings fetch timed out after %v: %w", c.config.Timeout, fetchCtx.Err())
		default:
		}

		positions, err := c.source.Holdings(fetchCtx, underlying)
		attempts++
		if err == nil {
			return positions, nil
		}

		lastErr = err
		c.log.WithFields(logrus.Fields{
			"underlying": underlying,
			"attempt":    attempt + 1,
			"attempts":   c.config.MaxAttempts,
		}).WithError(err).Warn("holdings fetch attempt failed")

		if !isTransient(err) || attempt == c.config.MaxAttempts-1 {
			break
		}

		select {
		case <-time.After(backoff):
			backoff = c.nextBackoff(backoff)
		case <-fetchCtx.Done():
			return nil, fmt.Errorf("holdings fetch timed out during backoff: %w", fetchCtx.Err())
		}
	}

	return nil, fmt.Errorf("holdings fetch failed after %d attempts: %w", attempts, lastErr)
}

func (c *Client) nextBackoff(current time.Duration) time.Duration {
	backoff := time.Duration(float64(current) * c.config.BackoffFactor)
	if backoff > c.config.MaxBackoff {
		backoff = c.config.MaxBackoff
	}

	maxJitter := int64(backoff / 4)
	if maxJitter > 0 {
		if jitterVal, err := rand.Int(rand.Reader, big.NewInt(maxJitter)); err == nil {
			backoff += time.Duration(jitterVal.Int64())
		}
	}
	return backoff
}

// isTransient recognizes the same network/rate-limit error vocabulary the
// teacher's retry client matches on.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	patterns := []string{
		"timeout", "connection refused", "connection reset",
		"temporary failure", "server error", "rate limit",
		"429", "502", "503", "504", "network", "dns", "tcp",
	}
	for _, p := range patterns {
		if strings.Contains(errStr, p) {
			return true
		}
	}
	return false
}

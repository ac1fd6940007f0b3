// Package antispam rate-limits chat messages per player.
package antispam

import (
	"sync"
	"time"
)

// Config holds anti-spam settings.
type Config struct {
	Enabled        bool
	MaxMessages    int           // messages allowed per window
	TimeWindow     time.Duration // sliding window for the rate limit
	RepeatCooldown time.Duration // minimum gap between identical messages
}

// DefaultConfig returns the stock anti-spam settings.
func DefaultConfig() Config {
	return Config{
		Enabled:        true,
		MaxMessages:    5,
		TimeWindow:     10 * time.Second,
		RepeatCooldown: 30 * time.Second,
	}
}

// ConfigFromYAML builds a Config from the values carried in the chat
// filter file, falling back to defaults for anything unset.
func ConfigFromYAML(enabled bool, maxMessages, windowSeconds, repeatSeconds int) Config {
	cfg := DefaultConfig()
	cfg.Enabled = enabled
	if maxMessages > 0 {
		cfg.MaxMessages = maxMessages
	}
	if windowSeconds > 0 {
		cfg.TimeWindow = time.Duration(windowSeconds) * time.Second
	}
	if repeatSeconds > 0 {
		cfg.RepeatCooldown = time.Duration(repeatSeconds) * time.Second
	}
	return cfg
}

// Verdict is the outcome of a spam check.
type Verdict struct {
	Allowed     bool
	Reason      string
	WaitSeconds int
}

// Tracker tracks recent chat activity for one player. Each connected
// player carries its own Tracker.
type Tracker struct {
	mu           sync.Mutex
	config       Config
	messageTimes []time.Time
	lastSent     map[string]time.Time // message text -> last sent time
}

// NewTracker creates a tracker with the given config.
func NewTracker(config Config) *Tracker {
	return &Tracker{
		config:       config,
		messageTimes: make([]time.Time, 0, config.MaxMessages),
		lastSent:     make(map[string]time.Time),
	}
}

// Check decides whether a message may be sent now, recording it if allowed.
func (t *Tracker) Check(message string) Verdict {
	if !t.config.Enabled {
		return Verdict{Allowed: true}
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	t.expire(now)

	if last, ok := t.lastSent[message]; ok {
		if elapsed := now.Sub(last); elapsed < t.config.RepeatCooldown {
			remaining := t.config.RepeatCooldown - elapsed
			return Verdict{
				Reason:      "Please don't repeat the same message.",
				WaitSeconds: int(remaining.Seconds()) + 1,
			}
		}
	}

	if len(t.messageTimes) >= t.config.MaxMessages {
		waitUntil := t.messageTimes[0].Add(t.config.TimeWindow)
		return Verdict{
			Reason:      "You're sending messages too quickly. Please slow down.",
			WaitSeconds: int(waitUntil.Sub(now).Seconds()) + 1,
		}
	}

	t.messageTimes = append(t.messageTimes, now)
	t.lastSent[message] = now
	return Verdict{Allowed: true}
}

// expire drops entries that fell out of their windows.
func (t *Tracker) expire(now time.Time) {
	cutoff := now.Add(-t.config.TimeWindow)
	kept := t.messageTimes[:0]
	for _, ts := range t.messageTimes {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	t.messageTimes = kept

	repeatCutoff := now.Add(-t.config.RepeatCooldown)
	for msg, ts := range t.lastSent {
		if ts.Before(repeatCutoff) {
			delete(t.lastSent, msg)
		}
	}
}

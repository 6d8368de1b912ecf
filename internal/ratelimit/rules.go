package ratelimit

import (
	"errors"
	"time"

	"github.com/sedalabs/sedabot/pkg/config"
)

// Rules encapsulates configured rate limits and helper methods.
type Rules struct {
	config config.RateLimitConfig
}

// NewRules constructs rate limiting rules from configuration settings.
func NewRules(cfg config.RateLimitConfig) *Rules {
	return &Rules{config: cfg}
}

// IsWhitelisted returns true if the userID bypasses rate limits.
func (r *Rules) IsWhitelisted(userID int64) bool {
	for _, id := range r.config.Whitelist {
		if id == userID {
			return true
		}
	}
	return false
}

// GetPerUserLimit returns the per-user rate limiting rule.
func (r *Rules) GetPerUserLimit() (int, time.Duration, error) {
	if r.config.PerUser <= 0 || r.config.Window <= 0 {
		return 0, 0, errors.New("per-user rate limit is not configured")
	}

	return r.config.PerUser, r.config.Window, nil
}

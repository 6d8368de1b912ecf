// Package session manages per-user ephemeral conversation state.
package session

import "context"

// DefaultTargetLanguage is used until the user picks a target explicitly.
const DefaultTargetLanguage = "fa"

// Session holds the per-user conversation flags. TargetLanguage is only
// meaningful while AwaitingTranslation is true.
type Session struct {
	AwaitingTranslation bool   `json:"awaiting_translation"`
	TargetLanguage      string `json:"target_language"`
}

// Default returns the state assumed for users with no stored session.
func Default() Session {
	return Session{
		AwaitingTranslation: false,
		TargetLanguage:      DefaultTargetLanguage,
	}
}

// Store defines the contract for session state persistence. Losing stored
// sessions is acceptable; a missing session reads as Default().
type Store interface {
	Get(ctx context.Context, userID int64) (Session, error)
	Set(ctx context.Context, userID int64, s Session) error
	Clear(ctx context.Context, userID int64) error
}

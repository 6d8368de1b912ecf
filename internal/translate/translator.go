// Package translate defines the external translation contract.
package translate

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the translation backend could not serve the
// request (network failure, bad response). Session state must be left
// untouched when it is returned.
var ErrUnavailable = errors.New("translation service unavailable")

// Translator converts text into the target language, auto-detecting the
// source language.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

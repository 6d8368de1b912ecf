// Package media covers the external media collaborators: fetching voice
// payloads to ephemeral local paths and transcoding them to and from the
// in-memory PCM buffer.
package media

import (
	"context"

	telebot "gopkg.in/telebot.v3"

	"github.com/sedalabs/sedabot/internal/audio"
)

// Fetcher obtains a media payload as a local ephemeral file and hands out
// ephemeral output paths. Every returned cleanup must be called on every
// exit path.
type Fetcher interface {
	Fetch(ctx context.Context, file *telebot.File) (path string, cleanup func(), err error)
	TempPath(ext string) (path string, cleanup func())
}

// Transcoder converts between encoded media files and PCM buffers.
type Transcoder interface {
	Decode(ctx context.Context, path string) (*audio.Buffer, error)
	Encode(ctx context.Context, buf *audio.Buffer, path string) error
}

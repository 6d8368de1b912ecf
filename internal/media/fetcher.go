package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	telebot "gopkg.in/telebot.v3"
)

// TelegramFetcher downloads media through the bot API into a temp
// directory. Files are scoped to a single handler invocation.
type TelegramFetcher struct {
	bot     *telebot.Bot
	tempDir string
	log     *slog.Logger
}

// NewTelegramFetcher builds a Fetcher. An empty tempDir falls back to the
// OS temp directory.
func NewTelegramFetcher(bot *telebot.Bot, tempDir string, log *slog.Logger) *TelegramFetcher {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	if log == nil {
		log = slog.Default()
	}

	return &TelegramFetcher{
		bot:     bot,
		tempDir: tempDir,
		log:     log,
	}
}

// Fetch downloads the referenced file and returns its local path together
// with a cleanup that removes it.
func (f *TelegramFetcher) Fetch(_ context.Context, file *telebot.File) (string, func(), error) {
	path := filepath.Join(f.tempDir, uuid.NewString()+".ogg")

	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			f.log.Warn("failed to remove temp media file", slog.String("path", path), slog.Any("error", err))
		}
	}

	if err := f.bot.Download(file, path); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("download media: %w", err)
	}

	return path, cleanup, nil
}

// TempPath returns a fresh ephemeral output path in the fetcher's temp
// directory, plus a cleanup that removes it.
func (f *TelegramFetcher) TempPath(ext string) (string, func()) {
	path := filepath.Join(f.tempDir, uuid.NewString()+ext)

	return path, func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			f.log.Warn("failed to remove temp media file", slog.String("path", path), slog.Any("error", err))
		}
	}
}

package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/sedalabs/sedabot/pkg/config"
	"github.com/sedalabs/sedabot/pkg/metrics"
)

// GoogleClient talks to a Google-translate-compatible endpoint
// (translate_a/single, client=gtx).
type GoogleClient struct {
	endpoint string
	client   *http.Client
	log      *slog.Logger
}

// NewGoogleClient builds a Translator backed by cfg.Endpoint.
func NewGoogleClient(cfg config.TranslateConfig, log *slog.Logger) *GoogleClient {
	if log == nil {
		log = slog.Default()
	}

	return &GoogleClient{
		endpoint: cfg.Endpoint,
		client:   &http.Client{Timeout: cfg.Timeout},
		log:      log,
	}
}

// Translate requests a translation with automatic source detection. Any
// transport or decoding failure maps to ErrUnavailable.
func (g *GoogleClient) Translate(ctx context.Context, text, targetLang string) (string, error) {
	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", "auto")
	params.Set("tl", targetLang)
	params.Set("dt", "t")
	params.Set("q", text)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("build translate request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		g.log.Error("translation request failed", slog.String("target", targetLang), slog.Any("error", err))
		metrics.RecordTranslation("unavailable")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		g.log.Error("translation backend returned non-200", slog.Int("status", resp.StatusCode))
		metrics.RecordTranslation("unavailable")
		return "", fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	translated, err := decodeResponse(resp.Body)
	if err != nil {
		g.log.Error("failed to decode translation response", slog.Any("error", err))
		metrics.RecordTranslation("unavailable")
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	metrics.RecordTranslation("ok")
	return translated, nil
}

// decodeResponse parses the nested-array payload the gtx endpoint returns:
// the first element is a list of [translatedSegment, sourceSegment, ...]
// entries that concatenate into the full translation.
func decodeResponse(r io.Reader) (string, error) {
	var payload []json.RawMessage
	if err := json.NewDecoder(r).Decode(&payload); err != nil {
		return "", fmt.Errorf("decode payload: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty payload")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("decode segments: %w", err)
	}

	var sb strings.Builder
	for _, segment := range segments {
		if len(segment) == 0 {
			continue
		}

		var part string
		if err := json.Unmarshal(segment[0], &part); err != nil {
			continue
		}
		sb.WriteString(part)
	}

	if sb.Len() == 0 {
		return "", fmt.Errorf("no translated segments")
	}

	return sb.String(), nil
}

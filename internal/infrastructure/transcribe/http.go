// Package transcribe provides the speech-to-text adapter.
package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/doeshing/aurora-go/internal/domain"
	"github.com/doeshing/aurora-go/internal/ports"
)

// HTTPTranscriber posts WAV audio to a whisper-server style endpoint and
// reads back `{"text": "..."}`. A reachable service that hears nothing is an
// unintelligible result; an unreachable or failing service is a service error.
type HTTPTranscriber struct {
	endpoint   string
	language   string
	httpClient *http.Client
}

// NewHTTPTranscriber builds a transcriber for the configured endpoint.
func NewHTTPTranscriber(settings domain.TranscriberSettings) *HTTPTranscriber {
	timeout := time.Duration(settings.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPTranscriber{
		endpoint:   settings.Endpoint,
		language:   settings.Language,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Transcribe implements ports.Transcriber.
func (t *HTTPTranscriber) Transcribe(ctx context.Context, sample domain.AudioSample) (string, error) {
	endpoint := t.endpoint
	if t.language != "" {
		sep := "?"
		if strings.Contains(endpoint, "?") {
			sep = "&"
		}
		endpoint += sep + "language=" + url.QueryEscape(t.language)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(sample.WAV))
	if err != nil {
		return "", err
	}
	req.Header.Set("content-type", "audio/wav")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("transcription service: %s", resp.Status)
	}

	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("transcription service: decode response: %w", err)
	}

	text := strings.TrimSpace(body.Text)
	if text == "" {
		return "", domain.ErrUnintelligible
	}
	return text, nil
}

var _ ports.Transcriber = (*HTTPTranscriber)(nil)

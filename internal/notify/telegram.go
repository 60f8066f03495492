package notify

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"codeberg.org/mutker/hostwatch/internal/errors"
	"codeberg.org/mutker/hostwatch/internal/logger"
	"codeberg.org/mutker/hostwatch/internal/metrics"
)

const defaultBaseURL = "https://api.telegram.org"

// Telegram dispatches reports through the Bot API sendMessage endpoint.
type Telegram struct {
	client     *http.Client
	baseURL    string
	token      string
	chatID     string
	serverName string
	identity   metrics.Identity
}

// Option adjusts a Telegram notifier at construction time.
type Option func(*Telegram)

// WithBaseURL overrides the API base URL. Used by tests.
func WithBaseURL(base string) Option {
	return func(t *Telegram) {
		t.baseURL = strings.TrimSuffix(base, "/")
	}
}

// NewTelegram builds a notifier with a bounded client timeout. The source
// behavior had no timeout at all; a hung backend must not stall a
// monitoring loop past one tick.
func NewTelegram(token, chatID, serverName string, identity metrics.Identity, timeout time.Duration, opts ...Option) *Telegram {
	t := &Telegram{
		client:     &http.Client{Timeout: timeout},
		baseURL:    defaultBaseURL,
		token:      token,
		chatID:     chatID,
		serverName: serverName,
		identity:   identity,
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

func (t *Telegram) Notify(ctx context.Context, title string, snap metrics.Snapshot, severity Severity) error {
	errFactory := errors.New()

	form := url.Values{}
	form.Set("chat_id", t.chatID)
	form.Set("text", renderReport(title, t.serverName, t.identity, snap, severity))
	form.Set("parse_mode", "HTML")

	endpoint := t.baseURL + "/bot" + t.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return errFactory.Wrap(errors.ErrNotifyRender, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		sendErr := errFactory.Wrap(errors.ErrNotifySend, err)
		logger.ErrorWithCode(sendErr).Str("title", title).Msg("notification transport failed")

		return sendErr
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		statusErr := errFactory.WithData(errors.ErrNotifyStatus, struct {
			Status int
			Title  string
		}{
			Status: resp.StatusCode,
			Title:  title,
		})
		logger.ErrorWithCode(statusErr).Str("title", title).Msg("notification rejected")

		return statusErr
	}

	logger.Info().Str("title", title).Str("severity", string(severity)).Msg("notification sent")

	return nil
}

package external

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"walkwatch/internal/config"
	"walkwatch/internal/types"
)

// SMSSender delivers a single text message, or fails. One best-effort
// attempt; the caller treats failure as fatal to its cycle.
type SMSSender interface {
	Send(ctx context.Context, message string) error
}

// TwilioClient implements SMSSender against the Twilio Messages API using
// form-encoded POSTs with HTTP basic auth (account SID / auth token).
type TwilioClient struct {
	base       *BaseClient
	accountSID string
	authToken  types.SecretString
	from       string
	to         string
	baseURL    string
	logger     *slog.Logger
}

// NewTwilioClient creates a TwilioClient from the SMS configuration.
func NewTwilioClient(cfg config.SMSConfig, logger *slog.Logger) *TwilioClient {
	if logger == nil {
		logger = slog.Default()
	}
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return &TwilioClient{
		base:       NewBaseClient(httpClient, "twilio", "walkwatch/1.0"),
		accountSID: cfg.AccountSID,
		authToken:  cfg.AuthToken,
		from:       cfg.FromNumber,
		to:         cfg.ToNumber,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		logger:     logger,
	}
}

// Send posts the message to the configured destination number. Any non-2xx
// response yields an upstream_sms_unavailable error carrying the status and a
// body excerpt.
func (c *TwilioClient) Send(ctx context.Context, message string) error {
	form := url.Values{}
	form.Set("From", c.from)
	form.Set("To", c.to)
	form.Set("Body", message)

	reqURL := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", c.baseURL, c.accountSID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, strings.NewReader(form.Encode()))
	if err != nil {
		return types.NewAppError(
			types.ErrCodeInternalUnexpected,
			"failed to create SMS request",
			err,
		)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(c.accountSID, c.authToken.Unmask())

	resp, err := c.base.Do(req)
	if err != nil {
		return wrapUpstreamError(types.ErrCodeUpstreamSMS, "SMS send failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return types.NewAppErrorWithDetails(
			types.ErrCodeUpstreamSMS,
			fmt.Sprintf("SMS gateway returned %d", resp.StatusCode),
			nil,
			map[string]any{"body": readBodyExcerpt(resp.Body)},
		)
	}

	c.logger.InfoContext(ctx, "SMS sent", "to", c.to, "length", len(message))
	return nil
}

// Compile-time assertion that TwilioClient satisfies SMSSender.
var _ SMSSender = (*TwilioClient)(nil)

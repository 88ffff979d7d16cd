// Package resend sends transactional email through the Resend API.
package resend

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	resendsdk "github.com/resend/resend-go/v2"

	"github.com/resyne/site-api/internal/provider"
)

const DefaultBaseURL = "https://api.resend.com/"

// Attachment is a file sent with an email. Content holds the raw bytes.
type Attachment struct {
	Filename string
	Content  []byte
}

// Email is one outbound message.
type Email struct {
	From        string
	To          []string
	ReplyTo     string
	Subject     string
	HTML        string
	Text        string
	Attachments []Attachment
}

// Config configures Client.
type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client sends emails with the Resend SDK.
type Client struct {
	apiKey  string
	timeout time.Duration
	sdk     *resendsdk.Client
}

func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = DefaultBaseURL
	}
	baseURL, err := url.Parse(strings.TrimRight(base, "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("resend: invalid base url %q: %w", base, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	httpClient := &http.Client{}
	if cfg.HTTPClient != nil {
		copied := *cfg.HTTPClient
		httpClient = &copied
	}
	next := httpClient.Transport
	if next == nil {
		next = http.DefaultTransport
	}
	httpClient.Transport = statusTransport{next: next}

	apiKey := strings.TrimSpace(cfg.APIKey)
	sdk := resendsdk.NewCustomClient(httpClient, apiKey)
	sdk.BaseURL = baseURL
	return &Client{apiKey: apiKey, timeout: timeout, sdk: sdk}, nil
}

// Send delivers email and returns the Resend message id.
func (c *Client) Send(ctx context.Context, email Email) (string, error) {
	if c.apiKey == "" {
		return "", provider.NotConfigured("RESEND_API_KEY")
	}
	if len(email.To) == 0 {
		return "", fmt.Errorf("resend: email %q has no recipient", email.Subject)
	}

	params := &resendsdk.SendEmailRequest{
		From:    email.From,
		To:      email.To,
		ReplyTo: email.ReplyTo,
		Subject: email.Subject,
		Html:    email.HTML,
		Text:    email.Text,
	}
	for _, att := range email.Attachments {
		params.Attachments = append(params.Attachments, &resendsdk.Attachment{
			Filename: att.Filename,
			Content:  att.Content,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	status := new(int)
	ctx = context.WithValue(ctx, statusKey{}, status)

	sent, err := c.sdk.Emails.SendWithContext(ctx, params)
	if err != nil {
		if *status >= http.StatusMultipleChoices {
			return "", &provider.Error{
				Provider:   "Resend",
				StatusCode: *status,
				Body:       strings.TrimPrefix(err.Error(), "[ERROR]: "),
			}
		}
		return "", fmt.Errorf("resend: request failed: %w", err)
	}
	return sent.Id, nil
}

type statusKey struct{}

// statusTransport copies the response status into the *int stored under
// statusKey, since SDK errors only carry the message.
type statusTransport struct {
	next http.RoundTripper
}

func (t statusTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	res, err := t.next.RoundTrip(req)
	if err == nil {
		if status, ok := req.Context().Value(statusKey{}).(*int); ok {
			*status = res.StatusCode
		}
	}
	return res, err
}

package external

import (
	"context"
	"fmt"
	"log"
	"time"

	"campusvote/internal/config"
)

// MailClient delivers one-time codes through an HTTP mail relay
type MailClient struct {
	http     *httpClient
	relayURL string
	apiKey   string
	sender   string
}

type mailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// NewMailClient creates a new mail relay client
func NewMailClient(cfg config.MailConfig, timeout time.Duration) *MailClient {
	return &MailClient{
		http:     newHTTPClient("campusvote-mail", timeout),
		relayURL: cfg.RelayURL,
		apiKey:   cfg.APIKey,
		sender:   cfg.Sender,
	}
}

// SendCode mails code to address
func (m *MailClient) SendCode(ctx context.Context, address, code string) error {
	req := mailRequest{
		From:    m.sender,
		To:      address,
		Subject: "Your voting verification code",
		Text:    fmt.Sprintf("Your verification code is %s. It expires in a few minutes. Do not share it.", code),
	}
	return m.http.postJSON(ctx, m.relayURL, map[string]string{"X-API-Key": m.apiKey}, req, nil)
}

// LogSender prints codes to the server log; dev mode only
type LogSender struct{}

// SendCode logs the code instead of delivering it
func (LogSender) SendCode(_ context.Context, address, code string) error {
	log.Printf("⚠️ MAIL_RELAY_URL not set, code for %s: %s", address, code)
	return nil
}

package external

import (
	"context"
	"fmt"
	"time"

	"campusvote/internal/config"
	"campusvote/internal/core/domain"
)

// PushClient sends batches to an Expo-compatible push gateway
type PushClient struct {
	http        *httpClient
	gatewayURL  string
	accessToken string
}

type pushMessage struct {
	To    string                 `json:"to"`
	Title string                 `json:"title"`
	Body  string                 `json:"body"`
	Sound string                 `json:"sound,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
}

type pushTicket struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Details struct {
		Error string `json:"error"`
	} `json:"details"`
}

type pushResponse struct {
	Data []pushTicket `json:"data"`
}

// NewPushClient creates a new push gateway client
func NewPushClient(cfg config.PushConfig, timeout time.Duration) *PushClient {
	return &PushClient{
		http:        newHTTPClient("campusvote-push", timeout),
		gatewayURL:  cfg.GatewayURL,
		accessToken: cfg.AccessToken,
	}
}

// SendBatch delivers msg to every address and reports the per-address outcome.
// An error means the whole batch was not accepted.
func (p *PushClient) SendBatch(ctx context.Context, addresses []string, msg domain.PushMessage) ([]domain.PushOutcome, error) {
	payload := make([]pushMessage, len(addresses))
	for i, addr := range addresses {
		payload[i] = pushMessage{
			To:    addr,
			Title: msg.Title,
			Body:  msg.Body,
			Sound: "default",
			Data:  msg.Data,
		}
	}

	headers := map[string]string{}
	if p.accessToken != "" {
		headers["Authorization"] = "Bearer " + p.accessToken
	}

	var resp pushResponse
	if err := p.http.postJSON(ctx, p.gatewayURL, headers, payload, &resp); err != nil {
		return nil, err
	}
	if len(resp.Data) != len(addresses) {
		return nil, domain.Wrap(domain.ErrUpstream, fmt.Errorf("gateway returned %d tickets for %d messages", len(resp.Data), len(addresses)))
	}

	outcomes := make([]domain.PushOutcome, len(addresses))
	for i, ticket := range resp.Data {
		outcomes[i] = domain.PushOutcome{
			Address: addresses[i],
			OK:      ticket.Status == "ok",
		}
		if !outcomes[i].OK {
			outcomes[i].Reason = ticket.Details.Error
			if outcomes[i].Reason == "" {
				outcomes[i].Reason = ticket.Message
			}
		}
	}
	return outcomes, nil
}

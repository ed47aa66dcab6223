package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/nkoivu/bossfarm/internal/config"
)

// Client exposes the notification gateway operations used by the application.
type Client interface {
	SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error)
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
	sender     string
}

// NewClient builds a notification gateway client using the provided
// configuration values.
func NewClient(cfg config.NotifyConfig) *APIClient {
	base := strings.TrimSuffix(cfg.BaseURL, "/")

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.Token)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	return &APIClient{
		httpClient: restyClient,
		sender:     cfg.Sender,
	}
}

// SendMessageRequest addresses one recipient. The destination is an opaque
// identifier resolved to a delivery channel by the gateway.
type SendMessageRequest struct {
	To      string
	Subject string
	Body    string
}

// SendMessageResponse mirrors a successful gateway acknowledgement.
type SendMessageResponse struct {
	MessageID string `json:"message_id"`
	Status    string `json:"status"`
}

// apiError represents a gateway error payload.
type apiError struct {
	Error struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

func (c *APIClient) SendMessage(ctx context.Context, req SendMessageRequest) (*SendMessageResponse, error) {
	payload := map[string]any{
		"from":    c.sender,
		"to":      req.To,
		"subject": req.Subject,
		"body":    req.Body,
	}

	result := new(SendMessageResponse)
	apiErr := new(apiError)

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(result).
		SetError(apiErr).
		Post("/v1/messages")
	if err != nil {
		return nil, fmt.Errorf("send notification: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		message := ""
		code := resp.StatusCode()
		if apiErr != nil {
			message = apiErr.Error.Message
			if apiErr.Error.Code != 0 {
				code = apiErr.Error.Code
			}
		}
		return nil, fmt.Errorf("notification gateway error: code=%d, message=%s", code, message)
	}

	return result, nil
}

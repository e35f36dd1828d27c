/**
 * @description
 * This package provides a client for the PayPal Payouts REST API. It
 * encapsulates the logic for making authenticated HTTP requests to PayPal's
 * payout endpoint, building request bodies, and parsing responses. The client
 * also adapts the payout call to the gateway.Gateway interface consumed by the
 * transfer engine: an HTTP error or a non-success payout status are both
 * reported the way the engine expects.
 *
 * @dependencies
 * - bytes, context, encoding/json, fmt, io, log, net/http, time: Standard Go libraries.
 * - pkg/gateway, internal/domain: Gateway contract and Money type.
 */
package paypalclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/luleka/deposit-service/internal/domain"
	"github.com/luleka/deposit-service/pkg/gateway"
)

// Client is a client for the PayPal Payouts API.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient creates a new PayPal API client.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// PayoutRequest represents the payload for a single-recipient payout.
type PayoutRequest struct {
	SenderBatchHeader struct {
		EmailSubject string `json:"email_subject"`
	} `json:"sender_batch_header"`
	Items []PayoutItem `json:"items"`
}

// PayoutItem is one payout instruction within a batch.
type PayoutItem struct {
	RecipientType string `json:"recipient_type"`
	Receiver      string `json:"receiver"`
	Note          string `json:"note,omitempty"`
	Amount        struct {
		Value    string `json:"value"`
		Currency string `json:"currency"`
	} `json:"amount"`
}

// PayoutResponse is the expected response from the payouts endpoint.
type PayoutResponse struct {
	BatchHeader struct {
		PayoutBatchID string `json:"payout_batch_id"`
		BatchStatus   string `json:"batch_status"`
	} `json:"batch_header"`
}

// ErrorResponse represents an error returned by the PayPal API.
type ErrorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
	Details []struct {
		Field string `json:"field"`
		Issue string `json:"issue"`
	} `json:"details"`
}

func (e *ErrorResponse) Error() string {
	if e.Name != "" || e.Message != "" {
		return fmt.Sprintf("paypal api error: %s - %s", e.Name, e.Message)
	}
	return "unknown paypal api error"
}

// CreatePayout sends a single-recipient payout to PayPal.
func (c *Client) CreatePayout(ctx context.Context, receiver, note string, amount domain.Money) (*PayoutResponse, error) {
	item := PayoutItem{
		RecipientType: "EMAIL",
		Receiver:      receiver,
		Note:          note,
	}
	item.Amount.Value = amount.Format()
	item.Amount.Currency = string(amount.Currency)

	reqPayload := PayoutRequest{Items: []PayoutItem{item}}
	reqPayload.SenderBatchHeader.EmailSubject = "You have a payout"

	body, err := json.Marshal(reqPayload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payout request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.BaseURL+"/v1/payments/payouts", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create payout request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.APIKey)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute payout request: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payout response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var errResp ErrorResponse
		if err := json.Unmarshal(bodyBytes, &errResp); err != nil {
			log.Printf("level=warn component=paypal_client op=payout status=%d msg=\"non-2xx response (unparsable error body)\"", resp.StatusCode)
			return nil, fmt.Errorf("failed to decode error response (status %d)", resp.StatusCode)
		}
		log.Printf("level=warn component=paypal_client op=payout status=%d name=%q detail=%q", resp.StatusCode, errResp.Name, errResp.Message)
		return nil, &errResp
	}

	var successResp PayoutResponse
	if err := json.Unmarshal(bodyBytes, &successResp); err != nil {
		return nil, fmt.Errorf("failed to decode success response: %w", err)
	}

	return &successResp, nil
}

// Send implements gateway.Gateway on top of CreatePayout. A batch status of
// DENIED or a rejected batch is a decline, not a transport error.
func (c *Client) Send(ctx context.Context, destination string, amount domain.Money) (*gateway.Result, error) {
	resp, err := c.CreatePayout(ctx, destination, "Deposit account transfer", amount)
	if err != nil {
		return nil, err
	}

	status := resp.BatchHeader.BatchStatus
	switch status {
	case "DENIED", "CANCELED", "BLOCKED":
		return &gateway.Result{
			Success:     false,
			Description: fmt.Sprintf("payout %s was %s", resp.BatchHeader.PayoutBatchID, status),
		}, nil
	default:
		return &gateway.Result{
			Success:     true,
			Description: fmt.Sprintf("payout %s accepted with status %s", resp.BatchHeader.PayoutBatchID, status),
		}, nil
	}
}

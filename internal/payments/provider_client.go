package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ProviderClient talks to the payment provider's REST API.
type ProviderClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewProviderClient(baseURL, apiKey string) *ProviderClient {
	return &ProviderClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type createAccountRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type createAccountResponse struct {
	Account struct {
		ID string `json:"id"`
	} `json:"account"`
}

func (c *ProviderClient) CreateAccount(ctx context.Context, userID string, role AccountRole) (string, error) {
	var resp createAccountResponse
	err := c.post(ctx, "/v1/accounts", createAccountRequest{UserID: userID, Role: string(role)}, http.StatusCreated, &resp)
	if err != nil {
		return "", err
	}
	return resp.Account.ID, nil
}

type createIntentRequest struct {
	Reference string  `json:"reference"`
	Amount    float64 `json:"amount"`
}

type createIntentResponse struct {
	Intent struct {
		ID string `json:"id"`
	} `json:"intent"`
}

func (c *ProviderClient) CreateIntent(ctx context.Context, projectID string, amount float64) (string, error) {
	var resp createIntentResponse
	err := c.post(ctx, "/v1/intents", createIntentRequest{Reference: projectID, Amount: amount}, http.StatusCreated, &resp)
	if err != nil {
		return "", err
	}
	return resp.Intent.ID, nil
}

func (c *ProviderClient) CancelIntent(ctx context.Context, intentID string) error {
	url := fmt.Sprintf("%s/v1/intents/%s/cancel", c.baseURL, intentID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call payment provider: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusConflict:
		// The provider reports an already cancelled or captured intent as a
		// conflict; for cancellation that is a terminal success.
		return ErrIntentFinalized
	default:
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("payment provider returned status %d: %s", resp.StatusCode, string(body))
	}
}

func (c *ProviderClient) post(ctx context.Context, path string, reqBody any, wantStatus int, out any) error {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call payment provider: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != wantStatus {
		return fmt.Errorf("payment provider returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

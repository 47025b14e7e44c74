package httpServices

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Sender sends WhatsApp messages. Kept as an interface so controllers can be
// tested without a live provider.
type Sender interface {
	SendMessage(phone, message string) error
}

// WhatsAppClient talks to the WhatsApp gateway over plain HTTP. A send
// failure is reported to the caller as an error; callers record it on the
// owning entity instead of failing their own operation.
type WhatsAppClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewClient(baseURL, apiKey string) *WhatsAppClient {
	return &WhatsAppClient{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

func (c *WhatsAppClient) SendMessage(phone, message string) error {
	if c.baseURL == "" {
		return errors.New("whatsapp gateway URL is not configured")
	}

	payload := SendMessageRequest{
		MessageID: uuid.NewString(),
		Phone:     phone,
		Message:   message,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	httpReq, err := http.NewRequest("POST", c.baseURL+"/v1/messages/send", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return errors.New("WhatsApp API returned non-OK status: " + resp.Status)
	}

	var apiResp SendMessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return err
	}
	if apiResp.Error != "" {
		return errors.New(apiResp.Error)
	}

	return nil
}

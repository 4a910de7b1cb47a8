package whatsapp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Коды ошибок Cloud API, означающие, что номер не может принять сообщение
const (
	codeMessageUndeliverable = 131026
	codeRecipientNotAllowed  = 131030
)

// Client клиент WhatsApp Cloud API
type Client struct {
	baseURL       string
	apiVersion    string
	phoneNumberID string
	accessToken   string
	httpClient    *http.Client
	log           Logger
}

// NewClient создает новый экземпляр клиента WhatsApp Cloud API
func NewClient(baseURL, apiVersion, phoneNumberID, accessToken string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiVersion:    apiVersion,
		phoneNumberID: phoneNumberID,
		accessToken:   accessToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// SendText отправляет текстовое сообщение на номер to (только цифры, с кодом страны)
// Возвращает идентификатор сообщения
func (c *Client) SendText(ctx context.Context, to, body string) (string, error) {
	if c.phoneNumberID == "" || c.accessToken == "" {
		return "", ErrNotConfigured
	}

	payload, err := json.Marshal(textMessageRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             textPayload{Body: body},
	})
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrInternal, err)
	}

	url := fmt.Sprintf("%s/%s/%s/messages", c.baseURL, c.apiVersion, c.phoneNumberID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", c.decodeError(resp)
	}

	var sendResp SendResponse
	if err := json.NewDecoder(resp.Body).Decode(&sendResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	if len(sendResp.Messages) == 0 {
		return "", fmt.Errorf("%w: response contains no message id", ErrInvalidResponse)
	}

	c.log.Info("WhatsApp: message %s accepted for %s", sendResp.Messages[0].ID, maskPhone(to))
	return sendResp.Messages[0].ID, nil
}

func (c *Client) decodeError(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var apiErr ErrorResponse
	if err := json.Unmarshal(raw, &apiErr); err != nil || apiErr.Error.Code == 0 {
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}

	switch apiErr.Error.Code {
	case codeMessageUndeliverable, codeRecipientNotAllowed:
		return fmt.Errorf("%w: code %d: %s", ErrRecipientRejected, apiErr.Error.Code, apiErr.Error.Message)
	default:
		c.log.Error("WhatsApp: API error status=%d code=%d trace=%s: %s",
			resp.StatusCode, apiErr.Error.Code, apiErr.Error.FBTraceID, apiErr.Error.Message)
		return fmt.Errorf("%w: status %d, code %d: %s", ErrInvalidResponse, resp.StatusCode, apiErr.Error.Code, apiErr.Error.Message)
	}
}

// maskPhone скрывает середину номера в логах
func maskPhone(phone string) string {
	if len(phone) <= 6 {
		return phone
	}
	return phone[:4] + strings.Repeat("*", len(phone)-6) + phone[len(phone)-2:]
}

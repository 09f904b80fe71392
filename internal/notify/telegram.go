package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultTelegramAPI = "https://api.telegram.org"

type Telegram struct {
	baseURL string
	token   string
	chatID  string
	client  *http.Client
}

func NewTelegram(baseURL, token, chatID string) *Telegram {
	if baseURL == "" {
		baseURL = DefaultTelegramAPI
	}
	return &Telegram{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		chatID:  chatID,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

type telegramResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (t *Telegram) Notify(ctx context.Context, s OrderSummary) error {
	form := url.Values{
		"chat_id":    {t.chatID},
		"text":       {FormatTelegram(s)},
		"parse_mode": {"Markdown"},
	}
	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		// the error text contains the endpoint, and with it the bot token
		return fmt.Errorf("%w: telegram: request error", ErrDeliveryFailed)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: telegram: status %d: %s", ErrDeliveryFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out telegramResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return fmt.Errorf("%w: telegram: decode response: %v", ErrDeliveryFailed, err)
	}
	if !out.OK {
		return fmt.Errorf("%w: telegram: %s", ErrDeliveryFailed, out.Description)
	}
	return nil
}

// FormatTelegram renders the group message in Telegram's legacy Markdown.
func FormatTelegram(s OrderSummary) string {
	var b strings.Builder
	count := s.ItemCount()
	plural := "s"
	if count == 1 {
		plural = ""
	}

	fmt.Fprintf(&b, "*NEW ORDER #%s*\n\n", s.OrderID)
	fmt.Fprintf(&b, "*Total:* $%s\n", s.AmountPaid.StringFixed(2))
	fmt.Fprintf(&b, "*Items:* %d item%s\n", count, plural)
	fmt.Fprintf(&b, "*Customer:* %s\n", s.CustomerName)
	fmt.Fprintf(&b, "*Email:* %s\n", s.CustomerEmail)
	fmt.Fprintf(&b, "*Phone:* %s\n", s.CustomerPhone)
	fmt.Fprintf(&b, "*Delivery:* %s\n", s.DeliveryName)
	fmt.Fprintf(&b, "*Payment:* %s\n\n", s.PaymentMethod)
	b.WriteString("*Order Items:*\n")
	for _, it := range s.Items {
		fmt.Fprintf(&b, "• %s x%d\n", it.Name, it.Quantity)
	}
	fmt.Fprintf(&b, "\n*Address:* %s, %s", s.City, s.Country)
	return b.String()
}

package razorpay

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yungbote/classbridge-backend/internal/pkg/httpx"
	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

const defaultBaseURL = "https://api.razorpay.com/v1"

type Config struct {
	KeyID     string
	KeySecret string
	BaseURL   string
	Timeout   time.Duration
}

type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes,omitempty"`
}

type Order struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Status   string            `json:"status"`
	Notes    map[string]string `json:"notes,omitempty"`
}

// Gateway creates payment orders and verifies the checkout signature returned to the client.
type Gateway interface {
	KeyID() string
	CreateOrder(ctx context.Context, req OrderRequest) (*Order, error)
	FetchOrder(ctx context.Context, orderID string) (*Order, error)
	VerifyPaymentSignature(orderID, paymentID, signature string) bool
}

type client struct {
	log        *logger.Logger
	httpClient *http.Client
	cfg        Config
	retry      httpx.RetryPolicy
}

func NewClient(log *logger.Logger, cfg Config) (Gateway, error) {
	if strings.TrimSpace(cfg.KeyID) == "" || strings.TrimSpace(cfg.KeySecret) == "" {
		return nil, fmt.Errorf("missing RAZORPAY_KEY_ID or RAZORPAY_KEY_SECRET")
	}
	if strings.TrimSpace(cfg.BaseURL) == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &client{
		log:        log.With("client", "Razorpay"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cfg:        cfg,
		retry: httpx.RetryPolicy{
			Attempts: 3,
			Backoff:  500 * time.Millisecond,
			MaxSleep: 5 * time.Second,
		},
	}, nil
}

func (c *client) KeyID() string { return c.cfg.KeyID }

func (c *client) CreateOrder(ctx context.Context, req OrderRequest) (*Order, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("order amount must be positive")
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}
	body, err := httpx.DoWithRetry(ctx, c.httpClient, c.retry, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/orders", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		r.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
		r.Header.Set("Content-Type", "application/json")
		return r, nil
	})
	if err != nil {
		c.log.Warn("create order failed", "receipt", req.Receipt, "error", err)
		return nil, fmt.Errorf("razorpay create order: %w", err)
	}
	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("razorpay decode order: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("razorpay returned an order without id")
	}
	return &order, nil
}

func (c *client) FetchOrder(ctx context.Context, orderID string) (*Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, fmt.Errorf("order id is required")
	}
	body, err := httpx.DoWithRetry(ctx, c.httpClient, c.retry, func(ctx context.Context) (*http.Request, error) {
		r, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.BaseURL+"/orders/"+url.PathEscape(orderID), nil)
		if err != nil {
			return nil, err
		}
		r.SetBasicAuth(c.cfg.KeyID, c.cfg.KeySecret)
		return r, nil
	})
	if err != nil {
		c.log.Warn("fetch order failed", "order_id", orderID, "error", err)
		return nil, fmt.Errorf("razorpay fetch order: %w", err)
	}
	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("razorpay decode order: %w", err)
	}
	if order.ID != orderID {
		return nil, fmt.Errorf("razorpay returned order %q for %q", order.ID, orderID)
	}
	return &order, nil
}

func (c *client) VerifyPaymentSignature(orderID, paymentID, signature string) bool {
	return VerifySignature(c.cfg.KeySecret, orderID, paymentID, signature)
}

// Signature is hex(HMAC-SHA256(secret, orderID + "|" + paymentID)).
func Signature(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(secret, orderID, paymentID, signature string) bool {
	if secret == "" || orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	want := Signature(secret, orderID, paymentID)
	return hmac.Equal([]byte(want), []byte(strings.ToLower(strings.TrimSpace(signature))))
}

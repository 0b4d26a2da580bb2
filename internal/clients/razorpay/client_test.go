package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/yungbote/classbridge-backend/internal/pkg/logger"
)

func TestVerifySignature(t *testing.T) {
	sig := Signature("secret", "order_1", "pay_1")
	if !VerifySignature("secret", "order_1", "pay_1", sig) {
		t.Fatalf("valid signature rejected")
	}
	if VerifySignature("secret", "order_1", "pay_2", sig) {
		t.Fatalf("signature for another payment accepted")
	}
	if VerifySignature("other", "order_1", "pay_1", sig) {
		t.Fatalf("signature with another secret accepted")
	}
	if VerifySignature("secret", "order_1", "pay_1", "") {
		t.Fatalf("empty signature accepted")
	}
}

func TestCreateOrderRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n := atomic.AddInt32(&calls, 1); n == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != "key" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		var req OrderRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(Order{ID: "order_9", Amount: req.Amount, Currency: req.Currency, Receipt: req.Receipt})
	}))
	defer srv.Close()

	gw, err := NewClient(logger.Nop(), Config{KeyID: "key", KeySecret: "secret", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	order, err := gw.CreateOrder(context.Background(), OrderRequest{Amount: 499900, Receipt: "course_x"})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != "order_9" || order.Amount != 499900 || order.Currency != "INR" {
		t.Fatalf("order: got=%+v", order)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls: want=2 got=%d", got)
	}
}

func TestCreateOrderDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	gw, _ := NewClient(logger.Nop(), Config{KeyID: "key", KeySecret: "secret", BaseURL: srv.URL})
	if _, err := gw.CreateOrder(context.Background(), OrderRequest{Amount: 100}); err == nil {
		t.Fatalf("expected error")
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("calls: want=1 got=%d", got)
	}
}

func TestFetchOrderReturnsNotes(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if n := atomic.AddInt32(&calls, 1); n == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		if r.Method != http.MethodGet || r.URL.Path != "/orders/order_7" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		if user, pass, ok := r.BasicAuth(); !ok || user != "key" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(Order{
			ID:      "order_7",
			Amount:  100,
			Receipt: "course_abc",
			Status:  "paid",
			Notes:   map[string]string{"courseId": "abc", "userId": "u1"},
		})
	}))
	defer srv.Close()

	gw, err := NewClient(logger.Nop(), Config{KeyID: "key", KeySecret: "secret", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	order, err := gw.FetchOrder(context.Background(), "order_7")
	if err != nil {
		t.Fatalf("fetch order: %v", err)
	}
	if order.Receipt != "course_abc" || order.Notes["courseId"] != "abc" || order.Notes["userId"] != "u1" {
		t.Fatalf("order: got=%+v", order)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("calls: want=2 got=%d", got)
	}
	if _, err := gw.FetchOrder(context.Background(), "order_8"); err == nil {
		t.Fatalf("expected error for unknown order")
	}
	if _, err := gw.FetchOrder(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty order id")
	}
}

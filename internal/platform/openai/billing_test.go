package openai

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/yungbote/codewitheasy-admin/internal/platform/logger"
)

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	sub := Subscription{HardLimitUSD: 120, AccessUntil: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC).Unix(), PlanName: "pay-as-you-go"}
	got := Summarize(sub, Usage{TotalUsage: 30.123456}, now)

	if got.TotalUsageUSD != 30.1235 {
		t.Fatalf("TotalUsageUSD: got=%v", got.TotalUsageUSD)
	}
	if got.RemainingUSD != 89.8765 {
		t.Fatalf("RemainingUSD: got=%v", got.RemainingUSD)
	}
	if got.UsagePercentage != 25.1 {
		t.Fatalf("UsagePercentage: got=%v", got.UsagePercentage)
	}
	if got.Period != "Until 2026-12-31" {
		t.Fatalf("Period: got=%q", got.Period)
	}
	if got.PlanName != "pay-as-you-go" || got.Currency != "USD" {
		t.Fatalf("unexpected plan/currency: %+v", got)
	}
	if got.DailyCosts == nil {
		t.Fatalf("DailyCosts should be an empty list, not nil")
	}
}

func TestSummarizeWithoutLimit(t *testing.T) {
	got := Summarize(Subscription{}, Usage{TotalUsage: 5}, time.Now())
	if got.UsagePercentage != 0 || got.Period != "No end date" || got.PlanName != "Unknown" {
		t.Fatalf("unexpected summary: %+v", got)
	}
}

func TestBillingEndpoints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/dashboard/billing/subscription":
			_, _ = w.Write([]byte(`{"hard_limit_usd":50,"plan_name":"free","has_payment_method":true}`))
		case "/dashboard/billing/usage":
			_, _ = w.Write([]byte(`{"total_usage":12.5,"daily_costs":[{"timestamp":1}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	c, err := NewClient(logger.Nop(), Config{APIKey: "sk-test", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	sub, err := c.Subscription(context.Background())
	if err != nil {
		t.Fatalf("Subscription: %v", err)
	}
	if sub.HardLimitUSD != 50 || sub.PlanName != "free" || !sub.HasPaymentMethod {
		t.Fatalf("unexpected subscription: %+v", sub)
	}
	u, err := c.Usage(context.Background())
	if err != nil {
		t.Fatalf("Usage: %v", err)
	}
	if u.TotalUsage != 12.5 || len(u.DailyCosts) != 1 {
		t.Fatalf("unexpected usage: %+v", u)
	}

	bad, err := NewClient(logger.Nop(), Config{APIKey: "sk-wrong", BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	_, err = bad.Subscription(context.Background())
	var he *HTTPError
	if !errors.As(err, &he) || he.HTTPStatusCode() != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

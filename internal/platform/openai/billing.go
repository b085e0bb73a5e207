package openai

import (
	"context"
	"math"
	"time"
)

type Subscription struct {
	HardLimitUSD     float64 `json:"hard_limit_usd"`
	AccessUntil      int64   `json:"access_until"`
	PlanName         string  `json:"plan_name"`
	HasPaymentMethod bool    `json:"has_payment_method"`
}

type Usage struct {
	TotalUsage float64 `json:"total_usage"`
	DailyCosts []any   `json:"daily_costs"`
}

// Balance is the summary served to the admin dashboard.
type Balance struct {
	TotalUsageUSD     float64   `json:"totalUsageUSD"`
	HardLimitUSD      float64   `json:"hardLimitUSD"`
	RemainingUSD      float64   `json:"remainingUSD"`
	UsagePercentage   float64   `json:"usagePercentage"`
	Currency          string    `json:"currency,omitempty"`
	Period            string    `json:"period,omitempty"`
	PlanName          string    `json:"planName,omitempty"`
	HasPaymentMethod  bool      `json:"hasPaymentMethod"`
	LastChecked       time.Time `json:"lastChecked"`
	CurrentMonthUsage float64   `json:"currentMonthUsage"`
	DailyCosts        []any     `json:"dailyCosts"`
}

func (c *client) Subscription(ctx context.Context) (Subscription, error) {
	var sub Subscription
	if err := c.get(ctx, "/dashboard/billing/subscription", &sub); err != nil {
		return Subscription{}, err
	}
	return sub, nil
}

func (c *client) Usage(ctx context.Context) (Usage, error) {
	var u Usage
	if err := c.get(ctx, "/dashboard/billing/usage", &u); err != nil {
		return Usage{}, err
	}
	return u, nil
}

// Summarize derives the remaining quota from a subscription and its usage.
func Summarize(sub Subscription, usage Usage, now time.Time) Balance {
	remaining := sub.HardLimitUSD - usage.TotalUsage
	pct := 0.0
	if sub.HardLimitUSD > 0 {
		pct = usage.TotalUsage / sub.HardLimitUSD * 100
	}
	period := "No end date"
	if sub.AccessUntil > 0 {
		period = "Until " + time.Unix(sub.AccessUntil, 0).UTC().Format("2006-01-02")
	}
	plan := sub.PlanName
	if plan == "" {
		plan = "Unknown"
	}
	daily := usage.DailyCosts
	if daily == nil {
		daily = []any{}
	}
	return Balance{
		TotalUsageUSD:     round(usage.TotalUsage, 4),
		HardLimitUSD:      round(sub.HardLimitUSD, 4),
		RemainingUSD:      round(remaining, 4),
		UsagePercentage:   round(pct, 2),
		Currency:          "USD",
		Period:            period,
		PlanName:          plan,
		HasPaymentMethod:  sub.HasPaymentMethod,
		LastChecked:       now.UTC(),
		CurrentMonthUsage: usage.TotalUsage,
		DailyCosts:        daily,
	}
}

// Zero is reported when the API key is rejected.
func Zero(now time.Time) Balance {
	return Balance{LastChecked: now.UTC(), DailyCosts: []any{}}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package claude

import "encoding/json"

// usageResponse is the raw response from the OAuth usage endpoint.
type usageResponse struct {
	FiveHour       *rawWindow  `json:"five_hour"`
	SevenDay       *rawWindow  `json:"seven_day"`
	SevenDayOpus   *rawWindow  `json:"seven_day_opus"`
	SevenDaySonnet *rawWindow  `json:"seven_day_sonnet"`
	ExtraUsage     *extraUsage `json:"extra_usage"`
}

// rawWindow is a single rate-limit window from the API.
// Utilization can be int, float, or string — kept as raw JSON for defensive parsing.
type rawWindow struct {
	Utilization json.RawMessage `json:"utilization"`
	ResetsAt    *string         `json:"resets_at"`
}

// extraUsage is pay-as-you-go spend beyond the subscription, in cents.
type extraUsage struct {
	IsEnabled    bool     `json:"is_enabled"`
	MonthlyLimit *float64 `json:"monthly_limit"`
	UsedCredits  *float64 `json:"used_credits"`
	Utilization  *float64 `json:"utilization"`
}

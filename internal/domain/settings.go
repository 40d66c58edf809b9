package domain

// Settings are admin-editable storefront values. They are read fresh on each
// pricing/cancel call, never cached by the core.
type Settings struct {
	DeliveryDhaka   float64 // flat shipping rate inside Dhaka
	DeliveryOutside float64 // flat shipping rate outside Dhaka
	CancelWindowMin int     // customer self-service cancellation window
}

// Defaults applied when a key is missing from the settings store
const (
	DefaultDeliveryDhaka   = 100
	DefaultDeliveryOutside = 150
	DefaultCancelWindowMin = 10
)

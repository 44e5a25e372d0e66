package dashboard

import "github.com/El-sheshtawy/Filament-Ecommerce-Admin-panel/pkg/enums"

// ProcessingWarningThreshold is the processing-order count above which the
// badge turns to a warning.
const ProcessingWarningThreshold = 100

// Badge is a navigation counter with its colour hint.
type Badge struct {
	Count int64            `json:"count"`
	Color enums.BadgeColor `json:"color"`
}

// BadgeColorFor maps a processing-order count to its badge colour.
func BadgeColorFor(count int64) enums.BadgeColor {
	if count > ProcessingWarningThreshold {
		return enums.BadgeColorWarning
	}
	return enums.BadgeColorPrimary
}

// Navigation bundles the counters shown next to admin menu entries.
type Navigation struct {
	ProcessingOrders Badge `json:"processing_orders"`
	Categories       int64 `json:"categories"`
	PendingOrders    int64 `json:"pending_orders"`
}

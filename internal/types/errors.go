package types

import "errors"

// Sentinel errors for the snipe engine.
var (
	// Data errors
	ErrDataUnavailable = errors.New("order book data unavailable")
	ErrMarketNotFound  = errors.New("market not found")
	ErrInvalidPrice    = errors.New("invalid price value")

	// Opportunity errors
	ErrOpportunityRejected = errors.New("opportunity below thresholds")
	ErrMaxOrdersReached    = errors.New("max concurrent orders reached")

	// Order errors
	ErrOrderNotFound   = errors.New("order not found")
	ErrOrderFinal      = errors.New("order already in terminal state")
	ErrDuplicateOrder  = errors.New("duplicate order id")
	ErrInvalidSize     = errors.New("invalid order size")
	ErrInvalidDiscount = errors.New("invalid discount")

	// Risk errors
	ErrRiskLimitBreached = errors.New("daily loss limit breached")
	ErrEmergencyStop     = errors.New("emergency stop active")
	ErrEngineStopped     = errors.New("engine not running")

	// Validation errors
	ErrInvalidConfig = errors.New("invalid configuration")
)

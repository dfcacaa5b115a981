// Package alerting provides notification capabilities for the snipe engine.
package alerting

import (
	"context"
	"fmt"
)

// Severity represents the alert severity level.
type Severity int

const (
	// SeverityInfo is for informational messages.
	SeverityInfo Severity = iota
	// SeverityWarning is for warning messages.
	SeverityWarning
	// SeverityHigh is for high priority alerts.
	SeverityHigh
	// SeverityCritical is for critical alerts requiring immediate attention.
	SeverityCritical
)

// String returns the string representation of the severity.
func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "INFO"
	case SeverityWarning:
		return "WARNING"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Emoji returns an emoji for the severity level.
func (s Severity) Emoji() string {
	switch s {
	case SeverityInfo:
		return "ℹ️"
	case SeverityWarning:
		return "⚠️"
	case SeverityHigh:
		return "🔴"
	case SeverityCritical:
		return "🚨"
	default:
		return "❓"
	}
}

// Alerter defines the interface for sending alerts.
type Alerter interface {
	// Alert sends an alert with the given severity and message.
	Alert(ctx context.Context, severity Severity, message string, fields ...any) error
	// Name returns the name of the alerter.
	Name() string
}

// FormatFields converts variadic key-value fields to a formatted string.
func FormatFields(fields ...any) string {
	if len(fields) == 0 {
		return ""
	}

	result := ""
	for i := 0; i < len(fields)-1; i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			continue
		}
		value := fields[i+1]
		if result != "" {
			result += "\n"
		}
		result += fmt.Sprintf("• %s: %v", key, value)
	}
	return result
}

// AlertEvent represents a pre-defined alert event type.
type AlertEvent string

const (
	// EventOpportunityFound is sent when a scan surfaces an opportunity.
	EventOpportunityFound AlertEvent = "opportunity_found"
	// EventOrderPlaced is sent when a snipe order is placed.
	EventOrderPlaced AlertEvent = "order_placed"
	// EventOrderFilled is sent when a snipe order fills.
	EventOrderFilled AlertEvent = "order_filled"
	// EventOrderExpired is sent when an order times out and is cancelled.
	EventOrderExpired AlertEvent = "order_expired"
	// EventOrderResubmitted is sent when an expired order is replaced.
	EventOrderResubmitted AlertEvent = "order_resubmitted"
	// EventDailyLimitReached is sent when the daily loss limit trips.
	EventDailyLimitReached AlertEvent = "daily_limit_reached"
	// EventEmergencyStop is sent when the emergency stop is pulled.
	EventEmergencyStop AlertEvent = "emergency_stop"
	// EventEngineStarted is sent when the engine starts.
	EventEngineStarted AlertEvent = "engine_started"
	// EventEngineStopped is sent when the engine stops.
	EventEngineStopped AlertEvent = "engine_stopped"
	// EventDailySummary is sent for the end-of-day summary.
	EventDailySummary AlertEvent = "daily_summary"
)

// EventSeverity returns the default severity for an event.
func EventSeverity(event AlertEvent) Severity {
	switch event {
	case EventEmergencyStop:
		return SeverityCritical
	case EventDailyLimitReached:
		return SeverityHigh
	case EventOrderExpired, EventOrderResubmitted:
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

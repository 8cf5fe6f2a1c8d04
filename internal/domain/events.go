package domain

const (
	CanonicalEventClassDomain        = "domain"
	CanonicalEventClassAnalyticsOnly = "analytics_only"
	CanonicalEventClassOps           = "ops"
)

const (
	EventAccountCreated = "escrow.account_created"
	EventFundsDeposited = "escrow.funds_deposited"
	EventFundsReleased  = "escrow.funds_released"
	EventDisputeRaised  = "escrow.dispute_raised"
	EventFundsRefunded  = "escrow.funds_refunded"
)

func IsCanonicalEmittedEvent(eventType string) bool {
	switch eventType {
	case EventAccountCreated, EventFundsDeposited, EventFundsReleased, EventDisputeRaised, EventFundsRefunded:
		return true
	default:
		return false
	}
}

func CanonicalEventClass(eventType string) string {
	switch eventType {
	case EventFundsDeposited, EventFundsReleased, EventFundsRefunded:
		return CanonicalEventClassDomain
	case EventAccountCreated, EventDisputeRaised:
		return CanonicalEventClassAnalyticsOnly
	default:
		return ""
	}
}

func CanonicalPartitionKeyPath(eventType string) string {
	if IsCanonicalEmittedEvent(eventType) {
		return "data.account_id"
	}
	return ""
}

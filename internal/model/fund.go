package model

import "fmt"

// RiskLevel is the operator's declared risk appetite.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ParseRiskLevel validates a risk level coming from user input.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskLevel(s), nil
	}
	return "", &ConfigError{Field: "risk_level", Reason: fmt.Sprintf("unknown risk level %q", s)}
}

// FundingConfig tracks the trading budget.
type FundingConfig struct {
	AvailableFunds float64   `json:"availableFunds"`
	MaxPerTrade    float64   `json:"maxPerTrade"`
	RiskLevel      RiskLevel `json:"riskLevel"`
}

// PaymentMethod is how a deposit reaches the account.
type PaymentMethod string

const (
	PaymentBank   PaymentMethod = "bank"
	PaymentCard   PaymentMethod = "card"
	PaymentCrypto PaymentMethod = "crypto"
)

// ParsePaymentMethod validates a deposit method coming from user input.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(s) {
	case PaymentBank, PaymentCard, PaymentCrypto:
		return PaymentMethod(s), nil
	}
	return "", &ConfigError{Field: "payment_method", Reason: fmt.Sprintf("unknown payment method %q", s)}
}

package model

// ExchangeCoinbase is the only credentialed exchange.
const ExchangeCoinbase = "coinbase"

// APICredential holds an exchange key triple.
type APICredential struct {
	APIKey       string `json:"-"`
	APISecret    string `json:"-"`
	Passphrase   string `json:"-"`
	IsConfigured bool   `json:"isConfigured"`
}

// Complete reports whether all three fields are present.
func (c APICredential) Complete() bool {
	return c.APIKey != "" && c.APISecret != "" && c.Passphrase != ""
}

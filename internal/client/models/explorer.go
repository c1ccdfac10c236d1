package models

import (
	"net/url"
	"strings"
)

// Explorer builds public ledger-explorer links, following the
// <base>/<network>/transaction/<id> convention.
type Explorer struct {
	BaseURL string
	Network string
}

// TransactionURL returns "" when txID is empty.
func (e Explorer) TransactionURL(txID string) string {
	if txID == "" || e.BaseURL == "" {
		return ""
	}
	base := strings.TrimRight(e.BaseURL, "/")
	if e.Network != "" {
		base += "/" + url.PathEscape(e.Network)
	}
	return base + "/transaction/" + url.PathEscape(txID)
}

// Resolve prefers the URL reported by the service and falls back to one
// built from the transaction id.
func (e Explorer) Resolve(d Document) string {
	if d.ExplorerURL != "" {
		return d.ExplorerURL
	}
	return e.TransactionURL(d.LedgerTransactionID)
}

// Package common contains shared constants and sentinel errors used across
// the files manager components.
package common

const (
	// TokenHeaderName carries the session token on authenticated requests.
	TokenHeaderName = "X-Token"

	// SessionKeyPrefix prefixes every session key in the session store.
	SessionKeyPrefix = "auth_"

	// PageSize is the fixed number of nodes returned per listing page.
	PageSize = 20
)

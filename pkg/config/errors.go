package config

import "errors"

// ErrParsingConfig wraps env tag parsing failures so callers can branch on
// configuration problems without matching error text.
var ErrParsingConfig = errors.New("config: failed to parse environment variables")

package server

import "errors"

var (
	errNoTransportConfigured = errors.New("no transport server configured")
)

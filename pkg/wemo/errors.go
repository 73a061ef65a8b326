package wemo

import "errors"

var (
	// ErrConnectivity indicates the device could not be reached at the
	// transport level (timeout, refused connection, non-2xx response).
	ErrConnectivity = errors.New("device unreachable")

	// ErrProtocol indicates the device answered but the response body was
	// malformed or missing the expected result field.
	ErrProtocol = errors.New("malformed device response")
)

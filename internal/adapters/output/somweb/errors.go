package somweb

import "errors"

var (
	// ErrAuthenticationFailed indicates the portal rejected the credentials
	// or returned a page without a webtoken.
	ErrAuthenticationFailed = errors.New("somweb: authentication failed")

	// ErrDeviceUnreachable indicates the controller could not be contacted.
	ErrDeviceUnreachable = errors.New("somweb: device unreachable")

	// ErrStatusQuery indicates a door status request failed or returned
	// an unrecognized body.
	ErrStatusQuery = errors.New("somweb: door status query failed")

	// ErrCommandRejected indicates the controller refused an open/close
	// command, typically because the webtoken has expired.
	ErrCommandRejected = errors.New("somweb: door command rejected")
)

// Package context defines the keys used to pass request-scoped values
// through middleware.
package context

type Key string

const (
	// Claims holds the verified token claims of the request principal.
	Claims Key = "claims"
	// Params holds the httprouter path parameters.
	Params Key = "params"
)

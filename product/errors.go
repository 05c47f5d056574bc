package product

import (
	"fmt"
)

type ErrorKind int

const (
	NetworkError ErrorKind = iota
	DecodeError
)

func (k ErrorKind) String() string {
	switch k {
	case NetworkError:
		return "network error"
	case DecodeError:
		return "decode error"
	default:
		return "unknown error"
	}
}

// FetchError is the single failure signal handed to the consumer of a
// product request. The transport or decoder failure is kept as its cause.
type FetchError struct {
	Kind ErrorKind
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%v: %v", e.Kind, e.Err)
}

func (e *FetchError) Cause() error {
	return e.Err
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

func networkError(err error) error {
	return &FetchError{Kind: NetworkError, Err: err}
}

func decodeError(err error) error {
	return &FetchError{Kind: DecodeError, Err: err}
}

// asFetchError finds a *FetchError in err's chain, following both Cause and
// Unwrap.
func asFetchError(err error) (*FetchError, bool) {
	for err != nil {
		if e, ok := err.(*FetchError); ok {
			return e, true
		}

		switch wrapped := err.(type) {
		case interface{ Cause() error }:
			err = wrapped.Cause()
		case interface{ Unwrap() error }:
			err = wrapped.Unwrap()
		default:
			return nil, false
		}
	}

	return nil, false
}

func IsNetworkError(err error) bool {
	e, ok := asFetchError(err)
	return ok && e.Kind == NetworkError
}

func IsDecodeError(err error) bool {
	e, ok := asFetchError(err)
	return ok && e.Kind == DecodeError
}

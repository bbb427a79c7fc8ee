// Package errors provides the error kinds raised by catalog operations.
//
// Every error returned by the services wraps exactly one kind sentinel
// (ErrNotFound, ErrBadRequest or ErrPreconditionFailed) or none at all,
// in which case it is an internal failure of a collaborator.
package errors

import (
	"errors"
	"fmt"
)

// Kind sentinels.
var (
	ErrNotFound           = errors.New("not found")
	ErrBadRequest         = errors.New("bad request")
	ErrPreconditionFailed = errors.New("precondition failed")
)

var ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
var ErrStoreNotFound = fmt.Errorf("store %w", ErrNotFound)

var ErrStoreNotAssociated = fmt.Errorf("store is not associated to the product: %w", ErrPreconditionFailed)

// Kind identifies the category of a catalog error.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindBadRequest
	KindPreconditionFailed
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindBadRequest:
		return "bad_request"
	case KindPreconditionFailed:
		return "precondition_failed"
	default:
		return "internal"
	}
}

// KindOf reports the kind of err. Errors that wrap no kind sentinel are KindInternal.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindInternal
	case errors.Is(err, ErrNotFound):
		return KindNotFound
	case errors.Is(err, ErrBadRequest):
		return KindBadRequest
	case errors.Is(err, ErrPreconditionFailed):
		return KindPreconditionFailed
	default:
		return KindInternal
	}
}

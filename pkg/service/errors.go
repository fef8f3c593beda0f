package service

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"wallet_dashboard_back/pkg/repository"
)

type Kind string

const (
	KindNotFound        Kind = "not_found"
	KindForbidden       Kind = "forbidden"
	KindAlreadyResolved Kind = "already_resolved"
	KindUpstream        Kind = "upstream_failure"
	KindValidation      Kind = "validation_failure"
	KindConflict        Kind = "conflict"
	KindUnauthorized    Kind = "unauthorized"
)

// Error is the only error type that crosses the service boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the kind of a service error, or KindUpstream for anything else.
func KindOf(err error) Kind {
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return svcErr.Kind
	}
	return KindUpstream
}

func newError(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func notFound(message string) error { return newError(KindNotFound, message) }
func forbidden(message string) error { return newError(KindForbidden, message) }
func alreadyResolved(message string) error { return newError(KindAlreadyResolved, message) }
func invalid(message string) error { return newError(KindValidation, message) }
func unauthorized(message string) error { return newError(KindUnauthorized, message) }

// storageError maps a repository error to a service error. Unknown errors
// are logged and downgraded to UpstreamFailure so driver details never leak.
func storageError(op string, err error, notFoundMsg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return notFound(notFoundMsg)
	case errors.Is(err, repository.ErrDuplicate):
		return newError(KindConflict, "record already exists")
	case errors.Is(err, repository.ErrStateChanged):
		return alreadyResolved("request was already resolved")
	}
	var svcErr *Error
	if errors.As(err, &svcErr) {
		return err
	}
	logrus.WithError(err).WithField("op", op).Error("storage failure")
	return &Error{Kind: KindUpstream, Message: "storage unavailable", Err: err}
}

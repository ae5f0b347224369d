package service

import "errors"

var (
	ErrVersionIsNotSpecified = errors.New("application version is not specified")

	ErrInvalidCredentials      = errors.New("invalid credentials")
	ErrWrongPassword           = errors.New("password is incorrect")
	ErrUserInactive            = errors.New("user account is deactivated")
	ErrTokenCreationFailed     = errors.New("error creating token")
	ErrTokenIsExpiredOrInvalid = errors.New("not authorized to access this route")

	ErrEmailNotFound     = errors.New("there is no user with that email")
	ErrInvalidResetToken = errors.New("invalid token")
	ErrResetNotDelivered = errors.New("email could not be sent")

	ErrCotisationNotPending = errors.New("only pending cotisations can be modified")
	ErrCotisationLinked     = errors.New("cotisation already has a ledger entry")
	ErrCannotRemoveOwner    = errors.New("cannot remove the group owner")
	ErrInvalidPeriod        = errors.New("invalid period")
)

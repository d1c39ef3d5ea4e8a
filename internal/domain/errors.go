package domain

import "errors"

var (
	ErrValidation           = errors.New("validation error")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrFeedClosed           = errors.New("feed closed")
)

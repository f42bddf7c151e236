package types

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrVolunteerNotFound    = errors.New("volunteer not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrBadgeNotFound        = errors.New("badge not found")

	ErrNotAuthenticated = errors.New("not authenticated")
	ErrNotOnboarded     = errors.New("user has not completed onboarding")
	ErrUsernameTaken    = errors.New("username already exists")

	ErrEventFull     = errors.New("event is full")
	ErrAlreadyJoined = errors.New("already joined this event")
	ErrNotJoined     = errors.New("not joined to this event")
)

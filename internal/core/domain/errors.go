package domain

import "errors"

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrTaskNotFound            = errors.New("task not found")
	ErrFieldNotFound           = errors.New("custom field not found")
	ErrInvalidCustomFieldValue = errors.New("invalid custom field value")
	ErrUnknownUser             = errors.New("unknown user")
	ErrPermissionDenied        = errors.New("permission denied")
	ErrSelfDependency          = errors.New("task cannot depend on itself")
	ErrDependencyExists        = errors.New("dependency already exists")
	ErrDependencyCycle         = errors.New("dependency would create a cycle")
	ErrDependencyNotFound      = errors.New("dependency not found")
	ErrUnavailable             = errors.New("store unavailable")
	ErrSubscriptionGone        = errors.New("push subscription expired")
	ErrPushDelivery            = errors.New("push delivery failed")
)

package util

import "errors"

var (
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrClassNotFound      = errors.New("class not found")
	ErrNotEnrolled        = errors.New("not enrolled in this class")
	ErrAlreadyEnrolled    = errors.New("already enrolled")
	ErrQuizNotFound       = errors.New("quiz not found for this class")
	ErrQuizAlreadyTaken   = errors.New("quiz already taken")
	ErrInvalidQuizKind    = errors.New("valid quiz type is required")
	ErrEmptyMessage       = errors.New("message text must not be empty")
	ErrMessageNotFound    = errors.New("message not found")
	ErrInvalidGroupCount  = errors.New("group count must be positive")
	ErrInvalidGroupNumber = errors.New("group number must be positive")
	ErrNotGroupMember     = errors.New("not a member of this group")
)

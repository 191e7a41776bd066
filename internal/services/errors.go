package services

import "errors"

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthorized
	KindNotFound
	KindUnavailable
)

// Error is a failure the HTTP layer can translate into a status code.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func badRequest(msg string) error   { return &Error{Kind: KindValidation, Message: msg} }
func unauthorized(msg string) error { return &Error{Kind: KindUnauthorized, Message: msg} }
func notFound(msg string) error     { return &Error{Kind: KindNotFound, Message: msg} }

// KindOf returns the Kind of err, KindInternal for anything untyped.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	ErrUserExists        = badRequest("User already exists")
	ErrInvalidAdminCode  = badRequest("Invalid admin code")
	ErrInvalidCredential = unauthorized("Invalid email or password")
	ErrSuspended         = unauthorized("Account is suspended")
	ErrUserNotFound      = notFound("User not found")
	ErrJobNotFound       = notFound("Job not found")
	ErrAppNotFound       = notFound("Application not found")
	ErrCompanyNotFound   = notFound("Company not found")
	ErrNotAuthorized     = unauthorized("Not authorized")
	ErrLimitReached      = badRequest("This job has reached its application limit")
	ErrAlreadyApplied    = badRequest("Already applied for this job")
	ErrAlreadyReviewed   = badRequest("Already reviewed this job")
	ErrLocationRequired  = badRequest("City, state, and country are required in location")
	ErrOTPFieldsRequired = badRequest("Phone number, OTP, and user ID are required")
	ErrOTPExpired        = badRequest("OTP has expired. Please request a new one.")
	ErrOTPInvalid        = badRequest("Invalid OTP. Please try again.")
	ErrSelfDelete        = badRequest("You cannot delete yourself as an admin")
	ErrExtractionOff     = &Error{Kind: KindUnavailable, Message: "Job extraction is not configured"}
)

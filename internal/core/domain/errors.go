package domain

import (
	"errors"
	"fmt"
)

// Kind classifies an error so callers can branch without string matching
type Kind int

const (
	KindInput     Kind = iota + 1 // malformed request, never coerced
	KindNotFound                  // referenced resource does not exist
	KindState                     // valid request rejected by current state
	KindTransient                 // infrastructure failure, safe to retry
	KindSecurity                  // credential or attempt-budget rejection
)

func (k Kind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindNotFound:
		return "not_found"
	case KindState:
		return "state"
	case KindTransient:
		return "transient"
	case KindSecurity:
		return "security"
	default:
		return "unknown"
	}
}

// Error is the tagged error returned by the core services
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Code so wrapped copies still compare equal to the sentinel
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// Retryable reports whether the client may safely repeat the request
func (e *Error) Retryable() bool {
	return e.Kind == KindTransient
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Wrap returns a copy of sentinel carrying cause
func Wrap(sentinel *Error, cause error) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: sentinel.Message, Err: cause}
}

// WithMessage returns a copy of sentinel with a more specific message
func WithMessage(sentinel *Error, format string, args ...interface{}) *Error {
	return &Error{Kind: sentinel.Kind, Code: sentinel.Code, Message: fmt.Sprintf(format, args...)}
}

// Transient wraps an infrastructure failure as a retryable persistence error
func Transient(cause error) *Error {
	return Wrap(ErrPersistence, cause)
}

// KindOf returns the Kind of err, or 0 when err is not a domain error
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return 0
}

// Input errors
var (
	ErrValidation    = newError(KindInput, "VALIDATION_FAILED", "request validation failed")
	ErrBadImage      = newError(KindInput, "BAD_IMAGE", "image could not be decoded as jpeg or png")
	ErrImageTooLarge = newError(KindInput, "IMAGE_TOO_LARGE", "image exceeds maximum size")
	ErrInvalidStatus = newError(KindInput, "INVALID_STATUS", "unknown election status")
)

// Not found errors
var (
	ErrElectionNotFound    = newError(KindNotFound, "ELECTION_NOT_FOUND", "election not found")
	ErrVoterNotFound       = newError(KindNotFound, "VOTER_NOT_FOUND", "voter not found")
	ErrUnknownCandidate    = newError(KindNotFound, "UNKNOWN_CANDIDATE", "candidate is not registered for this election")
	ErrNoReferenceEnrolled = newError(KindNotFound, "NO_REFERENCE_ENROLLED", "no biometric reference enrolled, complete KYC first")
	ErrMatricNotFound      = newError(KindNotFound, "MATRIC_NOT_FOUND", "matriculation number not found in student records")
	ErrReceiptNotFound     = newError(KindNotFound, "RECEIPT_NOT_FOUND", "receipt not found")
	ErrChallengeNotFound   = newError(KindNotFound, "CHALLENGE_NOT_FOUND", "no active challenge, request a new code")
)

// State errors
var (
	ErrInvalidTransition     = newError(KindState, "INVALID_TRANSITION", "invalid election status transition")
	ErrElectionNotOngoing    = newError(KindState, "ELECTION_NOT_ONGOING", "election is not ongoing")
	ErrSelfVote              = newError(KindState, "SELF_VOTE", "voting for yourself is not allowed")
	ErrAlreadyVoted          = newError(KindState, "ALREADY_VOTED", "a vote has already been recorded for this election")
	ErrNotEligible           = newError(KindState, "NOT_ELIGIBLE", "election is restricted to another faculty")
	ErrRegistrationClosed    = newError(KindState, "CANDIDATE_REGISTRATION_CLOSED", "candidate registration is only open while the election is upcoming")
	ErrAlreadyCandidate      = newError(KindState, "ALREADY_CANDIDATE", "already registered as a candidate for this election")
	ErrAlreadyEnrolled       = newError(KindState, "ALREADY_ENROLLED", "biometric reference already enrolled")
	ErrMatricAlreadyClaimed  = newError(KindState, "MATRIC_ALREADY_CLAIMED", "matriculation number already claimed")
	ErrAffiliationAlreadySet = newError(KindState, "AFFILIATION_ALREADY_SET", "academic affiliation already verified")
	ErrBelowThreshold        = newError(KindState, "BELOW_THRESHOLD", "face similarity below threshold")
	ErrNoFaceMatch           = newError(KindState, "NO_FACE_MATCH", "no matching face found in probe image")
	ErrStepUpRequired        = newError(KindState, "STEP_UP_REQUIRED", "complete OTP and face verification first")
	ErrEmailTaken            = newError(KindState, "EMAIL_TAKEN", "email already registered")
	ErrChallengeBusy         = newError(KindState, "CHALLENGE_BUSY", "another code request is in progress, try again shortly")
)

// Transient errors
var (
	ErrPersistence     = newError(KindTransient, "PERSISTENCE_ERROR", "storage failure, please retry")
	ErrUpstreamTimeout = newError(KindTransient, "UPSTREAM_TIMEOUT", "external service timed out, please retry")
	ErrUpstream        = newError(KindTransient, "UPSTREAM_ERROR", "external service failed, please retry")
	ErrDeliveryFailed  = newError(KindTransient, "DELIVERY_FAILED", "code could not be delivered, request a new one")
)

// Security errors
var (
	ErrTokenInvalid     = newError(KindSecurity, "TOKEN_INVALID", "invalid access token")
	ErrTokenExpired     = newError(KindSecurity, "TOKEN_EXPIRED", "access token expired")
	ErrTokenRevoked     = newError(KindSecurity, "TOKEN_REVOKED", "access token revoked")
	ErrChallengeInvalid = newError(KindSecurity, "CHALLENGE_INVALID", "invalid code")
	ErrChallengeExpired = newError(KindSecurity, "CHALLENGE_EXPIRED", "code expired, request a new one")
	ErrTooManyAttempts  = newError(KindSecurity, "TOO_MANY_ATTEMPTS", "too many failed attempts, request a new code")
	ErrRateLimited      = newError(KindSecurity, "RATE_LIMITED", "please wait before requesting another code")
	ErrForbidden        = newError(KindSecurity, "FORBIDDEN", "you don't have permission to access this resource")
	ErrBadCredentials   = newError(KindSecurity, "BAD_CREDENTIALS", "invalid email or password")
)

package services

import "errors"

// Validation failures every economy operation can return. Handlers translate
// these into stable machine-readable codes; anything not in this list is a
// storage failure and surfaces as a 500.
var (
	ErrNotFound          = errors.New("entity not found")
	ErrInsufficientFunds = errors.New("insufficient coins")
	ErrBelowMinimum      = errors.New("amount below minimum")
	ErrTapsExhausted     = errors.New("no taps remaining")
	ErrTaskInactive      = errors.New("task is no longer active")
	ErrGameInactive      = errors.New("game is no longer active")
	ErrTournamentClosed  = errors.New("tournament is not in the required phase")
	ErrAlreadyCompleted  = errors.New("task already completed")
	ErrAlreadyRegistered = errors.New("already registered for this tournament")
	ErrAlreadyReferred   = errors.New("user already has a referrer")
	ErrAlreadyProcessed  = errors.New("withdrawal already processed")
	ErrSelfReferral      = errors.New("cannot refer yourself")
	ErrInvalidCode       = errors.New("invalid referral code")
	ErrNotRegistered     = errors.New("not registered for this tournament")
	ErrForbidden         = errors.New("admin privileges required")
	ErrValidation        = errors.New("validation failed")
)

// ErrorCode maps a known validation failure to its wire code. Returns ""
// for unknown errors (treated as storage_unavailable upstream).
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, ErrBelowMinimum):
		return "below_minimum"
	case errors.Is(err, ErrTapsExhausted):
		return "taps_exhausted"
	case errors.Is(err, ErrTaskInactive):
		return "task_inactive"
	case errors.Is(err, ErrGameInactive):
		return "game_inactive"
	case errors.Is(err, ErrTournamentClosed):
		return "tournament_closed"
	case errors.Is(err, ErrAlreadyCompleted):
		return "already_completed"
	case errors.Is(err, ErrAlreadyRegistered):
		return "already_registered"
	case errors.Is(err, ErrAlreadyReferred):
		return "already_referred"
	case errors.Is(err, ErrAlreadyProcessed):
		return "already_processed"
	case errors.Is(err, ErrSelfReferral):
		return "self_referral"
	case errors.Is(err, ErrInvalidCode):
		return "invalid_code"
	case errors.Is(err, ErrNotRegistered):
		return "not_registered"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrValidation):
		return "validation_failed"
	}
	return ""
}

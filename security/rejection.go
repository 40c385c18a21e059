package security

import "fmt"

// Rejection reasons used for incident records and metrics labels.
const (
	ReasonUnauthorized  = "unauthorized_operation"
	ReasonInjection     = "injection_detected"
	ReasonTooComplex    = "query_too_complex"
	ReasonRateLimited   = "rate_limited"
	ReasonEmergencyMode = "emergency_mode"
	ReasonTimeout       = "timeout"
)

// Rejection is the structured failure returned when the guard refuses or
// abandons a query. Reason is a stable machine-readable label; Message is
// the human-readable explanation. Score and Threshold are populated for
// complexity rejections.
type Rejection struct {
	Reason    string
	Message   string
	Score     int
	Threshold int
	Err       error
}

func (r *Rejection) Error() string {
	if r.Reason == ReasonTooComplex {
		return fmt.Sprintf("query rejected (%s): %s (score %d, threshold %d)",
			r.Reason, r.Message, r.Score, r.Threshold)
	}
	return fmt.Sprintf("query rejected (%s): %s", r.Reason, r.Message)
}

func (r *Rejection) Unwrap() error {
	return r.Err
}

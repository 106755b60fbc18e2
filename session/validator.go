package session

import "time"

// Validation is the structured verdict on a token. Decode failures are folded
// into it rather than surfaced as errors: a token the codec cannot read is
// simply not a session.
type Validation struct {
	Valid   bool
	Expired bool
	// RemainingSeconds is clamped to zero for display; HasRemaining is false
	// for tokens without an expiry claim.
	RemainingSeconds int64
	HasRemaining     bool
	Identity         Identity
}

type Validator struct {
	codec Codec
	now   func() time.Time
}

func NewValidator() *Validator {
	return &Validator{now: time.Now}
}

func (v *Validator) Validate(tokenValue string) Validation {
	if tokenValue == "" {
		return Validation{Valid: false, Expired: true}
	}
	claims, err := v.codec.Decode(tokenValue)
	if err != nil {
		return Validation{Valid: false, Expired: true}
	}
	remaining, ok := claims.RemainingSeconds(v.now())
	if !ok {
		// No exp claim: the token never lapses on this side.
		return Validation{Valid: true, Identity: claims.Identity()}
	}
	return Validation{
		Valid:            true,
		Expired:          remaining <= 0,
		RemainingSeconds: max(remaining, 0),
		HasRemaining:     true,
		Identity:         claims.Identity(),
	}
}

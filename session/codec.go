package session

import (
	"fmt"

	jwtgo "github.com/golang-jwt/jwt/v5"
)

// Codec reads the claims segment of a bearer token. It establishes shape,
// not trust: the signature segment is never verified here, that is the
// issuing server's job. Anything that is not three dot-separated segments
// with a decodable JSON payload in the middle comes back as ErrMalformedToken,
// never as a panic.
type Codec struct{}

func (Codec) Decode(tokenValue string) (Claims, error) {
	if tokenValue == "" {
		return Claims{}, fmt.Errorf("%w: empty token", ErrMalformedToken)
	}
	raw := jwtgo.MapClaims{}
	if _, _, err := jwtgo.NewParser().ParseUnverified(tokenValue, raw); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return claimsFromJWT(raw), nil
}

package session

import (
	"encoding/json"
	"strconv"
	"time"

	jwtgo "github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of a bearer token. The auth server issues
// tokens with Spanish claim names (correo, nombre, rol); older ones carry the
// English equivalents, so both spellings are accepted on read.
type Claims struct {
	Subject   string
	Email     string
	Name      string
	Phone     string
	Role      string
	JTI       string
	ExpiresAt time.Time // zero when the token carries no expiry
	Values    map[string]any
}

func (c Claims) Value(key string) (any, bool) {
	v, ok := c.Values[key]
	return v, ok
}

func (c Claims) HasExpiry() bool {
	return !c.ExpiresAt.IsZero()
}

// RemainingSeconds reports whole seconds of validity left at the given
// instant, floored, so a token half a second past its expiry reads as -1 and
// one half a second before it reads as 0. ok is false when the token has no
// expiry at all; the caller decides what that means.
func (c Claims) RemainingSeconds(now time.Time) (int64, bool) {
	if !c.HasExpiry() {
		return 0, false
	}
	return floorDiv(c.ExpiresAt.UnixMilli()-now.UnixMilli(), 1000), true
}

func (c Claims) Identity() Identity {
	return Identity{
		ID:    c.Subject,
		Email: c.Email,
		Name:  c.Name,
		Phone: c.Phone,
		Role:  c.Role,
	}
}

func claimsFromJWT(raw jwtgo.MapClaims) Claims {
	c := Claims{Values: map[string]any(raw)}
	c.Subject = stringClaim(raw, "sub", "id")
	c.Email = stringClaim(raw, "correo", "email")
	c.Name = stringClaim(raw, "nombre", "name")
	c.Phone = stringClaim(raw, "telefono", "phone")
	c.Role = stringClaim(raw, "rol", "role")
	c.JTI = stringClaim(raw, "jti")
	if exp, err := raw.GetExpirationTime(); err == nil && exp != nil {
		c.ExpiresAt = exp.Time
	}
	return c
}

func stringClaim(raw jwtgo.MapClaims, keys ...string) string {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

package session

import "errors"

var ErrMalformedToken = errors.New("session: malformed token")
var ErrRevocationCacheMiss = errors.New("session: revocation cache miss")
var ErrMissingTokenExp = errors.New("session: missing exp in token")
var ErrRevocationStoreNotConfigured = errors.New("session: revocation store not configured")

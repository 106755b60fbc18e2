package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newObservedLogger(wrap func(zapcore.Core) zapcore.Core) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(wrap(core)), logs
}

func TestRedactCredentialsCore(t *testing.T) {
	logger, logs := newObservedLogger(RedactCredentialsCore)

	logger.Info("login attempt",
		zap.String("correo", "ana@beneficios.example"),
		zap.String("password", "secreta"),
		zap.String("token", "header.payload.sig"),
		zap.String("authorization", "Bearer x"),
	)

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "ana@beneficios.example", fields["correo"])
	assert.NotContains(t, fields, "password")
	assert.NotContains(t, fields, "token")
	assert.NotContains(t, fields, "authorization")
}

func TestRedactFieldsCoreWith(t *testing.T) {
	logger, logs := newObservedLogger(func(core zapcore.Core) zapcore.Core {
		return RedactFieldsCore(core, "secret")
	})

	logger.With(zap.String("secret", "x"), zap.String("request_id", "r-1")).Info("handled")

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "r-1", fields["request_id"])
	assert.NotContains(t, fields, "secret")
}

package log

import "go.uber.org/zap/zapcore"

// Credential material must never reach the log sink, whatever the call site
// passes. RedactCredentialsCore drops fields with these keys before writing.
var credentialFieldKeys = []string{"password", "token", "authorization"}

func RedactCredentialsCore(core zapcore.Core) zapcore.Core {
	return redactCore{Core: core, drop: makeDropSet(credentialFieldKeys)}
}

// RedactFieldsCore drops fields with matching keys before writing to the core.
func RedactFieldsCore(core zapcore.Core, dropKeys ...string) zapcore.Core {
	return redactCore{Core: core, drop: makeDropSet(dropKeys)}
}

type redactCore struct {
	zapcore.Core
	drop map[string]struct{}
}

func (c redactCore) With(fields []zapcore.Field) zapcore.Core {
	return redactCore{
		Core: c.Core.With(dropFields(fields, c.drop)),
		drop: c.drop,
	}
}

func (c redactCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	return c.Core.Write(ent, dropFields(fields, c.drop))
}

func makeDropSet(keys []string) map[string]struct{} {
	if len(keys) == 0 {
		return nil
	}
	drop := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if key == "" {
			continue
		}
		drop[key] = struct{}{}
	}
	return drop
}

func dropFields(fields []zapcore.Field, drop map[string]struct{}) []zapcore.Field {
	if len(fields) == 0 || len(drop) == 0 {
		return fields
	}
	out := make([]zapcore.Field, 0, len(fields))
	for _, field := range fields {
		if _, ok := drop[field.Key]; ok {
			continue
		}
		out = append(out, field)
	}
	return out
}

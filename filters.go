package timings

import (
	"strings"

	"github.com/spf13/cast"
)

// redactedValue replaces values passed through the redact filter.
const redactedValue = "***"

// builtinMappers returns the global-scope callback table.
func builtinMappers() map[string]Mapper {
	return map[string]Mapper{
		FilterTrim:        stringFilter(strings.TrimSpace),
		FilterLower:       stringFilter(strings.ToLower),
		FilterJoin:        joinFilter,
		FilterRedact:      redactFilter,
		FilterHashSHA256:  hashFilter(SHA256Hasher()),
		FilterHashBLAKE2b: hashFilter(BLAKE2bHasher()),
	}
}

// stringFilter applies fn to string values and leaves everything else alone.
func stringFilter(fn func(string) string) Mapper {
	return func(raw any, _ *Context) (any, error) {
		if s, ok := raw.(string); ok {
			return fn(s), nil
		}
		return raw, nil
	}
}

// joinFilter collapses list-shaped values into "a, b, c". Scalars pass through.
func joinFilter(raw any, _ *Context) (any, error) {
	entries, ok := entriesOf(raw)
	if !ok {
		return raw, nil
	}
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if s, ok := scalarString(e.value); ok {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", "), nil
}

// redactFilter replaces every present value.
func redactFilter(raw any, _ *Context) (any, error) {
	if raw == nil {
		return nil, nil
	}
	return redactedValue, nil
}

// scalarString renders a scalar as a string. Composites and nil report false.
func scalarString(raw any) (string, bool) {
	if raw == nil || isComposite(raw) {
		return "", false
	}
	s, err := cast.ToStringE(raw)
	if err != nil {
		return "", false
	}
	return s, true
}

package timings

// Builtin filter names, registered in the global callback scope.
// Use them in struct tags: `filter:"trim"`
const (
	// FilterTrim trims surrounding whitespace from string values.
	FilterTrim = "trim"

	// FilterLower lowercases string values.
	FilterLower = "lower"

	// FilterJoin joins list-shaped values into one comma separated string.
	FilterJoin = "join"

	// FilterRedact replaces any present value with "***".
	FilterRedact = "redact"

	// FilterHashSHA256 replaces values with their hex SHA-256 digest.
	FilterHashSHA256 = "hash.sha256"

	// FilterHashBLAKE2b replaces values with their hex BLAKE2b-256 digest.
	FilterHashBLAKE2b = "hash.blake2b"
)

// builtinFilters contains every builtin filter name.
var builtinFilters = map[string]bool{
	FilterTrim:        true,
	FilterLower:       true,
	FilterJoin:        true,
	FilterRedact:      true,
	FilterHashSHA256:  true,
	FilterHashBLAKE2b: true,
}

// IsBuiltinFilter returns true if name is one of the builtin filters.
func IsBuiltinFilter(name string) bool {
	return builtinFilters[name]
}

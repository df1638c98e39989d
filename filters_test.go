package timings

import (
	"testing"
)

func TestBuiltinFilters(t *testing.T) {
	mappers := builtinMappers()

	tests := []struct {
		name   string
		filter string
		input  any
		want   any
	}{
		{"trim string", FilterTrim, "  Survival  ", "Survival"},
		{"trim non-string", FilterTrim, int64(3), int64(3)},
		{"lower", FilterLower, "World_Nether", "world_nether"},
		{"join list", FilterJoin, []any{"A Minecraft", "Server"}, "A Minecraft, Server"},
		{"join mixed", FilterJoin, []any{"a", int64(1), nil, []any{"x"}}, "a, 1"},
		{"join scalar", FilterJoin, "sk89q", "sk89q"},
		{"join empty", FilterJoin, []any{}, ""},
		{"redact", FilterRedact, "secret", "***"},
		{"redact nil", FilterRedact, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fn, ok := mappers[tt.filter]
			if !ok {
				t.Fatalf("filter %q not registered", tt.filter)
			}
			got, err := fn(tt.input, nil)
			if err != nil {
				t.Fatalf("filter error: %v", err)
			}
			if got != tt.want {
				t.Errorf("%s(%v) = %v, want %v", tt.filter, tt.input, got, tt.want)
			}
		})
	}
}

func TestJoinFilter_Object(t *testing.T) {
	o := NewObject()
	o.Set("first", "zenexer")
	o.Set("second", "md678685")

	got, err := joinFilter(o, nil)
	if err != nil {
		t.Fatalf("joinFilter() error: %v", err)
	}
	if got != "zenexer, md678685" {
		t.Errorf("joinFilter() = %v, want %q", got, "zenexer, md678685")
	}
}

func TestScalarString(t *testing.T) {
	tests := []struct {
		input any
		want  string
		ok    bool
	}{
		{"s", "s", true},
		{int64(42), "42", true},
		{1.5, "1.5", true},
		{true, "true", true},
		{nil, "", false},
		{[]any{"a"}, "", false},
		{NewObject(), "", false},
	}

	for _, tt := range tests {
		got, ok := scalarString(tt.input)
		if got != tt.want || ok != tt.ok {
			t.Errorf("scalarString(%v) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

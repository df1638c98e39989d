package timings

import (
	"errors"
	"reflect"
	"testing"

	"github.com/zoobzio/sentinel"
)

type directiveFixture struct {
	Named    string `json:"named,omitempty"`
	Plain    int
	Keyed    string                     `index:"@key"`
	Computed string                     `index:"Region::id" filter:"trim"`
	Skipped  string                     `index:"-"`
	Nested   *directiveNested           `index:"nested" mapper:"decode"`
	Entries  *Mapping[*directiveNested] `index:"entries" keymapper:"Region::key"`
	Counts   *Mapping[int]              `index:"counts"`
	Scalars  []string                   `index:"scalars"`
	Hidden   string                     `json:"-"`
}

type directiveNested struct {
	Name string
}

type badDirectives struct {
	ByValue   Mapping[int] `index:"v"`
	KeyScalar string       `keymapper:"Region::key"`
	BadRef    string       `index:"a::b::c"`
	BadFilter string       `filter:"::trim"`
}

func fieldDirective(t *testing.T, typ reflect.Type, name string) (fieldPlan, bool, error) {
	t.Helper()
	sf, ok := typ.FieldByName(name)
	if !ok {
		t.Fatalf("no field %s", name)
	}
	return resolveDirective(typ.Name(), sentinel.FieldMetadata{Tags: map[string]string{}}, sf)
}

func TestResolveDirective(t *testing.T) {
	typ := reflect.TypeFor[directiveFixture]()

	tests := []struct {
		field string
		want  Directive
		elem  reflect.Type
	}{
		{"Named", Directive{Field: "Named", Source: "named"}, nil},
		{"Plain", Directive{Field: "Plain", Source: "Plain"}, nil},
		{"Hidden", Directive{Field: "Hidden", Source: "Hidden"}, nil},
		{"Keyed", Directive{Field: "Keyed", Source: SourceKey}, nil},
		{"Computed", Directive{Field: "Computed", Source: "Region::id", Filter: "trim"}, nil},
		{"Nested", Directive{Field: "Nested", Source: "nested", Mapper: "decode"}, reflect.TypeFor[directiveNested]()},
		{"Entries", Directive{Field: "Entries", Source: "entries", Array: true, KeyMapper: "Region::key"}, reflect.TypeFor[directiveNested]()},
		{"Counts", Directive{Field: "Counts", Source: "counts", Array: true}, nil},
		{"Scalars", Directive{Field: "Scalars", Source: "scalars"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			plan, skip, err := fieldDirective(t, typ, tt.field)
			if err != nil {
				t.Fatalf("resolveDirective() error: %v", err)
			}
			if skip {
				t.Fatal("resolveDirective() skip = true, want false")
			}
			if plan.directive != tt.want {
				t.Errorf("directive = %+v, want %+v", plan.directive, tt.want)
			}
			if plan.elem != tt.elem {
				t.Errorf("elem = %v, want %v", plan.elem, tt.elem)
			}
		})
	}
}

func TestResolveDirective_Skip(t *testing.T) {
	_, skip, err := fieldDirective(t, reflect.TypeFor[directiveFixture](), "Skipped")
	if err != nil {
		t.Fatalf("resolveDirective() error: %v", err)
	}
	if !skip {
		t.Error(`index:"-" should skip the field`)
	}
}

func TestResolveDirective_MetadataTagsWin(t *testing.T) {
	sf, _ := reflect.TypeFor[directiveFixture]().FieldByName("Plain")
	fm := sentinel.FieldMetadata{Tags: map[string]string{tagIndex: "plain", tagFilter: "lower"}}

	plan, _, err := resolveDirective("directiveFixture", fm, sf)
	if err != nil {
		t.Fatalf("resolveDirective() error: %v", err)
	}
	if plan.directive.Source != "plain" || plan.directive.Filter != "lower" {
		t.Errorf("directive = %+v, want source plain and filter lower", plan.directive)
	}
}

func TestResolveDirective_Invalid(t *testing.T) {
	typ := reflect.TypeFor[badDirectives]()

	for _, field := range []string{"ByValue", "KeyScalar", "BadRef", "BadFilter"} {
		t.Run(field, func(t *testing.T) {
			_, _, err := fieldDirective(t, typ, field)
			if !errors.Is(err, ErrInvalidTag) {
				t.Fatalf("resolveDirective() error = %v, want ErrInvalidTag", err)
			}
			var ce *ConfigError
			if !errors.As(err, &ce) || ce.Field != field || ce.Type != "badDirectives" {
				t.Errorf("ConfigError = %+v, want field %s of badDirectives", ce, field)
			}
		})
	}
}

func TestJSONName(t *testing.T) {
	type sample struct {
		A string `json:"alpha,omitempty"`
		B string `json:"-"`
		C string `json:",omitempty"`
		D string
	}
	typ := reflect.TypeFor[sample]()

	want := map[string]string{"A": "alpha", "B": "B", "C": "C", "D": "D"}
	for field, name := range want {
		sf, _ := typ.FieldByName(field)
		if got := jsonName(sf); got != name {
			t.Errorf("jsonName(%s) = %q, want %q", field, got, name)
		}
	}
}

func TestStructOf(t *testing.T) {
	nested := reflect.TypeFor[directiveNested]()

	tests := []struct {
		in   reflect.Type
		want reflect.Type
	}{
		{nested, nested},
		{reflect.PointerTo(nested), nested},
		{reflect.TypeFor[int](), nil},
		{reflect.TypeFor[[]directiveNested](), nil},
		{reflect.TypeFor[**directiveNested](), nil},
	}

	for _, tt := range tests {
		if got := structOf(tt.in); got != tt.want {
			t.Errorf("structOf(%s) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

package bson

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/zoobzio/timings"
)

func TestNew(t *testing.T) {
	d := New()
	if d == nil {
		t.Error("New() should return non-nil decoder")
	}
}

func TestContentType(t *testing.T) {
	d := New()
	if d.ContentType() != "application/bson" {
		t.Errorf("ContentType() = %q, want %q", d.ContentType(), "application/bson")
	}
}

func TestDecodeKeepsKeyOrder(t *testing.T) {
	data, err := bson.Marshal(bson.D{
		{Key: "zeta", Value: int32(1)},
		{Key: "alpha", Value: "a"},
		{Key: "mid", Value: true},
	})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	v, err := New().Decode(data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	obj, ok := v.(*timings.Object)
	if !ok {
		t.Fatalf("Decode() = %T, want *timings.Object", v)
	}

	want := []string{"zeta", "alpha", "mid"}
	i := 0
	for p := obj.Oldest(); p != nil; p = p.Next() {
		if p.Key != want[i] {
			t.Errorf("key %d = %q, want %q", i, p.Key, want[i])
		}
		i++
	}

	if got, _ := obj.Get("zeta"); got != int64(1) {
		t.Errorf("zeta = %#v, want int64(1)", got)
	}
}

func TestDecodeNested(t *testing.T) {
	data, err := bson.Marshal(bson.D{
		{Key: "history", Value: bson.D{
			{Key: "region-1", Value: bson.D{{Key: "ticks", Value: int64(5)}}},
		}},
		{Key: "list", Value: bson.A{"a", 1.5, nil}},
	})
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}

	v, err := New().Decode(data)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	obj := v.(*timings.Object)

	history, _ := obj.Get("history")
	h, ok := history.(*timings.Object)
	if !ok {
		t.Fatalf("history = %T, want *timings.Object", history)
	}
	r, _ := h.Get("region-1")
	if ticks, _ := r.(*timings.Object).Get("ticks"); ticks != int64(5) {
		t.Errorf("ticks = %#v, want int64(5)", ticks)
	}

	raw, _ := obj.Get("list")
	list, ok := raw.([]any)
	if !ok || len(list) != 3 {
		t.Fatalf("list = %#v, want 3 items", raw)
	}
	if list[1] != 1.5 {
		t.Errorf("list[1] = %#v, want 1.5", list[1])
	}
	if list[2] != nil {
		t.Errorf("list[2] = %#v, want nil", list[2])
	}
}

func TestDecodeInvalid(t *testing.T) {
	d := New()

	if _, err := d.Decode([]byte("invalid bson")); err == nil {
		t.Error("Decode(invalid) should return error")
	}
}

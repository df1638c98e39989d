package testing

import (
	"testing"

	"github.com/zoobzio/timings"
	"github.com/zoobzio/timings/json"
	"github.com/zoobzio/timings/report"
)

func TestSampleReportDecodes(t *testing.T) {
	v, err := json.New().Decode(SampleReport())
	if err != nil {
		t.Fatalf("Decode(SampleReport()) error: %v", err)
	}
	if _, ok := v.(*timings.Object); !ok {
		t.Errorf("SampleReport() decodes to %T, want *timings.Object", v)
	}
}

func TestNewReportEngine(t *testing.T) {
	e := NewReportEngine(t)
	if e == nil {
		t.Fatal("NewReportEngine() returned nil")
	}
	if _, ok := e.Registry().Lookup("TimingsMaster"); !ok {
		t.Error("NewReportEngine() registry is missing TimingsMaster")
	}
	other := NewReportEngine(t)
	if other.Registry() == e.Registry() {
		t.Error("NewReportEngine() should return independent registries")
	}
}

func TestEncodersKeepOrder(t *testing.T) {
	obj := timings.NewObject()
	obj.Set("zeta", int64(1))
	obj.Set("alpha", []any{"a", 1.5})

	for name, encode := range map[string]func(any) ([]byte, error){
		"yaml":    ToYAML,
		"msgpack": ToMsgpack,
		"bson":    ToBSON,
	} {
		data, err := encode(obj)
		if err != nil {
			t.Errorf("%s encode error: %v", name, err)
			continue
		}
		if len(data) == 0 {
			t.Errorf("%s encode returned no data", name)
		}
	}
}

func TestToBSONRejectsScalars(t *testing.T) {
	if _, err := ToBSON("scalar"); err == nil {
		t.Error("ToBSON(scalar) should return error")
	}
}

func TestFingerprintOfSample(t *testing.T) {
	id := report.Fingerprint(SampleReport())
	if len(id) != 64 {
		t.Errorf("Fingerprint() length = %d, want 64", len(id))
	}
}

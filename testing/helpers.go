// Package testing provides fixtures and helpers for timings tests.
package testing

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/zoobzio/timings"
	"github.com/zoobzio/timings/report"
	"go.mongodb.org/mongo-driver/bson"
	"gopkg.in/yaml.v3"
)

// sampleReport is a small but complete report. The second history uses the
// legacy long keys.
const sampleReport = `{
  "version": "git-Paper-1.12.2",
  "server": "  Survival  ",
  "motd": ["A Minecraft", "Server"],
  "maxplayers": 50,
  "onlinemode": true,
  "start": 1000,
  "end": 1600,
  "sampletime": 600,
  "icon": "iVBORw0KGgo=",
  "system": {
    "timingcost": 120,
    "loadavg": 1.25,
    "name": "Linux",
    "version": "5.4",
    "jvmversion": "1.8.0_252",
    "arch": "amd64",
    "maxmem": 4096,
    "cpu": 4,
    "runtime": 360000,
    "flags": " -Xmx4G ",
    "gc": {"G1 Young Generation": [12, 340], "G1 Old Generation": [0, 0]}
  },
  "idmap": {
    "groups": {"1": "Minecraft", "2": "Essentials"},
    "handlers": {"1": [1, "Full Server Tick"], "2": [1, " Entity Tick "], "3": [2, "Command: home"]},
    "worlds": {"0": "world", "1": "world_nether"},
    "tileentity": {"10": "Chest"},
    "entity": {"20": "Zombie", "21": "Cow"}
  },
  "plugins": {
    "Essentials": {
      "version": "2.17",
      "description": " Essential commands ",
      "website": "https://essentialsx.net",
      "authors": ["zenexer", "md678685"]
    },
    "WorldEdit": {"version": "7.1", "authors": "sk89q"}
  },
  "data": [
    {
      "s": 1000, "e": 1300, "tk": 6000, "tm": 300000,
      "w": {"0": {"0:0": [0, 0, {"20": 3, "21": 2}, {"10": 1}], "1:2": [16, 32, {}, []]}},
      "h": [[1, 6000, 250000, 2, 900], [2, 6000, 120000, 0, 0, [[3, 10, 500]]]],
      "mp": [[1060, 19.98, 42.5, [1, 1200, 50000], [1200, 5, 40, 30, 12]]]
    },
    {
      "start": 1300, "end": 1600, "totalTicks": 6000, "totalTime": 310000,
      "worlds": {"1": {"2:-1": [32, -16, {"20": 7}, {}]}},
      "handlers": [[1, 6000, 260000, 1, 400], [3, 4, 0, 0, 0]],
      "minuteReports": []
    }
  ],
  "config": {"spigot": {"view-distance": 10}, "bukkit": {"spawn-limits": [70, 15]}}
}`

// SampleReport returns the JSON fixture report.
func SampleReport() []byte {
	return []byte(sampleReport)
}

// NewReportEngine returns an engine over a fresh registry holding the report
// types. Each call has its own singletons.
func NewReportEngine(tb testing.TB, opts ...timings.RegistryOption) *timings.Engine {
	tb.Helper()
	reg := timings.NewRegistry(opts...)
	if err := report.Register(reg); err != nil {
		tb.Fatalf("report.Register() error: %v", err)
	}
	return timings.New(reg)
}

// ToYAML encodes a decoded value as YAML, keeping object order.
func ToYAML(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// ToMsgpack encodes a decoded value as MessagePack, keeping object order.
func ToMsgpack(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := encodeMsgpack(msgpack.NewEncoder(&buf), v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeMsgpack(enc *msgpack.Encoder, v any) error {
	switch t := v.(type) {
	case *timings.Object:
		if err := enc.EncodeMapLen(t.Len()); err != nil {
			return err
		}
		for p := t.Oldest(); p != nil; p = p.Next() {
			if err := enc.EncodeString(p.Key); err != nil {
				return err
			}
			if err := encodeMsgpack(enc, p.Value); err != nil {
				return err
			}
		}
		return nil
	case []any:
		if err := enc.EncodeArrayLen(len(t)); err != nil {
			return err
		}
		for _, item := range t {
			if err := encodeMsgpack(enc, item); err != nil {
				return err
			}
		}
		return nil
	}
	return enc.Encode(v)
}

// ToBSON encodes a decoded object as a BSON document, keeping object order.
func ToBSON(v any) ([]byte, error) {
	doc, ok := toBSON(v).(bson.D)
	if !ok {
		return nil, fmt.Errorf("bson documents must be objects, got %T", v)
	}
	return bson.Marshal(doc)
}

func toBSON(v any) any {
	switch t := v.(type) {
	case *timings.Object:
		doc := make(bson.D, 0, t.Len())
		for p := t.Oldest(); p != nil; p = p.Next() {
			doc = append(doc, bson.E{Key: p.Key, Value: toBSON(p.Value)})
		}
		return doc
	case []any:
		arr := make(bson.A, len(t))
		for i, item := range t {
			arr[i] = toBSON(item)
		}
		return arr
	}
	return v
}

// Package report declares the record types of a server timings report and
// registers them with a timings registry.
//
// A report is one TimingsMaster holding the system description, the id map
// that names handlers, worlds and entities, the installed plugins and a list
// of timing histories sampled over the report period.
package report

import (
	"github.com/zoobzio/timings"
)

// Class tags of the report types. Published values; never reassign.
const (
	TagMinuteReport      = 1
	TagPlugin            = 2
	TagRegion            = 3
	TagTicksRecord       = 4
	TagTimingData        = 5
	TagTimingHandler     = 6
	TagTimingHistory     = 7
	TagTimingIdentity    = 8
	TagTimingsMap        = 9
	TagTimingsMaster     = 10
	TagTimingsSystemData = 11
	TagWorld             = 12
)

// TimingsMaster is the root of a report. It is a process-wide singleton:
// every parse refreshes the same instance.
type TimingsMaster struct {
	timings.Tagged `json:"-" yaml:"-"`

	Version    string                           `index:"version" yaml:"version"`
	Server     string                           `index:"server" filter:"trim" yaml:"server"`
	MOTD       string                           `index:"motd" filter:"join" yaml:"motd"`
	MaxPlayers int                              `index:"maxplayers" yaml:"maxplayers"`
	OnlineMode bool                             `index:"onlinemode" yaml:"onlinemode"`
	Start      int64                            `index:"start" yaml:"start"`
	End        int64                            `index:"end" yaml:"end"`
	SampleTime int64                            `index:"sampletime" yaml:"sampletime"`
	IconHash   string                           `index:"icon" filter:"hash.blake2b" yaml:"icon,omitempty"`
	System     *TimingsSystemData               `index:"system" yaml:"system"`
	IDMap      *TimingsMap                      `index:"idmap" yaml:"idmap"`
	Plugins    *timings.Mapping[*Plugin]        `index:"plugins" yaml:"plugins"`
	Data       *timings.Mapping[*TimingHistory] `index:"data" yaml:"data"`
	Config     any                              `index:"config" yaml:"config,omitempty"`

	// Derived by Init.
	Duration int64 `index:"-" yaml:"duration"`
}

// Init derives the report duration.
func (m *TimingsMaster) Init() error {
	m.Duration = 0
	if m.End > m.Start {
		m.Duration = m.End - m.Start
	}
	return nil
}

// TimingsSystemData describes the host the report was recorded on.
type TimingsSystemData struct {
	timings.Tagged `json:"-" yaml:"-"`

	TimingCost int64                     `index:"timingcost" yaml:"timingcost"`
	LoadAvg    float64                   `index:"loadavg" yaml:"loadavg"`
	Name       string                    `index:"name" yaml:"name"`
	Version    string                    `index:"version" yaml:"version"`
	JVMVersion string                    `index:"jvmversion" yaml:"jvmversion"`
	Arch       string                    `index:"arch" yaml:"arch"`
	MaxMem     int64                     `index:"maxmem" yaml:"maxmem"`
	CPU        int                       `index:"cpu" yaml:"cpu"`
	Runtime    int64                     `index:"runtime" yaml:"runtime"`
	Flags      string                    `index:"flags" filter:"trim" yaml:"flags"`
	GC         *timings.Mapping[*GCStat] `index:"gc" yaml:"gc"`
}

// GCStat is one garbage collector's totals, encoded as [count, time].
type GCStat struct {
	Name  string `index:"@key" yaml:"name"`
	Count int64  `index:"0" yaml:"count"`
	Time  int64  `index:"1" yaml:"time"`
}

// TimingsMap names the numeric ids used throughout the histories. It is a
// process-wide singleton shared by every report parsed.
type TimingsMap struct {
	timings.Tagged `json:"-" yaml:"-"`

	Groups       *timings.Mapping[string]          `index:"groups" yaml:"groups"`
	Handlers     *timings.Mapping[*TimingIdentity] `index:"handlers" yaml:"handlers"`
	Worlds       *timings.Mapping[string]          `index:"worlds" yaml:"worlds"`
	TileEntities *timings.Mapping[string]          `index:"tileentity" yaml:"tileentity"`
	Entities     *timings.Mapping[string]          `index:"entity" yaml:"entity"`
}

// TimingIdentity names a handler id, encoded as [groupId, name].
type TimingIdentity struct {
	timings.Tagged `json:"-" yaml:"-"`

	ID      string `index:"@key" yaml:"id"`
	GroupID int    `index:"0" yaml:"group_id"`
	Name    string `index:"1" filter:"trim" yaml:"name"`
	Group   string `index:"TimingIdentity::group" yaml:"group"`
}

// Plugin is an installed plugin, keyed by its name.
type Plugin struct {
	timings.Tagged `json:"-" yaml:"-"`

	Name        string `index:"@key" yaml:"name"`
	Version     string `index:"version" yaml:"version"`
	Description string `index:"description" filter:"trim" yaml:"description"`
	Website     string `index:"website" yaml:"website"`
	Authors     string `index:"authors" filter:"join" yaml:"authors"`
}

// TimingHistory is one sampling period. Older reports spell the keys out
// in full; the class mapper folds them into the short form.
type TimingHistory struct {
	timings.Tagged `json:"-" yaml:"-"`

	Start         int64                            `index:"s" yaml:"start"`
	End           int64                            `index:"e" yaml:"end"`
	TotalTicks    int64                            `index:"tk" yaml:"ticks"`
	TotalTime     int64                            `index:"tm" yaml:"time"`
	Worlds        *timings.Mapping[*World]         `index:"w" keymapper:"World::byName" yaml:"worlds"`
	Handlers      *timings.Mapping[*TimingHandler] `index:"h" keymapper:"TimingHandler::byID" yaml:"handlers"`
	MinuteReports *timings.Mapping[*MinuteReport]  `index:"mp" yaml:"minute_reports"`

	// Derived by Init.
	AvgTickTime float64 `index:"-" yaml:"avg_tick_time"`
}

// Init derives the mean tick duration.
func (h *TimingHistory) Init() error {
	h.AvgTickTime = 0
	if h.TotalTicks > 0 {
		h.AvgTickTime = float64(h.TotalTime) / float64(h.TotalTicks)
	}
	return nil
}

// World is the loaded regions of one world, keyed by world id.
type World struct {
	timings.Tagged `json:"-" yaml:"-"`

	ID      string                    `index:"@key" yaml:"id"`
	Name    string                    `index:"World::name" yaml:"name"`
	Regions *timings.Mapping[*Region] `index:"@value" keymapper:"Region::key" yaml:"regions"`
}

// Region is a loaded region, encoded as [chunkX, chunkZ, entities, tileEntities].
type Region struct {
	timings.Tagged `json:"-" yaml:"-"`

	Key          string                `index:"@key" yaml:"-"`
	ChunkX       int                   `index:"0" yaml:"x"`
	ChunkZ       int                   `index:"1" yaml:"z"`
	ID           string                `index:"Region::id" yaml:"id"`
	Entities     *timings.Mapping[int] `index:"2" keymapper:"Region::entityName" yaml:"entities"`
	TileEntities *timings.Mapping[int] `index:"3" keymapper:"Region::tileEntityName" yaml:"tile_entities"`

	// Derived by Init.
	EntityCount int `index:"-" yaml:"entity_count"`
}

// Init totals the entity counts.
func (r *Region) Init() error {
	r.EntityCount = 0
	for _, n := range r.Entities.All() {
		r.EntityCount += n
	}
	for _, n := range r.TileEntities.All() {
		r.EntityCount += n
	}
	return nil
}

// TimingHandler is a top-level handler sample, encoded as
// [id, count, total, lagCount, lagTotal, children].
type TimingHandler struct {
	timings.Tagged `json:"-" yaml:"-"`

	ID       int                           `index:"0" yaml:"id"`
	Count    int64                         `index:"1" yaml:"count"`
	Total    int64                         `index:"2" yaml:"total"`
	LagCount int64                         `index:"3" yaml:"lag_count"`
	LagTotal int64                         `index:"4" yaml:"lag_total"`
	Children *timings.Mapping[*TimingData] `index:"5" keymapper:"TimingData::byID" yaml:"children"`
	Identity *TimingIdentity               `index:"TimingHandler::identity" yaml:"identity,omitempty"`

	// Derived by Init.
	Avg    float64 `index:"-" yaml:"avg"`
	LagAvg float64 `index:"-" yaml:"lag_avg"`
}

// Init derives the mean durations.
func (h *TimingHandler) Init() error {
	h.Avg, h.LagAvg = 0, 0
	if h.Count > 0 {
		h.Avg = float64(h.Total) / float64(h.Count)
	}
	if h.LagCount > 0 {
		h.LagAvg = float64(h.LagTotal) / float64(h.LagCount)
	}
	return nil
}

// TimingData is a child sample of a handler, encoded as
// [id, count, total, lagCount, lagTotal].
type TimingData struct {
	timings.Tagged `json:"-" yaml:"-"`

	ID       int   `index:"0" yaml:"id"`
	Count    int64 `index:"1" yaml:"count"`
	Total    int64 `index:"2" yaml:"total"`
	LagCount int64 `index:"3" yaml:"lag_count"`
	LagTotal int64 `index:"4" yaml:"lag_total"`
}

// MinuteReport is one minute of server health, encoded as
// [time, tps, avgPing, fullServerTick, ticks].
type MinuteReport struct {
	timings.Tagged `json:"-" yaml:"-"`

	Time           int64        `index:"0" yaml:"time"`
	TPS            float64      `index:"1" yaml:"tps"`
	AvgPing        float64      `index:"2" yaml:"avg_ping"`
	FullServerTick *TimingData  `index:"3" yaml:"full_server_tick"`
	Ticks          *TicksRecord `index:"4" yaml:"ticks"`
}

// TicksRecord counts what was ticked during a minute, encoded as
// [timed, player, entity, activatedEntity, tileEntity].
type TicksRecord struct {
	timings.Tagged `json:"-" yaml:"-"`

	Timed           int64 `index:"0" yaml:"timed"`
	Player          int64 `index:"1" yaml:"player"`
	Entity          int64 `index:"2" yaml:"entity"`
	ActivatedEntity int64 `index:"3" yaml:"activated_entity"`
	TileEntity      int64 `index:"4" yaml:"tile_entity"`

	// Derived by Init.
	ActiveRatio float64 `index:"-" yaml:"active_ratio"`
}

// Init derives the share of entities that were active.
func (t *TicksRecord) Init() error {
	t.ActiveRatio = 0
	if t.Entity > 0 {
		t.ActiveRatio = float64(t.ActivatedEntity) / float64(t.Entity)
	}
	return nil
}

package model

import "time"

// Snapshot is an immutable capture of normalized fabric state across all
// tracked categories. Its JSON form is the persisted snapshot document: a
// flat object keyed by category name, each value the category's normalized
// records. CapturedAt and Host travel in the snapshot filename, not in the
// document body, so a document read back from disk is used as-is without
// re-normalizing.
type Snapshot struct {
	CapturedAt time.Time `json:"-"`
	Host       string    `json:"-"`

	FabricHealth    []HealthScore    `json:"fabric_health"`
	Faults          []Fault          `json:"faults"`
	Interfaces      []InterfaceState `json:"interfaces"`
	Endpoints       []Endpoint       `json:"endpoints"`
	Routes          []Route          `json:"urib_routes"`
	InterfaceErrors []ErrorCounter   `json:"interface_errors"`
	CRCErrors       []ErrorCounter   `json:"crc_errors"`
	DropErrors      []ErrorCounter   `json:"drop_errors"`
	OutputErrors    []ErrorCounter   `json:"output_errors"`
}

// FabricHealthValue returns the fabric health score and whether the category
// was captured at all. An absent category reads as not-ok, not as zero.
func (s *Snapshot) FabricHealthValue() (int, bool) {
	if len(s.FabricHealth) == 0 {
		return 0, false
	}
	return s.FabricHealth[0].Value, true
}

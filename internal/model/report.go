package model

// HealthTransition carries the fabric health score from both snapshots
// verbatim. A nil value means the category was absent from that snapshot;
// the diff itself makes no judgment.
type HealthTransition struct {
	Before *int `json:"before"`
	After  *int `json:"after"`
}

// ValueChange is a keyed-map entry whose value differs between the two
// snapshots. Change is rendered as "{before}➜{after}".
type ValueChange struct {
	DN     string `json:"dn"`
	Change string `json:"change"`
}

// CounterChange reports a strictly increased error counter for one logical
// port. The (node, interface) pair extracted from the DN is the report key:
// two differently shaped DNs naming the same port collapse to one row.
type CounterChange struct {
	NodeID        string `json:"node_id"`
	InterfaceName string `json:"interface_name"`
	Change        string `json:"change"`
}

// InterfaceChanges groups the three interface-state outcomes.
type InterfaceChanges struct {
	StatusChanged []ValueChange `json:"status_changed"`
	Missing       []string      `json:"missing"`
	New           []string      `json:"new"`
}

// RouteChanges groups RIB membership changes.
type RouteChanges struct {
	Missing []string `json:"missing"`
	New     []string `json:"new"`
}

// DiffReport is the categorized result of comparing two snapshots. Every
// slice is sorted by its key so two identical comparisons render identically.
type DiffReport struct {
	FabricHealth          HealthTransition `json:"fabric_health"`
	NewFaults             []string         `json:"new_faults"`
	ClearedFaults         []string         `json:"cleared_faults"`
	NewEndpoints          []string         `json:"new_endpoints"`
	MissingEndpoints      []string         `json:"missing_endpoints"`
	MovedEndpoints        []ValueChange    `json:"moved_endpoints"`
	InterfaceChanges      InterfaceChanges `json:"interface_changes"`
	InterfaceErrorChanges []CounterChange  `json:"interface_error_changes"`
	CRCErrorChanges       []CounterChange  `json:"crc_error_changes"`
	DropErrorChanges      []CounterChange  `json:"drop_error_changes"`
	OutputErrorChanges    []CounterChange  `json:"output_error_changes"`
	RouteChanges          RouteChanges     `json:"urib_route_changes"`
}

// Empty reports whether the comparison found no changes in any category.
// The fabric health transition does not count: it is carried verbatim even
// when unchanged.
func (r *DiffReport) Empty() bool {
	return len(r.NewFaults) == 0 &&
		len(r.ClearedFaults) == 0 &&
		len(r.NewEndpoints) == 0 &&
		len(r.MissingEndpoints) == 0 &&
		len(r.MovedEndpoints) == 0 &&
		len(r.InterfaceChanges.StatusChanged) == 0 &&
		len(r.InterfaceChanges.Missing) == 0 &&
		len(r.InterfaceChanges.New) == 0 &&
		len(r.InterfaceErrorChanges) == 0 &&
		len(r.CRCErrorChanges) == 0 &&
		len(r.DropErrorChanges) == 0 &&
		len(r.OutputErrorChanges) == 0 &&
		len(r.RouteChanges.Missing) == 0 &&
		len(r.RouteChanges.New) == 0
}

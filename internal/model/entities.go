package model

// HealthScore is the fabric-wide health rollup, 0..100.
type HealthScore struct {
	Value int `json:"value"`
}

// Fault is one active fault instance. LastChange keeps the controller's
// timestamp string verbatim; parsing happens only where a time window is
// applied, and fails open there.
type Fault struct {
	DN          string `json:"dn"`
	Severity    string `json:"severity"`
	Code        string `json:"code"`
	Description string `json:"description"`
	LastChange  string `json:"last_change"`
}

// InterfaceState is the operational state of one physical interface.
type InterfaceState struct {
	DN        string `json:"dn"`
	OperState string `json:"oper_state"`
}

// Endpoint is one learned endpoint; IP may be empty.
type Endpoint struct {
	DN string `json:"dn"`
	IP string `json:"ip"`
}

// Route is one IPv4 unicast RIB entry.
type Route struct {
	DN string `json:"dn"`
}

// ErrorCounter is a cumulative error statistic for one interface. NodeID and
// InterfaceName are extracted from the DN; either is "Unknown" when its
// marker is absent.
type ErrorCounter struct {
	DN            string `json:"dn"`
	NodeID        string `json:"node_id"`
	InterfaceName string `json:"interface_name"`
	Count         int    `json:"count"`
}

// ControllerNode is one APIC controller. HealthText keeps the raw health
// token ("fully-fit", "degraded", ...) for display; Health is its numeric
// mapping.
type ControllerNode struct {
	Name       string `json:"name"`
	Serial     string `json:"serial"`
	IP         string `json:"ip"`
	Mode       string `json:"mode"`
	OperStatus string `json:"oper_status"`
	Health     int    `json:"health"`
	HealthText string `json:"health_text"`
}

// FabricNode is one leaf or spine switch with its health score and resource
// utilization joined in from the per-node CPU and memory statistics.
type FabricNode struct {
	Name    string  `json:"name"`
	Role    string  `json:"role"`
	Serial  string  `json:"serial"`
	IP      string  `json:"ip"`
	Version string  `json:"version"`
	Uptime  string  `json:"uptime"`
	Health  int     `json:"health"`
	CPUPct  float64 `json:"cpu_pct"`
	MemPct  float64 `json:"mem_pct"`
}

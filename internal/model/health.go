package model

import "time"

// Status is a binary check outcome.
type Status string

const (
	StatusPass Status = "PASS"
	StatusFail Status = "FAIL"
)

// Thresholds are the numeric limits a health check judges against.
type Thresholds struct {
	// Health is the minimum acceptable health score (0..100) for the
	// fabric total and for every controller and switch.
	Health int `json:"health" yaml:"health"`
	// CPUMem is the utilization percentage controllers and switches must
	// stay strictly below.
	CPUMem float64 `json:"cpu_mem" yaml:"cpu_mem"`
	// InterfaceErrors is the error count above which an interface counter
	// is reported.
	InterfaceErrors int `json:"interface" yaml:"interface_errors"`
}

// ControllerCheck summarizes controller health.
type ControllerCheck struct {
	Status   Status `json:"status"`
	Total    int    `json:"total"`
	Problems int    `json:"problems"`
}

// NodeCheck summarizes leaf/spine health and resource judgments.
type NodeCheck struct {
	Status         Status `json:"status"`
	Total          int    `json:"total"`
	HealthProblems int    `json:"health_problems"`
	CPUProblems    int    `json:"cpu_problems"`
	MemProblems    int    `json:"mem_problems"`
}

// FabricCheck carries the fabric-wide score judgment.
type FabricCheck struct {
	Status Status `json:"status"`
	Score  int    `json:"score"`
}

// FaultCheck counts active critical and major faults.
type FaultCheck struct {
	Critical int `json:"critical"`
	Major    int `json:"major"`
}

// CounterCheck summarizes one error-counter collection.
type CounterCheck struct {
	Status Status `json:"status"`
	Count  int    `json:"count"`
}

// HealthSummary is the aggregate judgment of one live check. OverallStatus
// is the logical AND of every sub-status: a single FAIL anywhere fails the
// whole check.
type HealthSummary struct {
	OverallStatus Status          `json:"overall_status"`
	Controllers   ControllerCheck `json:"apic"`
	FabricNodes   NodeCheck       `json:"leaf_spine"`
	Fabric        FabricCheck     `json:"fabric"`
	Faults        FaultCheck      `json:"faults"`
	FCSErrors     CounterCheck    `json:"fcs_errors"`
	CRCErrors     CounterCheck    `json:"crc_errors"`
	DropErrors    CounterCheck    `json:"drop_errors"`
	OutputErrors  CounterCheck    `json:"output_errors"`
	Thresholds    Thresholds      `json:"thresholds"`
}

// HealthReport bundles the normalized inputs of one live check with the
// classifier's summary, ready for rendering and export.
type HealthReport struct {
	CheckedAt    time.Time        `json:"checked_at"`
	Host         string           `json:"host"`
	Controllers  []ControllerNode `json:"controllers"`
	FabricNodes  []FabricNode     `json:"fabric_nodes"`
	Faults       []Fault          `json:"faults"`
	FabricHealth int              `json:"fabric_health"`
	FCSErrors    []ErrorCounter   `json:"fcs_errors"`
	CRCErrors    []ErrorCounter   `json:"crc_errors"`
	DropErrors   []ErrorCounter   `json:"drop_errors"`
	OutputErrors []ErrorCounter   `json:"output_errors"`
	Summary      HealthSummary    `json:"summary"`
}

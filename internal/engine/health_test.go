package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fabricsnap/fabricsnap/internal/model"
)

var testThresholds = model.Thresholds{Health: 90, CPUMem: 75, InterfaceErrors: 0}

func TestCheckControllers(t *testing.T) {
	cases := []struct {
		name         string
		nodes        []model.ControllerNode
		wantStatus   model.Status
		wantProblems int
	}{
		{
			name: "all healthy",
			nodes: []model.ControllerNode{
				{Name: "apic1", Health: 100},
				{Name: "apic2", Health: 95},
			},
			wantStatus:   model.StatusPass,
			wantProblems: 0,
		},
		{
			name: "one below threshold",
			nodes: []model.ControllerNode{
				{Name: "apic1", Health: 100},
				{Name: "apic2", Health: 50},
			},
			wantStatus:   model.StatusFail,
			wantProblems: 1,
		},
		{
			name: "exactly at threshold passes",
			nodes: []model.ControllerNode{
				{Name: "apic1", Health: 90},
			},
			wantStatus:   model.StatusPass,
			wantProblems: 0,
		},
		{
			name:         "empty cluster passes vacuously",
			nodes:        nil,
			wantStatus:   model.StatusPass,
			wantProblems: 0,
		},
	}

	c := NewClassifier(testThresholds)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := c.CheckControllers(tc.nodes)
			assert.Equal(t, tc.wantStatus, got.Status)
			assert.Equal(t, len(tc.nodes), got.Total)
			assert.Equal(t, tc.wantProblems, got.Problems)
		})
	}
}

func TestCheckFabricNodes(t *testing.T) {
	c := NewClassifier(testThresholds)

	t.Run("status reflects health only", func(t *testing.T) {
		// Hot CPU and memory on a healthy switch: counted, but the
		// collection status stays PASS.
		got := c.CheckFabricNodes([]model.FabricNode{
			{Name: "leaf-101", Health: 98, CPUPct: 92, MemPct: 88},
		})
		assert.Equal(t, model.StatusPass, got.Status)
		assert.Equal(t, 0, got.HealthProblems)
		assert.Equal(t, 1, got.CPUProblems)
		assert.Equal(t, 1, got.MemProblems)
	})

	t.Run("low health fails", func(t *testing.T) {
		got := c.CheckFabricNodes([]model.FabricNode{
			{Name: "leaf-101", Health: 89},
			{Name: "leaf-102", Health: 90},
		})
		assert.Equal(t, model.StatusFail, got.Status)
		assert.Equal(t, 1, got.HealthProblems)
		assert.Equal(t, 2, got.Total)
	})

	t.Run("utilization at threshold counts", func(t *testing.T) {
		got := c.CheckFabricNodes([]model.FabricNode{
			{Name: "leaf-101", Health: 100, CPUPct: 75, MemPct: 74.9},
		})
		assert.Equal(t, 1, got.CPUProblems)
		assert.Equal(t, 0, got.MemProblems)
	})

	t.Run("empty passes vacuously", func(t *testing.T) {
		got := c.CheckFabricNodes(nil)
		assert.Equal(t, model.StatusPass, got.Status)
		assert.Equal(t, 0, got.Total)
	})
}

func TestCheckFabric(t *testing.T) {
	c := NewClassifier(testThresholds)

	assert.Equal(t, model.FabricCheck{Status: model.StatusPass, Score: 95}, c.CheckFabric(95))
	assert.Equal(t, model.FabricCheck{Status: model.StatusPass, Score: 90}, c.CheckFabric(90))
	assert.Equal(t, model.FabricCheck{Status: model.StatusFail, Score: 89}, c.CheckFabric(89))
}

func TestCheckFaults(t *testing.T) {
	c := NewClassifier(testThresholds)

	got := c.CheckFaults([]model.Fault{
		{Severity: "critical"},
		{Severity: "Critical"},
		{Severity: "major"},
		{Severity: "minor"},
		{Severity: "warning"},
	})
	assert.Equal(t, 2, got.Critical)
	assert.Equal(t, 1, got.Major)

	assert.Equal(t, model.FaultCheck{}, c.CheckFaults(nil))
}

func TestCheckCounters(t *testing.T) {
	c := NewClassifier(testThresholds)

	assert.Equal(t, model.CounterCheck{Status: model.StatusPass, Count: 0}, c.CheckCounters(nil))
	assert.Equal(t, model.CounterCheck{Status: model.StatusFail, Count: 2}, c.CheckCounters([]model.ErrorCounter{
		{DN: "a", Count: 5},
		{DN: "b", Count: 9},
	}))
}

// greenReport builds a report every check passes on.
func greenReport() *model.HealthReport {
	return &model.HealthReport{
		Controllers: []model.ControllerNode{{Name: "apic1", Health: 100}},
		FabricNodes: []model.FabricNode{
			{Name: "leaf-101", Health: 98, CPUPct: 20, MemPct: 40},
			{Name: "spine-201", Health: 100, CPUPct: 10, MemPct: 30},
		},
		FabricHealth: 97,
	}
}

func TestSummarize_AllPass(t *testing.T) {
	c := NewClassifier(testThresholds)
	sum := c.Summarize(greenReport())

	assert.Equal(t, model.StatusPass, sum.OverallStatus)
	assert.Equal(t, model.StatusPass, sum.Controllers.Status)
	assert.Equal(t, model.StatusPass, sum.FabricNodes.Status)
	assert.Equal(t, model.StatusPass, sum.Fabric.Status)
	assert.Equal(t, model.StatusPass, sum.FCSErrors.Status)
	assert.Equal(t, testThresholds, sum.Thresholds)
}

func TestSummarize_SingleFailureFailsOverall(t *testing.T) {
	c := NewClassifier(testThresholds)

	cases := []struct {
		name   string
		mutate func(*model.HealthReport)
	}{
		{
			name: "controller unhealthy",
			mutate: func(r *model.HealthReport) {
				r.Controllers[0].Health = 50
			},
		},
		{
			name: "switch unhealthy",
			mutate: func(r *model.HealthReport) {
				r.FabricNodes[0].Health = 10
			},
		},
		{
			// Node status stays PASS; the CPU count alone must fail
			// the aggregate.
			name: "switch cpu hot",
			mutate: func(r *model.HealthReport) {
				r.FabricNodes[0].CPUPct = 99
			},
		},
		{
			name: "switch memory hot",
			mutate: func(r *model.HealthReport) {
				r.FabricNodes[0].MemPct = 80
			},
		},
		{
			name: "fabric score low",
			mutate: func(r *model.HealthReport) {
				r.FabricHealth = 70
			},
		},
		{
			name: "critical fault present",
			mutate: func(r *model.HealthReport) {
				r.Faults = []model.Fault{{DN: "fault-F1", Severity: "critical"}}
			},
		},
		{
			name: "major fault present",
			mutate: func(r *model.HealthReport) {
				r.Faults = []model.Fault{{DN: "fault-F1", Severity: "major"}}
			},
		},
		{
			name: "fcs errors present",
			mutate: func(r *model.HealthReport) {
				r.FCSErrors = []model.ErrorCounter{{DN: "a", Count: 3}}
			},
		},
		{
			name: "crc errors present",
			mutate: func(r *model.HealthReport) {
				r.CRCErrors = []model.ErrorCounter{{DN: "a", Count: 3}}
			},
		},
		{
			name: "drop errors present",
			mutate: func(r *model.HealthReport) {
				r.DropErrors = []model.ErrorCounter{{DN: "a", Count: 3}}
			},
		},
		{
			name: "output errors present",
			mutate: func(r *model.HealthReport) {
				r.OutputErrors = []model.ErrorCounter{{DN: "a", Count: 3}}
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rep := greenReport()
			tc.mutate(rep)
			sum := c.Summarize(rep)
			assert.Equal(t, model.StatusFail, sum.OverallStatus)
		})
	}
}

func TestSummarize_EmptyReportFailsOnScore(t *testing.T) {
	// A fully degraded collection pass: no data anywhere. Vacuous checks
	// keep the fabric score as the only judged value, and 0 is below the
	// health threshold.
	c := NewClassifier(testThresholds)
	sum := c.Summarize(&model.HealthReport{})

	assert.Equal(t, model.StatusFail, sum.OverallStatus)
	assert.Equal(t, model.StatusPass, sum.Controllers.Status)
	assert.Equal(t, model.StatusPass, sum.FabricNodes.Status)
	assert.Equal(t, model.StatusFail, sum.Fabric.Status)
}

func TestSummarize_ZeroThresholds(t *testing.T) {
	// Health threshold 0 accepts any score, including a missing one.
	c := NewClassifier(model.Thresholds{})
	sum := c.Summarize(&model.HealthReport{})
	assert.Equal(t, model.StatusPass, sum.OverallStatus)
}

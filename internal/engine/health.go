package engine

import (
	"strings"

	"github.com/fabricsnap/fabricsnap/internal/model"
)

// Classifier turns normalized entity collections into pass/fail judgments
// against configured thresholds. It judges a single point in time; comparing
// against an earlier state is the diff engine's job.
//
// Every per-collection check passes vacuously on an empty collection:
// absence of data shows up in the reported totals, it does not fail the
// check. Degraded categories therefore cannot flip the overall status on
// their own.
type Classifier struct {
	Thresholds model.Thresholds
}

// NewClassifier returns a Classifier judging against t.
func NewClassifier(t model.Thresholds) *Classifier {
	return &Classifier{Thresholds: t}
}

// CheckControllers passes when every controller's health score is at or
// above the health threshold.
func (c *Classifier) CheckControllers(nodes []model.ControllerNode) model.ControllerCheck {
	problems := 0
	for _, n := range nodes {
		if n.Health < c.Thresholds.Health {
			problems++
		}
	}
	return model.ControllerCheck{
		Status:   statusOf(problems == 0),
		Total:    len(nodes),
		Problems: problems,
	}
}

// CheckFabricNodes judges switch health and resource utilization. Status
// reflects health scores only; CPU and memory problems are counted here and
// judged in the overall aggregation, where utilization must stay strictly
// below the threshold.
func (c *Classifier) CheckFabricNodes(nodes []model.FabricNode) model.NodeCheck {
	var health, cpu, mem int
	for _, n := range nodes {
		if n.Health < c.Thresholds.Health {
			health++
		}
		if n.CPUPct >= c.Thresholds.CPUMem {
			cpu++
		}
		if n.MemPct >= c.Thresholds.CPUMem {
			mem++
		}
	}
	return model.NodeCheck{
		Status:         statusOf(health == 0),
		Total:          len(nodes),
		HealthProblems: health,
		CPUProblems:    cpu,
		MemProblems:    mem,
	}
}

// CheckFabric judges the fabric-wide health score.
func (c *Classifier) CheckFabric(score int) model.FabricCheck {
	return model.FabricCheck{
		Status: statusOf(score >= c.Thresholds.Health),
		Score:  score,
	}
}

// CheckFaults counts critical and major faults. The check has no status of
// its own; any nonzero count fails the overall aggregation.
func (c *Classifier) CheckFaults(faults []model.Fault) model.FaultCheck {
	var critical, major int
	for _, f := range faults {
		switch strings.ToLower(f.Severity) {
		case "critical":
			critical++
		case "major":
			major++
		}
	}
	return model.FaultCheck{Critical: critical, Major: major}
}

// CheckCounters judges one error-counter collection. Normalization already
// dropped counters at or below the interface-error threshold, so any
// remaining entry fails the check.
func (c *Classifier) CheckCounters(counters []model.ErrorCounter) model.CounterCheck {
	return model.CounterCheck{
		Status: statusOf(len(counters) == 0),
		Count:  len(counters),
	}
}

// Summarize runs every check over the report's collections and AND-reduces
// them into the overall status: controller health, switch health, CPU and
// memory utilization, the fabric score, zero critical/major faults, and all
// four error collections empty. A single FAIL anywhere fails the whole
// check.
func (c *Classifier) Summarize(rep *model.HealthReport) model.HealthSummary {
	controllers := c.CheckControllers(rep.Controllers)
	nodes := c.CheckFabricNodes(rep.FabricNodes)
	fabric := c.CheckFabric(rep.FabricHealth)
	faults := c.CheckFaults(rep.Faults)
	fcs := c.CheckCounters(rep.FCSErrors)
	crc := c.CheckCounters(rep.CRCErrors)
	drop := c.CheckCounters(rep.DropErrors)
	output := c.CheckCounters(rep.OutputErrors)

	overall := controllers.Status == model.StatusPass &&
		nodes.Status == model.StatusPass &&
		nodes.CPUProblems == 0 && nodes.MemProblems == 0 &&
		fabric.Status == model.StatusPass &&
		faults.Critical == 0 && faults.Major == 0 &&
		fcs.Status == model.StatusPass &&
		crc.Status == model.StatusPass &&
		drop.Status == model.StatusPass &&
		output.Status == model.StatusPass

	return model.HealthSummary{
		OverallStatus: statusOf(overall),
		Controllers:   controllers,
		FabricNodes:   nodes,
		Fabric:        fabric,
		Faults:        faults,
		FCSErrors:     fcs,
		CRCErrors:     crc,
		DropErrors:    drop,
		OutputErrors:  output,
		Thresholds:    c.Thresholds,
	}
}

func statusOf(pass bool) model.Status {
	if pass {
		return model.StatusPass
	}
	return model.StatusFail
}

package client

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/fabricsnap/fabricsnap/internal/model"
)

// Managed-object classes backing each collection category.
const (
	classController   = "infraWiNode"
	classTopSystem    = "topSystem"
	classCPU          = "procSysCPU1d"
	classMemory       = "procSysMem1d"
	classFabricHealth = "fabricHealthTotal"
	classFault        = "faultInst"
	classInterface    = "l1PhysIf"
	classEndpoint     = "fvCEp"
	classRoute        = "uribv4Route"
	classEthpm        = "ethpmPhysIf"
	classEtherStats   = "rmonEtherStats"
	classEgrCounters  = "rmonEgrCounters"
	classIfOut        = "rmonIfOut"
	classDot3Stats    = "rmonDot3Stats"
)

const (
	pathLogin = "/api/aaaLogin.json"
	// Controller cluster membership hangs off the first node's subtree
	// rather than a class endpoint.
	pathControllers = "/api/node/mo/topology/pod-1/node-1.json?query-target=subtree&target-subtree-class=" + classController
)

// aciCreatedLayout renders fault-creation lower bounds the way the
// controller's filter grammar expects them.
const aciCreatedLayout = "2006-01-02T15:04:05.000Z"

// FaultQuery narrows the server-side fault fetch. The zero value fetches
// every fault instance.
type FaultQuery struct {
	// Severities filters to the named fault severities.
	Severities []string
	// CreatedSince keeps faults created after the given time.
	CreatedSince time.Time
}

// filter renders the query-target-filter expression, or "" when the query
// is empty.
func (q FaultQuery) filter() string {
	var sev string
	switch len(q.Severities) {
	case 0:
	case 1:
		sev = fmt.Sprintf("eq(faultInst.severity,%q)", q.Severities[0])
	default:
		terms := make([]string, len(q.Severities))
		for i, s := range q.Severities {
			terms[i] = fmt.Sprintf("eq(faultInst.severity,%q)", s)
		}
		sev = "or(" + strings.Join(terms, ",") + ")"
	}

	var created string
	if !q.CreatedSince.IsZero() {
		created = fmt.Sprintf("gt(faultInst.created,%q)", q.CreatedSince.Format(aciCreatedLayout))
	}

	switch {
	case sev != "" && created != "":
		return "and(" + created + "," + sev + ")"
	case sev != "":
		return sev
	default:
		return created
	}
}

// Controllers fetches the controller cluster membership.
func (c *DefaultClient) Controllers(ctx context.Context) ([]model.RawRecord, error) {
	body, err := c.doGet(ctx, pathControllers)
	if err != nil {
		return nil, fmt.Errorf("Controllers: %w", err)
	}
	recs, err := model.DecodeEnvelope(body)
	if err != nil {
		return nil, fmt.Errorf("Controllers: %w", err)
	}
	return recs, nil
}

// TopSystems fetches every switch system record with its health subtree
// included.
func (c *DefaultClient) TopSystems(ctx context.Context) ([]model.RawRecord, error) {
	recs, err := c.getClass(ctx, classTopSystem, "rsp-subtree-include=health")
	if err != nil {
		return nil, fmt.Errorf("TopSystems: %w", err)
	}
	return recs, nil
}

// CPUStats fetches the per-switch daily CPU utilization averages.
func (c *DefaultClient) CPUStats(ctx context.Context) ([]model.RawRecord, error) {
	recs, err := c.getClass(ctx, classCPU, "")
	if err != nil {
		return nil, fmt.Errorf("CPUStats: %w", err)
	}
	return recs, nil
}

// MemoryStats fetches the per-switch daily memory utilization averages.
func (c *DefaultClient) MemoryStats(ctx context.Context) ([]model.RawRecord, error) {
	recs, err := c.getClass(ctx, classMemory, "")
	if err != nil {
		return nil, fmt.Errorf("MemoryStats: %w", err)
	}
	return recs, nil
}

// FabricHealth fetches the fabric-wide health rollup.
func (c *DefaultClient) FabricHealth(ctx context.Context) ([]model.RawRecord, error) {
	recs, err := c.getClass(ctx, classFabricHealth, "")
	if err != nil {
		return nil, fmt.Errorf("FabricHealth: %w", err)
	}
	return recs, nil
}

// Faults fetches fault instances, optionally narrowed server-side by q.
func (c *DefaultClient) Faults(ctx context.Context, q FaultQuery) ([]model.RawRecord, error) {
	var rawQuery string
	if f := q.filter(); f != "" {
		rawQuery = url.Values{"query-target-filter": []string{f}}.Encode()
	}
	recs, err := c.getClass(ctx, classFault, rawQuery)
	if err != nil {
		return nil, fmt.Errorf("Faults: %w", err)
	}
	return recs, nil
}

// Interfaces fetches the physical interface inventory.
func (c *DefaultClient) Interfaces(ctx context.Context) ([]model.RawRecord, error) {
	recs, err := c.getClass(ctx, classInterface, "")
	if err != nil {
		return nil, fmt.Errorf("Interfaces: %w", err)
	}
	return recs, nil
}

// Endpoints fetches the learned endpoint table.
func (c *DefaultClient) Endpoints(ctx context.Context) ([]model.RawRecord, error) {
	recs, err := c.getClass(ctx, classEndpoint, "")
	if err != nil {
		return nil, fmt.Errorf("Endpoints: %w", err)
	}
	return recs, nil
}

// Routes fetches the IPv4 unicast RIB.
func (c *DefaultClient) Routes(ctx context.Context) ([]model.RawRecord, error) {
	recs, err := c.getClass(ctx, classRoute, "")
	if err != nil {
		return nil, fmt.Errorf("Routes: %w", err)
	}
	return recs, nil
}

// InterfaceErrors fetches the per-interface link error counters.
func (c *DefaultClient) InterfaceErrors(ctx context.Context) ([]model.RawRecord, error) {
	recs, err := c.getClass(ctx, classEthpm, "")
	if err != nil {
		return nil, fmt.Errorf("InterfaceErrors: %w", err)
	}
	return recs, nil
}

// EtherStats fetches the RMON ethernet statistics carrying CRC/alignment
// counters.
func (c *DefaultClient) EtherStats(ctx context.Context) ([]model.RawRecord, error) {
	recs, err := c.getClass(ctx, classEtherStats, "")
	if err != nil {
		return nil, fmt.Errorf("EtherStats: %w", err)
	}
	return recs, nil
}

// EgressCounters fetches the RMON egress counters carrying dropped-packet
// totals.
func (c *DefaultClient) EgressCounters(ctx context.Context) ([]model.RawRecord, error) {
	recs, err := c.getClass(ctx, classEgrCounters, "")
	if err != nil {
		return nil, fmt.Errorf("EgressCounters: %w", err)
	}
	return recs, nil
}

// OutputCounters fetches the RMON interface-out counters carrying output
// error totals.
func (c *DefaultClient) OutputCounters(ctx context.Context) ([]model.RawRecord, error) {
	recs, err := c.getClass(ctx, classIfOut, "")
	if err != nil {
		return nil, fmt.Errorf("OutputCounters: %w", err)
	}
	return recs, nil
}

// Dot3Stats fetches the RMON dot3 statistics carrying FCS error counters.
func (c *DefaultClient) Dot3Stats(ctx context.Context) ([]model.RawRecord, error) {
	recs, err := c.getClass(ctx, classDot3Stats, "")
	if err != nil {
		return nil, fmt.Errorf("Dot3Stats: %w", err)
	}
	return recs, nil
}

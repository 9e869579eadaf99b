package engine

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/fabricsnap/fabricsnap/internal/client"
	"github.com/fabricsnap/fabricsnap/internal/model"
)

// maxConcurrentFetches bounds parallel API calls in one collection pass.
const maxConcurrentFetches = 4

// keepAllCounters disables the count floor so snapshots retain every
// interface for later comparison.
const keepAllCounters = -1

// Counter attribute candidates per class; older schemas rename the fields.
var (
	linkErrorFields     = []string{"crc", "inputDiscards"} // summed
	crcCounterFields    = []string{"cRCAlignErrors", "crcAlignErrors"}
	fcsCounterFields    = []string{"fCSErrors", "fcsErrors"}
	dropCounterFields   = []string{"dropPkts"}
	outputCounterFields = []string{"outErrors"}
)

var (
	// snapshotFaultSeverities limit snapshot faults to the critical class.
	snapshotFaultSeverities = []string{"critical"}
	// liveFaultSeverities are the severities a live check reports on.
	liveFaultSeverities = []string{"critical", "major"}
)

// CollectorOptions tune a Collector.
type CollectorOptions struct {
	// Host names the controller in snapshots and reports.
	Host string
	// Thresholds drive the live-check classifier. The interface-error
	// threshold also filters live-check counters during normalization.
	Thresholds model.Thresholds
	// FaultLookback bounds the live-check fault window. Zero disables it.
	FaultLookback time.Duration
}

// Collector orchestrates one collection pass: every category is fetched
// concurrently, then normalized and bundled. A failed category degrades to
// an empty collection and the pass continues; the error return of the
// collection methods is reserved for context cancellation, so a partial
// result is never silently mixed with an aborted run.
type Collector struct {
	api  client.APICClient
	norm *Normalizer
	cls  *Classifier
	log  *slog.Logger
	opts CollectorOptions
}

// NewCollector returns a Collector. Pass nil for a no-op logger.
func NewCollector(api client.APICClient, logger *slog.Logger, opts CollectorOptions) *Collector {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	return &Collector{
		api:  api,
		norm: NewNormalizer(logger),
		cls:  NewClassifier(opts.Thresholds),
		log:  logger,
		opts: opts,
	}
}

// degrade logs a failed category fetch and substitutes the empty collection
// that replaces it.
func (c *Collector) degrade(category string, recs []model.RawRecord, err error) []model.RawRecord {
	if err != nil {
		c.log.Warn("category fetch failed, continuing with empty collection",
			"category", category, "err", err)
		return nil
	}
	return recs
}

// TakeSnapshot fetches and normalizes every snapshot category.
func (c *Collector) TakeSnapshot(ctx context.Context) (*model.Snapshot, error) {
	var (
		health, faults, ifaces, eps, routes []model.RawRecord
		ethpm, ether, egress, ifOut         []model.RawRecord
	)

	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentFetches)

	g.Go(func() error {
		recs, err := c.api.FabricHealth(ctx)
		health = c.degrade("fabric_health", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.Faults(ctx, client.FaultQuery{Severities: snapshotFaultSeverities})
		faults = c.degrade("faults", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.Interfaces(ctx)
		ifaces = c.degrade("interfaces", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.Endpoints(ctx)
		eps = c.degrade("endpoints", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.Routes(ctx)
		routes = c.degrade("urib_routes", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.InterfaceErrors(ctx)
		ethpm = c.degrade("interface_errors", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.EtherStats(ctx)
		ether = c.degrade("crc_errors", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.EgressCounters(ctx)
		egress = c.degrade("drop_errors", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.OutputCounters(ctx)
		ifOut = c.degrade("output_errors", recs, err)
		return nil
	})

	// Goroutines never return errors; Wait is purely a join.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return &model.Snapshot{
		CapturedAt:      time.Now(),
		Host:            c.opts.Host,
		FabricHealth:    c.norm.HealthScores(health),
		Faults:          c.norm.Faults(faults, FaultFilter{Severities: snapshotFaultSeverities}),
		Interfaces:      c.norm.Interfaces(ifaces),
		Endpoints:       c.norm.Endpoints(eps),
		Routes:          c.norm.Routes(routes),
		InterfaceErrors: c.norm.SummedCounters(ethpm, linkErrorFields, keepAllCounters),
		CRCErrors:       c.norm.PickedCounters(ether, crcCounterFields, keepAllCounters),
		DropErrors:      c.norm.PickedCounters(egress, dropCounterFields, keepAllCounters),
		OutputErrors:    c.norm.PickedCounters(ifOut, outputCounterFields, keepAllCounters),
	}, nil
}

// CollectHealth fetches and normalizes the live-check categories and runs
// the classifier over them.
func (c *Collector) CollectHealth(ctx context.Context) (*model.HealthReport, error) {
	now := time.Now()

	var (
		controllers, tops, cpu, mem, faults []model.RawRecord
		fabric, fcs, crc, drop, output      []model.RawRecord
	)

	g := new(errgroup.Group)
	g.SetLimit(maxConcurrentFetches)

	g.Go(func() error {
		recs, err := c.api.Controllers(ctx)
		controllers = c.degrade("controllers", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.TopSystems(ctx)
		tops = c.degrade("top_systems", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.CPUStats(ctx)
		cpu = c.degrade("cpu", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.MemoryStats(ctx)
		mem = c.degrade("memory", recs, err)
		return nil
	})
	g.Go(func() error {
		q := client.FaultQuery{Severities: liveFaultSeverities}
		if c.opts.FaultLookback > 0 {
			q.CreatedSince = now.Add(-c.opts.FaultLookback)
		}
		recs, err := c.api.Faults(ctx, q)
		faults = c.degrade("faults", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.FabricHealth(ctx)
		fabric = c.degrade("fabric_health", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.Dot3Stats(ctx)
		fcs = c.degrade("fcs_errors", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.EtherStats(ctx)
		crc = c.degrade("crc_errors", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.EgressCounters(ctx)
		drop = c.degrade("drop_errors", recs, err)
		return nil
	})
	g.Go(func() error {
		recs, err := c.api.OutputCounters(ctx)
		output = c.degrade("output_errors", recs, err)
		return nil
	})

	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	score := 0
	if scores := c.norm.HealthScores(fabric); len(scores) > 0 {
		score = scores[0].Value
	}

	min := c.opts.Thresholds.InterfaceErrors
	rep := &model.HealthReport{
		CheckedAt:   now,
		Host:        c.opts.Host,
		Controllers: c.norm.Controllers(controllers),
		FabricNodes: c.norm.FabricNodes(tops, cpu, mem),
		Faults: c.norm.Faults(faults, FaultFilter{
			Severities: liveFaultSeverities,
			Lookback:   c.opts.FaultLookback,
			Now:        now,
		}),
		FabricHealth: score,
		FCSErrors:    c.norm.PickedCounters(fcs, fcsCounterFields, min),
		CRCErrors:    c.norm.PickedCounters(crc, crcCounterFields, min),
		DropErrors:   c.norm.PickedCounters(drop, dropCounterFields, min),
		OutputErrors: c.norm.PickedCounters(output, outputCounterFields, min),
	}
	rep.Summary = c.cls.Summarize(rep)
	return rep, nil
}

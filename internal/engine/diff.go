package engine

import (
	"fmt"
	"sort"

	"github.com/fabricsnap/fabricsnap/internal/model"
)

// Compare computes the per-category difference between two snapshots. A nil
// snapshot or an absent category is treated as empty, never an error. Every
// output is sorted by its key, so comparing the same pair of snapshots twice
// renders identically regardless of collection order.
//
// Counters are cumulative: only strict increases are reported. A decrease
// means the counter was reset, not that the interface improved, and is
// suppressed to avoid false positives.
func Compare(before, after *model.Snapshot) model.DiffReport {
	if before == nil {
		before = &model.Snapshot{}
	}
	if after == nil {
		after = &model.Snapshot{}
	}

	var rep model.DiffReport

	rep.FabricHealth = healthTransition(before, after)
	rep.NewFaults, rep.ClearedFaults = setDiff(faultSet(before.Faults), faultSet(after.Faults))

	epNew, epMissing, epMoved := mapDiff(endpointMap(before.Endpoints), endpointMap(after.Endpoints))
	rep.NewEndpoints = epNew
	rep.MissingEndpoints = epMissing
	rep.MovedEndpoints = epMoved

	ifNew, ifMissing, ifChanged := mapDiff(interfaceMap(before.Interfaces), interfaceMap(after.Interfaces))
	rep.InterfaceChanges = model.InterfaceChanges{
		StatusChanged: ifChanged,
		Missing:       ifMissing,
		New:           ifNew,
	}

	rep.InterfaceErrorChanges = counterChanges(before.InterfaceErrors, after.InterfaceErrors)
	rep.CRCErrorChanges = counterChanges(before.CRCErrors, after.CRCErrors)
	rep.DropErrorChanges = counterChanges(before.DropErrors, after.DropErrors)
	rep.OutputErrorChanges = counterChanges(before.OutputErrors, after.OutputErrors)

	rtNew, rtMissing := setDiff(routeSet(before.Routes), routeSet(after.Routes))
	rep.RouteChanges = model.RouteChanges{Missing: rtMissing, New: rtNew}

	return rep
}

// healthTransition carries the fabric score from both sides verbatim. The
// pointer stays nil for a side whose health category is empty.
func healthTransition(before, after *model.Snapshot) model.HealthTransition {
	var t model.HealthTransition
	if v, ok := before.FabricHealthValue(); ok {
		t.Before = &v
	}
	if v, ok := after.FabricHealthValue(); ok {
		t.After = &v
	}
	return t
}

// setDiff returns keys present only in after (added) and keys present only
// in before (removed), both sorted ascending.
func setDiff(before, after map[string]struct{}) (added, removed []string) {
	added = make([]string, 0)
	removed = make([]string, 0)
	for k := range after {
		if _, ok := before[k]; !ok {
			added = append(added, k)
		}
	}
	for k := range before {
		if _, ok := after[k]; !ok {
			removed = append(removed, k)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}

// mapDiff compares two key→value maps: keys only in after, keys only in
// before, and keys on both sides whose value changed, the change rendered as
// "{before}➜{after}". All three outputs are sorted by key.
func mapDiff(before, after map[string]string) (added, removed []string, changed []model.ValueChange) {
	added = make([]string, 0)
	removed = make([]string, 0)
	changed = make([]model.ValueChange, 0)
	for k, bv := range before {
		av, ok := after[k]
		if !ok {
			removed = append(removed, k)
			continue
		}
		if av != bv {
			changed = append(changed, model.ValueChange{DN: k, Change: fmt.Sprintf("%s➜%s", bv, av)})
		}
	}
	for k := range after {
		if _, ok := before[k]; !ok {
			added = append(added, k)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	sort.Slice(changed, func(i, j int) bool { return changed[i].DN < changed[j].DN })
	return added, removed, changed
}

// counterChanges reports strictly increased counters. The comparison is
// keyed by DN, the snapshot's unique key; a counter absent from one side
// counts as 0 there. Each increase is then reported under the (node,
// interface) pair re-derived from the DN, so differently shaped DNs naming
// the same logical port read identically in the report. Pair collisions are
// last-write-wins in ascending DN order.
func counterChanges(before, after []model.ErrorCounter) []model.CounterChange {
	beforeByDN := counterMap(before)
	afterByDN := counterMap(after)

	dns := make(map[string]struct{}, len(beforeByDN)+len(afterByDN))
	for dn := range beforeByDN {
		dns[dn] = struct{}{}
	}
	for dn := range afterByDN {
		dns[dn] = struct{}{}
	}

	type pair struct{ node, ifName string }
	byPair := make(map[pair]string)
	for _, dn := range sortedKeys(dns) {
		b := beforeByDN[dn]
		a := afterByDN[dn]
		if a <= b {
			continue
		}
		node, ifName := SplitInterfaceDN(dn)
		byPair[pair{node, ifName}] = fmt.Sprintf("%d➜%d", b, a)
	}

	out := make([]model.CounterChange, 0, len(byPair))
	for p, change := range byPair {
		out = append(out, model.CounterChange{NodeID: p.node, InterfaceName: p.ifName, Change: change})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NodeID != out[j].NodeID {
			return out[i].NodeID < out[j].NodeID
		}
		return out[i].InterfaceName < out[j].InterfaceName
	})
	return out
}

func faultSet(faults []model.Fault) map[string]struct{} {
	set := make(map[string]struct{}, len(faults))
	for _, f := range faults {
		set[f.DN] = struct{}{}
	}
	return set
}

func routeSet(routes []model.Route) map[string]struct{} {
	set := make(map[string]struct{}, len(routes))
	for _, r := range routes {
		set[r.DN] = struct{}{}
	}
	return set
}

func endpointMap(eps []model.Endpoint) map[string]string {
	m := make(map[string]string, len(eps))
	for _, ep := range eps {
		m[ep.DN] = ep.IP
	}
	return m
}

func interfaceMap(states []model.InterfaceState) map[string]string {
	m := make(map[string]string, len(states))
	for _, s := range states {
		m[s.DN] = s.OperState
	}
	return m
}

func counterMap(counters []model.ErrorCounter) map[string]int {
	m := make(map[string]int, len(counters))
	for _, c := range counters {
		m[c.DN] = c.Count
	}
	return m
}

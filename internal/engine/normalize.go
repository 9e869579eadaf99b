package engine

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/fabricsnap/fabricsnap/internal/model"
)

// Candidate source fields per logical attribute. Controller and switch
// payloads rename fields across APIC versions; resolution takes the first
// candidate that is present and non-empty.
var (
	nameFields       = []string{"nodeName", "name", "id"}
	serialFields     = []string{"mbSn", "serial"}
	healthFields     = []string{"health", "cur"}
	healthTextFields = []string{"health", "healthRollup"}
	operStateFields  = []string{"operSt", "status"}
	addrFields       = []string{"oobMgmtAddr", "address"}
	nodeIDFields     = []string{"id", "serial"}
)

// healthTokens maps the textual controller health states to numeric scores.
// Any other non-numeric value normalizes to 0.
var healthTokens = map[string]int{
	"fully-fit": 100,
	"fully fit": 100,
	"degraded":  50,
}

// aciTimeLayout parses APIC timestamps after the sub-second suffix is
// stripped: "2024-01-15T10:30:00.000+00:00" reduces to "2024-01-15T10:30:00".
const aciTimeLayout = "2006-01-02T15:04:05"

// healthInstDepth bounds the subtree search for a topSystem record's
// healthInst child; health sub-objects sit at most two levels down.
const healthInstDepth = 2

// Normalizer converts decoded class records into the canonical entity
// shapes. Normalization never fails: missing numeric fields default to 0,
// missing strings to "", and a present-but-unparsable field is logged and
// zeroed without discarding its record. Records without a DN cannot
// participate in keyed comparison and are dropped. Duplicate DNs within one
// pass are last-write-wins.
type Normalizer struct {
	log *slog.Logger
}

// NewNormalizer returns a Normalizer. Pass nil for a no-op logger.
func NewNormalizer(logger *slog.Logger) *Normalizer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(noopWriter{}, nil))
	}
	return &Normalizer{log: logger}
}

// HealthScores normalizes fabric-wide health rollup records. The fabric
// reports a single aggregate score; the collection shape is kept so an
// absent response degrades to empty rather than a fabricated zero score.
func (n *Normalizer) HealthScores(recs []model.RawRecord) []model.HealthScore {
	scores := make([]model.HealthScore, 0, len(recs))
	for _, r := range recs {
		scores = append(scores, model.HealthScore{Value: n.healthValue(resolve(r, healthFields))})
	}
	return scores
}

// FaultFilter selects which faults a normalization pass keeps. The zero
// value keeps every fault.
type FaultFilter struct {
	// Severities to keep, matched case-insensitively. Empty keeps all.
	Severities []string
	// Lookback drops faults whose last transition is older than Now-Lookback.
	// Zero disables the window. Faults with unparsable or missing timestamps
	// are kept (fail open).
	Lookback time.Duration
	// Now anchors the lookback window; the zero value means time.Now().
	Now time.Time
}

func (f FaultFilter) keep(severity, lastTransition string) bool {
	if len(f.Severities) > 0 {
		match := false
		for _, s := range f.Severities {
			if strings.EqualFold(s, severity) {
				match = true
				break
			}
		}
		if !match {
			return false
		}
	}
	if f.Lookback <= 0 || lastTransition == "" {
		return true
	}
	ts, err := time.Parse(aciTimeLayout, strings.SplitN(lastTransition, ".", 2)[0])
	if err != nil {
		// Fail open: format drift must not hide a fault.
		return true
	}
	now := f.Now
	if now.IsZero() {
		now = time.Now()
	}
	return !ts.Before(now.Add(-f.Lookback))
}

// Faults normalizes faultInst records, sorted by DN.
func (n *Normalizer) Faults(recs []model.RawRecord, filter FaultFilter) []model.Fault {
	byDN := make(map[string]model.Fault, len(recs))
	for _, r := range recs {
		dn := r.Attr("dn")
		if dn == "" {
			n.log.Debug("record without dn dropped", "class", r.Class)
			continue
		}
		severity := r.Attr("severity")
		lastChange := r.Attr("lastTransition")
		if !filter.keep(severity, lastChange) {
			continue
		}
		byDN[dn] = model.Fault{
			DN:          dn,
			Severity:    severity,
			Code:        r.Attr("code"),
			Description: r.Attr("descr"),
			LastChange:  lastChange,
		}
	}
	out := make([]model.Fault, 0, len(byDN))
	for _, dn := range sortedKeys(byDN) {
		out = append(out, byDN[dn])
	}
	return out
}

// Interfaces normalizes l1PhysIf records into DN-keyed oper states, sorted
// by DN.
func (n *Normalizer) Interfaces(recs []model.RawRecord) []model.InterfaceState {
	byDN := make(map[string]model.InterfaceState, len(recs))
	for _, r := range recs {
		dn := r.Attr("dn")
		if dn == "" {
			n.log.Debug("record without dn dropped", "class", r.Class)
			continue
		}
		byDN[dn] = model.InterfaceState{DN: dn, OperState: resolve(r, operStateFields)}
	}
	out := make([]model.InterfaceState, 0, len(byDN))
	for _, dn := range sortedKeys(byDN) {
		out = append(out, byDN[dn])
	}
	return out
}

// Endpoints normalizes fvCEp records, sorted by DN. IP may be empty.
func (n *Normalizer) Endpoints(recs []model.RawRecord) []model.Endpoint {
	byDN := make(map[string]model.Endpoint, len(recs))
	for _, r := range recs {
		dn := r.Attr("dn")
		if dn == "" {
			n.log.Debug("record without dn dropped", "class", r.Class)
			continue
		}
		byDN[dn] = model.Endpoint{DN: dn, IP: r.Attr("ip")}
	}
	out := make([]model.Endpoint, 0, len(byDN))
	for _, dn := range sortedKeys(byDN) {
		out = append(out, byDN[dn])
	}
	return out
}

// Routes normalizes uribv4Route records, sorted by DN.
func (n *Normalizer) Routes(recs []model.RawRecord) []model.Route {
	byDN := make(map[string]model.Route, len(recs))
	for _, r := range recs {
		dn := r.Attr("dn")
		if dn == "" {
			n.log.Debug("record without dn dropped", "class", r.Class)
			continue
		}
		byDN[dn] = model.Route{DN: dn}
	}
	out := make([]model.Route, 0, len(byDN))
	for _, dn := range sortedKeys(byDN) {
		out = append(out, byDN[dn])
	}
	return out
}

// SummedCounters normalizes counter records whose logical count is the sum
// of several attribute fields (ethpmPhysIf link errors: crc plus
// inputDiscards). Counters at or below min are dropped; pass -1 to keep
// every interface. Output is sorted by DN.
func (n *Normalizer) SummedCounters(recs []model.RawRecord, fields []string, min int) []model.ErrorCounter {
	byDN := make(map[string]model.ErrorCounter, len(recs))
	for _, r := range recs {
		dn := r.Attr("dn")
		if dn == "" {
			n.log.Debug("record without dn dropped", "class", r.Class)
			continue
		}
		count := 0
		for _, f := range fields {
			count += n.intField(f, r.Attr(f))
		}
		if count <= min {
			continue
		}
		byDN[dn] = n.counter(dn, count)
	}
	return sortedCounters(byDN)
}

// PickedCounters normalizes counter records whose count lives under one of
// several candidate field names (cRCAlignErrors vs crcAlignErrors across
// schema versions); the first present field wins. Counters at or below min
// are dropped; pass -1 to keep every interface. Output is sorted by DN.
func (n *Normalizer) PickedCounters(recs []model.RawRecord, fields []string, min int) []model.ErrorCounter {
	byDN := make(map[string]model.ErrorCounter, len(recs))
	for _, r := range recs {
		dn := r.Attr("dn")
		if dn == "" {
			n.log.Debug("record without dn dropped", "class", r.Class)
			continue
		}
		count := 0
		for _, f := range fields {
			if v := r.Attr(f); v != "" {
				count = n.intField(f, v)
				break
			}
		}
		if count <= min {
			continue
		}
		byDN[dn] = n.counter(dn, count)
	}
	return sortedCounters(byDN)
}

// Controllers normalizes infraWiNode records describing the controller
// cluster. Order is kept as reported; controllers are judged, not diffed.
func (n *Normalizer) Controllers(recs []model.RawRecord) []model.ControllerNode {
	out := make([]model.ControllerNode, 0, len(recs))
	for _, r := range recs {
		health := n.healthValue(resolve(r, healthFields))
		text := resolve(r, healthTextFields)
		if text == "" {
			text = strconv.Itoa(health)
		}
		out = append(out, model.ControllerNode{
			Name:       resolve(r, nameFields),
			Serial:     resolve(r, serialFields),
			IP:         resolve(r, addrFields),
			Mode:       r.Attr("apicMode"),
			OperStatus: resolve(r, operStateFields),
			Health:     health,
			HealthText: text,
		})
	}
	return out
}

// FabricNodes normalizes topSystem records into leaf/spine switch entries,
// joining the separate CPU and memory utilization streams by node ID. The
// utilization maps are built once per pass and looked up per switch;
// switches with no matching entry default to 0.
func (n *Normalizer) FabricNodes(top, cpu, mem []model.RawRecord) []model.FabricNode {
	cpuByNode := n.cpuUtilization(cpu)
	memByNode := n.memUtilization(mem)

	out := make([]model.FabricNode, 0, len(top))
	for _, r := range top {
		role := strings.ToLower(r.Attr("role"))
		if role != "leaf" && role != "spine" {
			// Controllers and unset roles are reported elsewhere.
			continue
		}

		id := strings.TrimPrefix(resolve(r, nodeIDFields), "node-")
		if id == "" {
			id = NodeIDFromDN(r.Attr("dn"))
		}

		out = append(out, model.FabricNode{
			Name:    r.Attr("name"),
			Role:    role,
			Serial:  r.Attr("serial"),
			IP:      resolve(r, addrFields),
			Version: r.Attr("version"),
			Uptime:  r.Attr("systemUpTime"),
			Health:  n.nodeHealth(r),
			CPUPct:  cpuByNode[id],
			MemPct:  memByNode[id],
		})
	}
	return out
}

// nodeHealth reads the health score of one switch from its healthInst child,
// falling back to the record's own health attribute when the child or its
// cur field is absent.
func (n *Normalizer) nodeHealth(r model.RawRecord) int {
	if inst, ok := findChild(r, "healthInst", healthInstDepth); ok {
		if v := inst.Attr("cur"); v != "" {
			return n.intField("cur", v)
		}
	}
	return n.healthValue(r.Attr("health"))
}

// cpuUtilization builds a node-ID → CPU% map from procSysCPU1d records.
// Utilization is userAvg + kernelAvg; when either is present but
// unparsable, the single util field is read instead.
func (n *Normalizer) cpuUtilization(recs []model.RawRecord) map[string]float64 {
	byNode := make(map[string]float64, len(recs))
	for _, r := range recs {
		id := NodeIDFromDN(r.Attr("dn"))
		if id == "" {
			continue
		}
		user, errU := floatOrZero(r.Attr("userAvg"))
		kernel, errK := floatOrZero(r.Attr("kernelAvg"))
		util := user + kernel
		if errU != nil || errK != nil {
			util = n.floatField("util", r.Attr("util"))
		}
		byNode[id] = util
	}
	return byNode
}

// memUtilization builds a node-ID → memory% map from procSysMem1d records.
// Newer schemas report PercUsedMemoryAvg directly; older ones report
// usedAvg/totalAvg byte counts.
func (n *Normalizer) memUtilization(recs []model.RawRecord) map[string]float64 {
	byNode := make(map[string]float64, len(recs))
	for _, r := range recs {
		id := NodeIDFromDN(r.Attr("dn"))
		if id == "" {
			continue
		}
		if v, ok := r.Attrs["PercUsedMemoryAvg"]; ok {
			byNode[id] = n.floatField("PercUsedMemoryAvg", v)
			continue
		}
		total := n.floatField("totalAvg", r.Attr("totalAvg"))
		used := n.floatField("usedAvg", r.Attr("usedAvg"))
		if total > 0 {
			byNode[id] = used / total * 100
		} else {
			byNode[id] = 0
		}
	}
	return byNode
}

// healthValue interprets a health field that is numeric for switches but may
// be a textual cluster state for controllers.
func (n *Normalizer) healthValue(raw string) int {
	if raw == "" {
		return 0
	}
	if v, err := strconv.Atoi(raw); err == nil {
		return v
	}
	if v, ok := healthTokens[strings.ToLower(raw)]; ok {
		return v
	}
	n.log.Debug("unrecognized health token", "value", raw)
	return 0
}

// intField parses a counter or score field, logging and returning 0 when a
// present value is unparsable. Empty is 0 without logging.
func (n *Normalizer) intField(field, s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		n.log.Debug("unparsable numeric field", "field", field, "value", s)
		return 0
	}
	return v
}

// floatOrZero parses a float field, reporting the parse error instead of
// logging it. An absent field is 0 without error; only a present value can
// fail.
func floatOrZero(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// floatField is intField for float-valued utilization fields.
func (n *Normalizer) floatField(field, s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		n.log.Debug("unparsable numeric field", "field", field, "value", s)
		return 0
	}
	return v
}

// counter builds an ErrorCounter, deriving the owning node and port from the
// DN.
func (n *Normalizer) counter(dn string, count int) model.ErrorCounter {
	nodeID, ifName := SplitInterfaceDN(dn)
	return model.ErrorCounter{DN: dn, NodeID: nodeID, InterfaceName: ifName, Count: count}
}

// resolve returns the first candidate field of r that is present and
// non-empty, or "".
func resolve(r model.RawRecord, fields []string) string {
	for _, f := range fields {
		if v := r.Attrs[f]; v != "" {
			return v
		}
	}
	return ""
}

// findChild returns the first descendant of r with the given class, scanning
// breadth-first no deeper than maxDepth levels below r.
func findChild(r model.RawRecord, class string, maxDepth int) (model.RawRecord, bool) {
	level := r.Children
	for depth := 0; depth < maxDepth && len(level) > 0; depth++ {
		var next []model.RawRecord
		for _, c := range level {
			if c.Class == class {
				return c, true
			}
			next = append(next, c.Children...)
		}
		level = next
	}
	return model.RawRecord{}, false
}

// sortedKeys returns the map's keys in ascending order.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedCounters(byDN map[string]model.ErrorCounter) []model.ErrorCounter {
	out := make([]model.ErrorCounter, 0, len(byDN))
	for _, dn := range sortedKeys(byDN) {
		out = append(out, byDN[dn])
	}
	return out
}

type noopWriter struct{}

func (noopWriter) Write(p []byte) (int, error) { return len(p), nil }

package engine

import "regexp"

// UnknownDNPart is the placeholder for a DN segment that cannot be located.
// Records with malformed DNs keep flowing through normalization and diffing
// grouped under this sentinel instead of being dropped.
const UnknownDNPart = "Unknown"

// Package-level compiled regexes for DN parsing. APIC distinguished names
// embed the owning switch and port in fixed segments, e.g.
// "topology/pod-1/node-102/sys/phys-[eth1/5]/dbgEtherStats".
var (
	reDNNode = regexp.MustCompile(`node-(\d+)`)
	reDNPort = regexp.MustCompile(`(?:phys|aggr)-\[(.*?)\]`)
)

// SplitInterfaceDN extracts the node ID and interface name from a
// distinguished name. The node ID keeps its "node-" prefix ("node-102");
// the interface name is the bracket contents of the phys-/aggr- segment
// ("eth1/5"). A missing segment yields UnknownDNPart for that part; the
// function never fails.
func SplitInterfaceDN(dn string) (nodeID, ifName string) {
	nodeID, ifName = UnknownDNPart, UnknownDNPart
	if m := reDNNode.FindStringSubmatch(dn); m != nil {
		nodeID = "node-" + m[1]
	}
	if m := reDNPort.FindStringSubmatch(dn); m != nil {
		ifName = m[1]
	}
	return nodeID, ifName
}

// NodeIDFromDN returns just the numeric node ID ("102") from a DN, or ""
// when no node segment is present. Used to key CPU and memory utilization
// records to their owning switch.
func NodeIDFromDN(dn string) string {
	if m := reDNNode.FindStringSubmatch(dn); m != nil {
		return m[1]
	}
	return ""
}

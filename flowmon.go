package wdm

// flowmon.go holds the flow statistics collector.  Every transmit,
// receive, and loss event at the boundary of the simulated network is
// classified by its five-tuple and accumulated into per-flow counters;
// after the run the counters reduce to throughput and delay metrics.

import (
	"fmt"
	"io"

	"gonum.org/v1/gonum/stat"
)

// ProtocolUDP is the IP protocol number carried in the five-tuple of
// the echo traffic
const ProtocolUDP = 17

// A FiveTuple identifies a flow: all packets sharing one five-tuple are
// aggregated together.  Request and response directions of an echo
// exchange carry reversed tuples and so form two distinct flows.
type FiveTuple struct {
	SrcAddr  string
	DstAddr  string
	SrcPort  int
	DstPort  int
	Protocol int
}

// FlowStats accumulates the counters of one flow.  All fields grow
// monotonically during a run and are read-only after it ends.
type FlowStats struct {
	TxPackets   uint64
	RxPackets   uint64
	LostPackets uint64
	RxBytes     uint64
	DelaySum    float64 // seconds, summed over received packets
	JitterSum   float64 // seconds, summed |delay_i - delay_{i-1}|
	TimeFirstTx float64
	TimeLastRx  float64

	delays      []float64 // per-packet delay samples for reduction
	lastDelay   float64
	seenFirstTx bool
}

// A FlowSummary holds the reduced, human-readable metrics of one flow
type FlowSummary struct {
	FlowID         int // discovery index, starting at 1
	Flow           FiveTuple
	TxPackets      uint64
	RxPackets      uint64
	LostPackets    uint64
	RxBytes        uint64
	ThroughputMbps float64
	AvgDelay       float64 // seconds
	MeanJitter     float64 // seconds
}

// A FlowMonitor observes every packet crossing the endpoints and keeps
// one FlowStats per five-tuple, created on first observation.  Flows
// are reported in discovery order.
type FlowMonitor struct {
	stats map[FiveTuple]*FlowStats
	order []FiveTuple
}

// CreateFlowMonitor is a constructor
func CreateFlowMonitor() *FlowMonitor {
	fm := new(FlowMonitor)
	fm.stats = make(map[FiveTuple]*FlowStats)
	fm.order = make([]FiveTuple, 0)
	return fm
}

// find returns the stats block for a five-tuple, creating it on the
// flow's first observed packet
func (fm *FlowMonitor) find(ft FiveTuple) *FlowStats {
	fs, present := fm.stats[ft]
	if !present {
		fs = new(FlowStats)
		fm.stats[ft] = fs
		fm.order = append(fm.order, ft)
	}
	return fs
}

// Stats returns the accumulated counters for a five-tuple, or nil if
// the flow was never observed
func (fm *FlowMonitor) Stats(ft FiveTuple) *FlowStats {
	return fm.stats[ft]
}

// ReportTx records a packet transmission
func (fm *FlowMonitor) ReportTx(now float64, pkt *Packet) {
	fs := fm.find(pkt.Flow)
	fs.TxPackets += 1
	if !fs.seenFirstTx {
		fs.TimeFirstTx = now
		fs.seenFirstTx = true
	}
}

// ReportRx records a successful reception
func (fm *FlowMonitor) ReportRx(now float64, pkt *Packet) {
	fs := fm.find(pkt.Flow)
	delay := now - pkt.TxTime

	fs.RxPackets += 1
	fs.RxBytes += uint64(pkt.SizeBytes)
	fs.DelaySum += delay
	if fs.RxPackets > 1 {
		jitter := delay - fs.lastDelay
		if jitter < 0 {
			jitter = -jitter
		}
		fs.JitterSum += jitter
	}
	fs.lastDelay = delay
	fs.delays = append(fs.delays, delay)
	fs.TimeLastRx = now
}

// ReportLost records a detected loss (corruption drop)
func (fm *FlowMonitor) ReportLost(pkt *Packet) {
	fs := fm.find(pkt.Flow)
	fs.LostPackets += 1
}

// CheckForLostPackets folds packets still unresolved at the simulation
// horizon into the loss counters, so that for every flow
// RxPackets + LostPackets == TxPackets.  Call only after the run ends;
// before then an in-flight packet is neither received nor lost.
func (fm *FlowMonitor) CheckForLostPackets() {
	for _, fs := range fm.stats {
		resolved := fs.RxPackets + fs.LostPackets
		if fs.TxPackets > resolved {
			fs.LostPackets += fs.TxPackets - resolved
		}
	}
}

// Reduce computes the per-flow summaries, in flow discovery order.
// A flow with no successful receptions is a valid outcome (e.g. a
// bit-error-rate of 1), so the divisions are guarded and report zero.
func (fm *FlowMonitor) Reduce() []FlowSummary {
	summaries := make([]FlowSummary, 0, len(fm.order))

	for idx, ft := range fm.order {
		fs := fm.stats[ft]
		sum := FlowSummary{FlowID: idx + 1, Flow: ft,
			TxPackets: fs.TxPackets, RxPackets: fs.RxPackets,
			LostPackets: fs.LostPackets, RxBytes: fs.RxBytes}

		duration := fs.TimeLastRx - fs.TimeFirstTx
		if duration > 0.0 {
			sum.ThroughputMbps = (float64(fs.RxBytes) * 8.0 / duration) / 1e6
		}
		if fs.RxPackets > 0 {
			sum.AvgDelay = stat.Mean(fs.delays, nil)
		}
		if fs.RxPackets > 1 {
			sum.MeanJitter = fs.JitterSum / float64(fs.RxPackets-1)
		}
		summaries = append(summaries, sum)
	}
	return summaries
}

// WriteReport emits the per-flow report, one block per flow in
// discovery order
func (fm *FlowMonitor) WriteReport(w io.Writer) {
	for _, sum := range fm.Reduce() {
		fmt.Fprintf(w, "Flow %d (%s -> %s)\n", sum.FlowID, sum.Flow.SrcAddr, sum.Flow.DstAddr)
		fmt.Fprintf(w, "  Tx Packets:   %d\n", sum.TxPackets)
		fmt.Fprintf(w, "  Rx Packets:   %d\n", sum.RxPackets)
		fmt.Fprintf(w, "  Lost Packets: %d\n", sum.LostPackets)
		fmt.Fprintf(w, "  Throughput:   %g Mbps\n", sum.ThroughputMbps)
		fmt.Fprintf(w, "  Avg Delay:    %g s\n", sum.AvgDelay)
		fmt.Fprintln(w, "-----------------------------------------")
	}
}

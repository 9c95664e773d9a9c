package wdm

import (
	"math"
	"strings"
	"testing"
)

func testFlow(srcPort int) FiveTuple {
	return FiveTuple{SrcAddr: "10.1.1.1", DstAddr: "10.1.1.2",
		SrcPort: srcPort, DstPort: 9000, Protocol: ProtocolUDP}
}

// 100 packets of 1024 bytes transmitted at t=1.0 and received at t=1.2
// reduce to 4.096 Mbps throughput and 0.2 s average delay
func TestReductionOracle(t *testing.T) {
	fm := CreateFlowMonitor()
	flow := testFlow(49153)

	for i := 0; i < 100; i++ {
		pkt := &Packet{SizeBytes: 1024, Flow: flow}
		fm.ReportTx(1.0, pkt)
		pkt.TxTime = 1.0
		fm.ReportRx(1.2, pkt)
	}

	sums := fm.Reduce()
	if len(sums) != 1 {
		t.Fatalf("expected 1 flow, got %d", len(sums))
	}
	sum := sums[0]
	if math.Abs(sum.ThroughputMbps-4.096) > 1e-9 {
		t.Errorf("throughput %g Mbps, want 4.096", sum.ThroughputMbps)
	}
	if math.Abs(sum.AvgDelay-0.2) > 1e-12 {
		t.Errorf("avg delay %g s, want 0.2", sum.AvgDelay)
	}
	if sum.TxPackets != 100 || sum.RxPackets != 100 || sum.LostPackets != 0 {
		t.Errorf("counters tx %d rx %d lost %d", sum.TxPackets, sum.RxPackets, sum.LostPackets)
	}
}

// a flow that never delivers reduces to zero throughput and delay with
// every transmission counted lost
func TestZeroRxFlow(t *testing.T) {
	fm := CreateFlowMonitor()
	flow := testFlow(49154)

	for i := 0; i < 50; i++ {
		pkt := &Packet{SizeBytes: 512, Flow: flow}
		fm.ReportTx(float64(i), pkt)
	}
	fm.CheckForLostPackets()

	sum := fm.Reduce()[0]
	if sum.LostPackets != 50 {
		t.Errorf("lost %d, want 50", sum.LostPackets)
	}
	if sum.ThroughputMbps != 0.0 {
		t.Errorf("zero-rx throughput %g, want 0", sum.ThroughputMbps)
	}
	if sum.AvgDelay != 0.0 {
		t.Errorf("zero-rx avg delay %g, want 0", sum.AvgDelay)
	}
}

// after reduction every flow satisfies rx + lost == tx
func TestAccountingInvariant(t *testing.T) {
	fm := CreateFlowMonitor()
	flow := testFlow(49155)

	now := 0.0
	for i := 0; i < 200; i++ {
		pkt := &Packet{SizeBytes: 256, Flow: flow}
		fm.ReportTx(now, pkt)
		pkt.TxTime = now
		switch i % 3 {
		case 0:
			fm.ReportRx(now+0.001, pkt)
		case 1:
			fm.ReportLost(pkt)
		}
		// case 2 is left in flight
		now += 0.01
	}
	fm.CheckForLostPackets()

	fs := fm.Stats(flow)
	if fs.RxPackets+fs.LostPackets != fs.TxPackets {
		t.Errorf("rx %d + lost %d != tx %d", fs.RxPackets, fs.LostPackets, fs.TxPackets)
	}
}

// flows report in the order their first packet was observed
func TestDiscoveryOrder(t *testing.T) {
	fm := CreateFlowMonitor()
	flows := []FiveTuple{testFlow(49160), testFlow(49158), testFlow(49159)}

	for _, flow := range flows {
		pkt := &Packet{SizeBytes: 64, Flow: flow}
		fm.ReportTx(0.0, pkt)
	}

	sums := fm.Reduce()
	for idx, sum := range sums {
		if sum.Flow != flows[idx] {
			t.Errorf("flow %d is %v, want %v", idx, sum.Flow, flows[idx])
		}
		if sum.FlowID != idx+1 {
			t.Errorf("flow id %d, want %d", sum.FlowID, idx+1)
		}
	}
}

func TestWriteReport(t *testing.T) {
	fm := CreateFlowMonitor()
	pkt := &Packet{SizeBytes: 1024, Flow: testFlow(49161)}
	fm.ReportTx(1.0, pkt)
	pkt.TxTime = 1.0
	fm.ReportRx(1.2, pkt)

	var sb strings.Builder
	fm.WriteReport(&sb)
	report := sb.String()

	for _, want := range []string{
		"Flow 1 (10.1.1.1 -> 10.1.1.2)",
		"Tx Packets:   1",
		"Rx Packets:   1",
		"Lost Packets: 0",
		"Avg Delay:    0.2 s",
		"-----------------------------------------",
	} {
		if !strings.Contains(report, want) {
			t.Errorf("report missing %q:\n%s", want, report)
		}
	}
}

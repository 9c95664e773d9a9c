package wdm

// channel.go contains code and data structures supporting the
// simulation of traffic across the wavelength channels.  Each channel
// is a full-duplex point-to-point connection between the same two
// endpoints, with its own data rate, one-way propagation delay, and a
// receive-side optical error model.

import (
	"fmt"

	"github.com/iti/evt/evtm"
	"github.com/iti/evt/vrtime"
)

// A Packet is the unit of traffic crossing a channel.  It exists from
// the moment a generator emits it until it is delivered or dropped; in
// flight it is owned by the channel carrying it.
type Packet struct {
	SizeBytes int
	Flow      FiveTuple
	TxTime    float64 // simulation time the transmission started
	Payload   any     // opaque application payload
}

// a channelDir is one direction of a full-duplex channel.  The optical
// error model, when attached, sits at the receiving side and decides
// corruption at arrival time.
type channelDir struct {
	chn      *channelStruct
	from     *endpt
	to       *endpt
	errModel *OpticalErrorModel // receive-side model, may be nil
}

// reverseDir returns the opposite direction of the same channel
func (cd *channelDir) reverseDir() *channelDir {
	if cd == cd.chn.forward {
		return cd.chn.reverse
	}
	return cd.chn.forward
}

// The channelStruct holds the run-time representation of one wavelength.
// Two instances coexist between the same endpoint pair, independently
// parameterized and with distinct error model instances, so corruption
// decisions on the two wavelengths are statistically independent.
type channelStruct struct {
	name      string
	index     int           // wavelength index
	number    int           // unique integer id
	dataRate  float64       // bits per second
	propDelay float64       // one-way propagation delay, seconds
	forward   *channelDir   // endpoint A to endpoint B
	reverse   *channelDir   // endpoint B to endpoint A
	monitor   *FlowMonitor
	trace     *PcktTraceMgr // may be nil when tracing is off
}

// createChannel is a constructor.  Zero or negative rate and delay are
// configuration errors caught here, before any event is scheduled.
func createChannel(name string, index int, dataRate, propDelay float64,
	eptA, eptB *endpt, monitor *FlowMonitor) (*channelStruct, error) {

	if !(dataRate > 0.0) {
		return nil, fmt.Errorf("channel %s: data rate %g not positive", name, dataRate)
	}
	if !(propDelay > 0.0) {
		return nil, fmt.Errorf("channel %s: propagation delay %g not positive", name, propDelay)
	}

	chn := new(channelStruct)
	chn.name = name
	chn.index = index
	chn.number = nxtID()
	chn.dataRate = dataRate
	chn.propDelay = propDelay
	chn.monitor = monitor
	chn.forward = &channelDir{chn: chn, from: eptA, to: eptB}
	chn.reverse = &channelDir{chn: chn, from: eptB, to: eptA}
	return chn, nil
}

// setRecvErrorModel attaches an error model to the direction whose
// receiving side is the named endpoint
func (chn *channelStruct) setRecvErrorModel(ept *endpt, em *OpticalErrorModel) {
	if chn.forward.to == ept {
		chn.forward.errModel = em
		return
	}
	chn.reverse.errModel = em
}

// tracePckt records a packet event in the channel's trace, when one is
// being gathered
func (chn *channelStruct) tracePckt(time float64, op string, pkt *Packet) {
	if chn.trace == nil {
		return
	}
	chn.trace.AddTrace(time, op, pkt)
}

// send reports the transmission to the flow monitor and schedules the
// arrival event at now + transmission time + propagation delay
func (cd *channelDir) send(evtMgr *evtm.EventManager, pkt *Packet) {
	now := evtMgr.CurrentSeconds()
	pkt.TxTime = now
	cd.chn.monitor.ReportTx(now, pkt)
	cd.chn.tracePckt(now, "send", pkt)

	delay := float64(pkt.SizeBytes*8)/cd.chn.dataRate + cd.chn.propDelay
	evtMgr.Schedule(cd, pkt, arriveChannelDir, vrtime.SecondsToTime(delay))
}

// arriveChannelDir implements the event handler for the arrival of a
// packet at the receiving side of a channel direction.  The receive-side
// error model, when attached, decides corruption; a corrupted packet is
// dropped silently, surfacing only in the loss counters.  A clean packet
// is recorded as received and handed to the receiving endpoint.
func arriveChannelDir(evtMgr *evtm.EventManager, context any, msg any) any {
	cd := context.(*channelDir)
	pkt := msg.(*Packet)
	now := evtMgr.CurrentSeconds()

	if cd.errModel != nil && cd.errModel.ShouldCorrupt(pkt.SizeBytes) {
		cd.chn.monitor.ReportLost(pkt)
		cd.chn.tracePckt(now, "drop", pkt)
		return nil
	}

	cd.chn.monitor.ReportRx(now, pkt)
	cd.chn.tracePckt(now, "recv", pkt)
	cd.to.deliver(evtMgr, cd, pkt)

	// event handlers are required to return _something_
	return nil
}

package wdm

// traffic.go holds the request/response traffic generators: one echo
// client and one echo server per channel.  Clients emit a timed
// sequence of fixed-size requests; the server answers each request with
// a response of identical size addressed back to the requester.

import (
	"math"

	"github.com/iti/evt/evtm"
	"github.com/iti/evt/vrtime"
)

// inter-packet gap models a client may be configured with
const (
	constModel = "const"
	exponModel = "expon"
)

// an echoServer passively listens on its port and echoes every request
type echoServer struct {
	port int
	pkts int // requests served
}

// createEchoServer is a constructor
func createEchoServer(port int) *echoServer {
	es := new(echoServer)
	es.port = port
	return es
}

// install registers the server on the endpoint that hosts it
func (es *echoServer) install(ept *endpt) {
	ept.registerHandler(es.port, es.receive)
}

// receive handles an arrived request: immediately emit a response of
// identical size on the same channel, five-tuple reversed
func (es *echoServer) receive(evtMgr *evtm.EventManager, cd *channelDir, pkt *Packet) {
	es.pkts += 1

	resp := new(Packet)
	resp.SizeBytes = pkt.SizeBytes
	resp.Flow = FiveTuple{
		SrcAddr:  pkt.Flow.DstAddr,
		DstAddr:  pkt.Flow.SrcAddr,
		SrcPort:  pkt.Flow.DstPort,
		DstPort:  pkt.Flow.SrcPort,
		Protocol: pkt.Flow.Protocol,
	}
	cd.reverseDir().send(evtMgr, resp)
}

// an echoClient emits maxPackets requests of packetSize bytes, one per
// interval of simulated time, between its start and stop times.
// Whichever of the packet budget and the stop time is reached first
// terminates generation.
type echoClient struct {
	dir        *channelDir // direction requests travel
	flow       FiveTuple
	maxPackets int
	interval   float64
	packetSize int
	startTime  float64
	stopTime   float64
	model      string        // inter-packet gap model, "const" or "expon"
	src        UniformSource // sampled for "expon" gaps
	sent       int
}

// createEchoClient is a constructor, binding a traffic description to
// the channel direction the requests travel
func createEchoClient(dir *channelDir, flow FiveTuple, td TrafficDesc, src UniformSource) *echoClient {
	ec := new(echoClient)
	ec.dir = dir
	ec.flow = flow
	ec.maxPackets = td.MaxPackets
	ec.interval = td.Interval
	ec.packetSize = td.PacketSize
	ec.startTime = td.StartTime
	ec.stopTime = td.StopTime
	ec.model = td.Model
	ec.src = src
	return ec
}

// start schedules the client's first transmission at its start time
func (ec *echoClient) start(evtMgr *evtm.EventManager) {
	evtMgr.Schedule(ec, nil, clientSendPckt, vrtime.SecondsToTime(ec.startTime))
}

// clientSendPckt implements the event handler for one client
// transmission.  It emits a request and reschedules itself until the
// packet budget or the stop time is exhausted.  Events scheduled past
// the simulation horizon are simply never reached, so no explicit
// cancellation is needed.
func clientSendPckt(evtMgr *evtm.EventManager, context any, msg any) any {
	ec := context.(*echoClient)
	now := evtMgr.CurrentSeconds()

	if ec.sent >= ec.maxPackets || now >= ec.stopTime {
		return nil
	}

	pkt := new(Packet)
	pkt.SizeBytes = ec.packetSize
	pkt.Flow = ec.flow
	ec.dir.send(evtMgr, pkt)
	ec.sent += 1

	if ec.sent < ec.maxPackets {
		evtMgr.Schedule(ec, nil, clientSendPckt, vrtime.SecondsToTime(ec.nxtGap()))
	}

	// event handlers are required to return _something_
	return nil
}

// nxtGap samples the next inter-packet gap under the configured model
func (ec *echoClient) nxtGap() float64 {
	if ec.model == exponModel {
		return expRV(ec.src.RandU01(), 1.0/ec.interval)
	}
	return ec.interval
}

// expRV returns a sample of an exponentially distributed random number
func expRV(u01, rate float64) float64 {
	return -math.Log(1.0-u01) / rate
}

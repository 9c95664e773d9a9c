package wdm

// endpt.go holds the run-time representation of the two network
// endpoints the wavelength channels connect.

import (
	"github.com/iti/evt/evtm"
)

// utility for generating unique integer ids on demand
var numIDs int = 0

// nxtID creates an id unique among the objects created within this module
func nxtID() int {
	numIDs += 1
	return numIDs
}

// a pcktHandler consumes a packet delivered to an endpoint.  The
// channel direction the packet arrived on is included so an application
// can respond on the same channel.
type pcktHandler func(evtMgr *evtm.EventManager, cd *channelDir, pkt *Packet)

// an endpt is one side of the simulated link.  It carries one address
// per channel (each channel draws its endpoint addresses from its own
// subnet) and a table of applications keyed by destination port.
type endpt struct {
	name     string
	id       int
	addrs    map[int]string      // address indexed by channel
	handlers map[int]pcktHandler // application indexed by port
}

// createEndpt is a constructor
func createEndpt(name string) *endpt {
	ept := new(endpt)
	ept.name = name
	ept.id = nxtID()
	ept.addrs = make(map[int]string)
	ept.handlers = make(map[int]pcktHandler)
	return ept
}

// setAddr records the address the endpoint uses on the indexed channel
func (ept *endpt) setAddr(chnIdx int, addr string) {
	ept.addrs[chnIdx] = addr
}

// addr returns the address the endpoint uses on the indexed channel
func (ept *endpt) addr(chnIdx int) string {
	return ept.addrs[chnIdx]
}

// registerHandler binds a port to the application that consumes packets
// addressed to it
func (ept *endpt) registerHandler(port int, handler pcktHandler) {
	ept.handlers[port] = handler
}

// deliver hands an arrived packet to the application registered on the
// packet's destination port.  Arrivals with no consumer (e.g. echo
// responses reaching a client) are observed by the flow monitor only.
func (ept *endpt) deliver(evtMgr *evtm.EventManager, cd *channelDir, pkt *Packet) {
	handler, present := ept.handlers[pkt.Flow.DstPort]
	if !present {
		return
	}
	handler(evtMgr, cd, pkt)
}

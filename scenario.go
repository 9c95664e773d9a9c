package wdm

// scenario.go assembles a validated scenario description into a running
// experiment: two endpoints, one channel per described wavelength, an
// echo server and client per channel, and a shared flow monitor.

import (
	"fmt"
	"path/filepath"

	"github.com/iti/evt/evtm"
)

// port numbering conventions for the echo traffic
const (
	serverPortBase = 9000
	clientPortBase = 49153
)

// channelAddr gives the address of a host on the indexed channel's
// subnet.  Each channel draws addresses from its own /24.
func channelAddr(chnIdx, host int) string {
	return fmt.Sprintf("10.1.%d.%d", chnIdx+1, host)
}

// An Experiment is the run-time assembly of a scenario: the simulated
// objects, the flow monitor they report to, and the per-channel traces
type Experiment struct {
	Desc      *ScenarioDesc
	Monitor   *FlowMonitor
	channels  []*channelStruct
	clients   []*echoClient
	servers   []*echoServer
	traceMgrs []*PcktTraceMgr
	endptA    *endpt
	endptB    *endpt
}

// BuildExperiment validates a scenario description and builds the
// simulated objects it describes.  All configuration errors surface
// here, before any event is scheduled.
func BuildExperiment(desc *ScenarioDesc, src UniformSource, tracing bool) (*Experiment, error) {
	verr := desc.validate()
	if verr != nil {
		return nil, verr
	}

	ex := new(Experiment)
	ex.Desc = desc
	ex.Monitor = CreateFlowMonitor()
	ex.endptA = createEndpt("endpt-A")
	ex.endptB = createEndpt("endpt-B")

	for idx, cd := range desc.Channels {
		ex.endptA.setAddr(idx, channelAddr(idx, 1))
		ex.endptB.setAddr(idx, channelAddr(idx, 2))

		chnName := fmt.Sprintf("%s-wavelength-%d", desc.Name, idx)
		chn, cerr := createChannel(chnName, idx, cd.DataRate, cd.Delay,
			ex.endptA, ex.endptB, ex.Monitor)
		if cerr != nil {
			return nil, cerr
		}

		// each channel gets its own error model instance, so the
		// corruption decisions of the wavelengths stay independent
		em, eerr := CreateOpticalErrorModel(cd.Ber, cd.SnrDb, src)
		if eerr != nil {
			return nil, fmt.Errorf("channel %d: %w", idx, eerr)
		}
		chn.setRecvErrorModel(ex.endptB, em)

		tm := createPcktTraceMgr(chnName, tracing)
		chn.trace = tm
		ex.traceMgrs = append(ex.traceMgrs, tm)

		port := serverPortBase + idx
		srvr := createEchoServer(port)
		srvr.install(ex.endptB)

		flow := FiveTuple{
			SrcAddr:  ex.endptA.addr(idx),
			DstAddr:  ex.endptB.addr(idx),
			SrcPort:  clientPortBase + idx,
			DstPort:  port,
			Protocol: ProtocolUDP,
		}
		clnt := createEchoClient(chn.forward, flow, cd.Client, src)

		ex.channels = append(ex.channels, chn)
		ex.servers = append(ex.servers, srvr)
		ex.clients = append(ex.clients, clnt)
	}
	return ex, nil
}

// Run starts the traffic generators, advances the event clock to the
// scenario stop time, and folds still-unresolved packets into the loss
// counters
func (ex *Experiment) Run(evtMgr *evtm.EventManager) {
	for _, clnt := range ex.clients {
		clnt.start(evtMgr)
	}
	evtMgr.Run(ex.Desc.StopTime)
	ex.Monitor.CheckForLostPackets()
}

// WriteTraces serializes each channel's gathered trace into the named
// directory, one yaml file per channel
func (ex *Experiment) WriteTraces(dir string) error {
	errList := []error{}
	for _, tm := range ex.traceMgrs {
		if !tm.Active() {
			continue
		}
		filename := filepath.Join(dir, tm.Channel+".yaml")
		errList = append(errList, tm.WriteToFile(filename))
	}
	return ReportErrs(errList)
}

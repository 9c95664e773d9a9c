package main

// wdmsim runs the two-wavelength optical link simulation.  With no
// arguments it runs the built-in asymmetric scenario; a yaml or json
// scenario file overrides it.  Per-flow statistics print to stdout at
// the end of the run, and -trace gathers per-channel packet traces.

import (
	"flag"
	"fmt"
	"os"
	"path"

	"github.com/iti/evt/evtm"
	"github.com/iti/wdm"
	"github.com/sirupsen/logrus"
)

var (
	maxPackets = flag.Int("maxPackets", 1000, "default packet budget for clients the scenario leaves unset")
	interval   = flag.Float64("interval", 0.01, "default inter-packet gap in seconds")
	packetSize = flag.Int("packetSize", 1024, "default packet size in bytes")
	seed       = flag.Uint64("seed", 1234567, "master seed of the random number streams")
	configFile = flag.String("config", "", "scenario description file, .yaml or .json")
	tracing    = flag.Bool("trace", false, "gather per-channel packet traces")
	outputDir  = flag.String("outdir", ".", "directory trace files are written into")
)

func main() {
	flag.Parse()

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var desc *wdm.ScenarioDesc
	if len(*configFile) > 0 {
		useYAML := path.Ext(*configFile) != ".json"
		var rerr error
		desc, rerr = wdm.ReadScenarioCfg(*configFile, useYAML, []byte{})
		if rerr != nil {
			log.Fatalf("scenario file %s unreadable: %v", *configFile, rerr)
		}
		desc.ApplyDefaults(*maxPackets, *interval, *packetSize)
	} else {
		desc = wdm.DefaultScenario(*maxPackets, *interval, *packetSize)
	}

	wdm.SetMasterSeed(*seed)
	src := wdm.CreateUniformSource(desc.Name)

	ex, berr := wdm.BuildExperiment(desc, src, *tracing)
	if berr != nil {
		log.Fatalf("scenario %s misconfigured: %v", desc.Name, berr)
	}

	log.Infof("scenario %s: %d channels, stop time %g s", desc.Name, len(desc.Channels), desc.StopTime)

	evtMgr := evtm.New()
	ex.Run(evtMgr)

	if *tracing {
		terr := ex.WriteTraces(*outputDir)
		if terr != nil {
			log.Errorf("trace output: %v", terr)
		}
	}

	fmt.Println("\n========== Simulation Results ==========")
	ex.Monitor.WriteReport(os.Stdout)
	fmt.Println("Done.")
}

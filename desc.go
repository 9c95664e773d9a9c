package wdm

// desc.go holds the serializable description of a scenario: the two (or
// more) wavelength channels, their error model parameters, and the echo
// traffic offered on each.  Descriptions are validated before any clock
// starts, so a malformed configuration never consumes simulated time.

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"path"
	"strings"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"
)

// gap models a traffic description may name
var trafficModels []string = []string{constModel, exponModel}

// A TrafficDesc describes the echo traffic a client offers on one
// channel.  A zero Model means constant inter-packet gaps.
type TrafficDesc struct {
	MaxPackets int     `json:"maxpackets" yaml:"maxpackets"`
	Interval   float64 `json:"interval" yaml:"interval"`
	PacketSize int     `json:"packetsize" yaml:"packetsize"`
	StartTime  float64 `json:"starttime" yaml:"starttime"`
	StopTime   float64 `json:"stoptime" yaml:"stoptime"`
	Model      string  `json:"model" yaml:"model"`
}

// A ChannelDesc describes one wavelength channel: its transmission
// parameters, the error model on its receive side, and its traffic
type ChannelDesc struct {
	DataRate float64     `json:"datarate" yaml:"datarate"` // bits per second
	Delay    float64     `json:"delay" yaml:"delay"`       // one-way, seconds
	Ber      float64     `json:"ber" yaml:"ber"`
	SnrDb    float64     `json:"snrdb" yaml:"snrdb"`
	Client   TrafficDesc `json:"client" yaml:"client"`
}

// A ScenarioDesc gathers the complete description of an experiment
type ScenarioDesc struct {
	Name     string        `json:"name" yaml:"name"`
	StopTime float64       `json:"stoptime" yaml:"stoptime"`
	Channels []ChannelDesc `json:"channels" yaml:"channels"`
}

// ReadScenarioCfg deserializes a byte slice holding a representation of
// a ScenarioDesc, and returns a pointer to it.  If the input argument of
// dict (those bytes) is empty, the file whose name is given is read to
// acquire them.
func ReadScenarioCfg(filename string, useYAML bool, dict []byte) (*ScenarioDesc, error) {
	var err error
	if len(dict) == 0 {
		dict, err = os.ReadFile(filename)
		if err != nil {
			return nil, err
		}
	}

	example := ScenarioDesc{}
	if useYAML {
		err = yaml.Unmarshal(dict, &example)
	} else {
		err = json.Unmarshal(dict, &example)
	}
	if err != nil {
		return nil, err
	}
	return &example, nil
}

// WriteToFile serializes the ScenarioDesc and writes it to the file
// whose name is given.  Output file extension identifies whether
// serialization is to json or yaml.
func (sd *ScenarioDesc) WriteToFile(filename string) error {
	pathExt := path.Ext(filename)
	var bytes []byte
	var merr error

	if pathExt == ".yaml" || pathExt == ".YAML" || pathExt == ".yml" {
		bytes, merr = yaml.Marshal(*sd)
	} else if pathExt == ".json" || pathExt == ".JSON" {
		bytes, merr = json.MarshalIndent(*sd, "", "\t")
	} else {
		return fmt.Errorf("scenario file %s requires extension .yaml or .json", filename)
	}
	if merr != nil {
		return merr
	}
	return os.WriteFile(filename, bytes, 0644)
}

// validate checks the scenario description for configuration errors,
// gathering every problem found rather than stopping at the first
func (sd *ScenarioDesc) validate() error {
	errList := []error{}

	if !(sd.StopTime > 0.0) {
		errList = append(errList, fmt.Errorf("scenario stop time %g not positive", sd.StopTime))
	}
	if len(sd.Channels) == 0 {
		errList = append(errList, fmt.Errorf("scenario describes no channels"))
	}

	for idx, cd := range sd.Channels {
		if !(cd.DataRate > 0.0) {
			errList = append(errList, fmt.Errorf("channel %d data rate %g not positive", idx, cd.DataRate))
		}
		if !(cd.Delay > 0.0) {
			errList = append(errList, fmt.Errorf("channel %d delay %g not positive", idx, cd.Delay))
		}
		if math.IsNaN(cd.Ber) || cd.Ber < 0.0 || cd.Ber > 1.0 {
			errList = append(errList, fmt.Errorf("channel %d ber %g outside [0,1]", idx, cd.Ber))
		}

		td := cd.Client
		if td.MaxPackets <= 0 {
			errList = append(errList, fmt.Errorf("channel %d client max packets %d not positive", idx, td.MaxPackets))
		}
		if !(td.Interval > 0.0) {
			errList = append(errList, fmt.Errorf("channel %d client interval %g not positive", idx, td.Interval))
		}
		if td.PacketSize <= 0 {
			errList = append(errList, fmt.Errorf("channel %d client packet size %d not positive", idx, td.PacketSize))
		}
		if td.StartTime < 0.0 {
			errList = append(errList, fmt.Errorf("channel %d client start time %g negative", idx, td.StartTime))
		}
		if !(td.StopTime > td.StartTime) {
			errList = append(errList, fmt.Errorf("channel %d client stop time %g not after start time %g",
				idx, td.StopTime, td.StartTime))
		}
		if len(td.Model) > 0 && !slices.Contains(trafficModels, td.Model) {
			errList = append(errList, fmt.Errorf("channel %d client model %s not recognized", idx, td.Model))
		}
	}
	return ReportErrs(errList)
}

// ApplyDefaults fills zero-valued traffic fields from the command-line
// defaults, and unset client stop times from the scenario stop time.
// Fields a scenario file sets explicitly are left alone.
func (sd *ScenarioDesc) ApplyDefaults(maxPackets int, interval float64, packetSize int) {
	for idx := range sd.Channels {
		td := &sd.Channels[idx].Client
		if td.MaxPackets == 0 {
			td.MaxPackets = maxPackets
		}
		if td.Interval == 0.0 {
			td.Interval = interval
		}
		if td.PacketSize == 0 {
			td.PacketSize = packetSize
		}
		if td.StopTime == 0.0 {
			td.StopTime = sd.StopTime
		}
		if len(td.Model) == 0 {
			td.Model = constModel
		}
	}
}

// DefaultScenario builds the two-wavelength asymmetric scenario used
// when no configuration file is given: a fast low-noise channel with
// dense small-gap traffic, and a slow noisier channel with sparse
// traffic.
func DefaultScenario(maxPackets int, interval float64, packetSize int) *ScenarioDesc {
	sd := new(ScenarioDesc)
	sd.Name = "wdm-optical-asymmetric"
	sd.StopTime = 30.0
	sd.Channels = []ChannelDesc{
		{DataRate: 10e9, Delay: 0.002, Ber: 1e-7, SnrDb: 25.0,
			Client: TrafficDesc{MaxPackets: 2000, Interval: 0.002, PacketSize: 1024,
				StartTime: 2.0, StopTime: 30.0, Model: constModel}},
		{DataRate: 5e9, Delay: 0.005, Ber: 1e-6, SnrDb: 30.0,
			Client: TrafficDesc{MaxPackets: 500, Interval: 0.05, PacketSize: 512,
				StartTime: 3.0, StopTime: 30.0, Model: constModel}},
	}
	sd.ApplyDefaults(maxPackets, interval, packetSize)
	return sd
}

// ReportErrs transforms a list of errors and transforms the non-nil ones into a single error
// with comma-separated report of all the constituent errors, and returns it.
func ReportErrs(errs []error) (err error) {
	errMsg := make([]string, 0)
	for _, err := range errs {
		if err != nil {
			errMsg = append(errMsg, err.Error())
		}
	}
	if len(errMsg) == 0 {
		return nil
	}

	return errors.New(strings.Join(errMsg, ","))
}

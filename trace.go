package wdm

// trace.go holds the per-channel packet trace.  One trace manager is
// created per wavelength; when active it records every send, receive,
// and drop on that channel and serializes the record set at the end of
// the run.

import (
	"encoding/json"
	"fmt"
	"os"
	"path"

	"github.com/rs/xid"
	"gopkg.in/yaml.v3"
)

// a PcktTrace records one packet event on a channel
type PcktTrace struct {
	Time    float64 `json:"time" yaml:"time"`
	Op      string  `json:"op" yaml:"op"` // "send", "recv", or "drop"
	Size    int     `json:"size" yaml:"size"`
	SrcAddr string  `json:"srcaddr" yaml:"srcaddr"`
	DstAddr string  `json:"dstaddr" yaml:"dstaddr"`
	SrcPort int     `json:"srcport" yaml:"srcport"`
	DstPort int     `json:"dstport" yaml:"dstport"`
}

// The PcktTraceMgr gathers the packet events of one channel.  By
// testing the InUse flag before building a record the trace machinery
// costs nearly nothing when tracing is off.
type PcktTraceMgr struct {
	// experiment uses trace
	InUse bool `json:"inuse" yaml:"inuse"`

	// unique id of the run that produced the trace
	RunID string `json:"runid" yaml:"runid"`

	// name of the traced channel
	Channel string `json:"channel" yaml:"channel"`

	// all trace records for this channel
	Traces []PcktTrace `json:"traces" yaml:"traces"`
}

// createPcktTraceMgr is a constructor.  It saves the name of the traced
// channel and a flag indicating whether the manager is active.
func createPcktTraceMgr(channel string, active bool) *PcktTraceMgr {
	tm := new(PcktTraceMgr)
	tm.InUse = active
	tm.RunID = xid.New().String()
	tm.Channel = channel
	tm.Traces = make([]PcktTrace, 0)
	return tm
}

// Active tells the caller whether the trace manager is gathering records
func (tm *PcktTraceMgr) Active() bool {
	return tm.InUse
}

// AddTrace appends a packet event record, if the manager is active
func (tm *PcktTraceMgr) AddTrace(time float64, op string, pkt *Packet) {
	if !tm.InUse {
		return
	}
	tm.Traces = append(tm.Traces,
		PcktTrace{Time: time, Op: op, Size: pkt.SizeBytes,
			SrcAddr: pkt.Flow.SrcAddr, DstAddr: pkt.Flow.DstAddr,
			SrcPort: pkt.Flow.SrcPort, DstPort: pkt.Flow.DstPort})
}

// WriteToFile serializes the gathered trace and writes it to file whose
// name is given.  Serialization to json or yaml is selected based on the
// extension of this name.
func (tm *PcktTraceMgr) WriteToFile(filename string) error {
	pathExt := path.Ext(filename)
	var bytes []byte
	var merr error

	if pathExt == ".yaml" || pathExt == ".YAML" || pathExt == ".yml" {
		bytes, merr = yaml.Marshal(*tm)
	} else if pathExt == ".json" || pathExt == ".JSON" {
		bytes, merr = json.MarshalIndent(*tm, "", "\t")
	} else {
		return fmt.Errorf("trace file %s requires extension .yaml or .json", filename)
	}
	if merr != nil {
		return merr
	}

	f, cerr := os.Create(filename)
	if cerr != nil {
		return cerr
	}
	_, werr := f.Write(bytes)
	if werr != nil {
		f.Close()
		return werr
	}
	return f.Close()
}

package wdm

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateCatchesErrors(t *testing.T) {
	sd := &ScenarioDesc{
		Name:     "bad",
		StopTime: -1.0,
		Channels: []ChannelDesc{
			{DataRate: 0.0, Delay: 0.001, Ber: 1.5, SnrDb: 25.0,
				Client: TrafficDesc{MaxPackets: 0, Interval: 0.0, PacketSize: 0,
					StartTime: 5.0, StopTime: 1.0, Model: "burst"}},
		},
	}

	err := sd.validate()
	if err == nil {
		t.Fatalf("misconfigured scenario accepted")
	}

	msg := err.Error()
	for _, want := range []string{
		"stop time", "data rate", "ber", "max packets",
		"interval", "packet size", "model",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("validation error missing %q: %s", want, msg)
		}
	}
}

func TestValidateAcceptsDefault(t *testing.T) {
	sd := DefaultScenario(1000, 0.01, 1024)
	if err := sd.validate(); err != nil {
		t.Errorf("default scenario rejected: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	sd := &ScenarioDesc{
		Name:     "partial",
		StopTime: 10.0,
		Channels: []ChannelDesc{
			{DataRate: 1e9, Delay: 0.001, Ber: 0.0, SnrDb: 25.0,
				Client: TrafficDesc{MaxPackets: 42, StartTime: 1.0}},
		},
	}
	sd.ApplyDefaults(1000, 0.01, 1024)

	td := sd.Channels[0].Client
	if td.MaxPackets != 42 {
		t.Errorf("explicit max packets overwritten: %d", td.MaxPackets)
	}
	if td.Interval != 0.01 || td.PacketSize != 1024 {
		t.Errorf("defaults not applied: interval %g size %d", td.Interval, td.PacketSize)
	}
	if td.StopTime != 10.0 {
		t.Errorf("client stop time %g, want scenario stop time 10", td.StopTime)
	}
	if td.Model != constModel {
		t.Errorf("default model %q", td.Model)
	}
}

func TestScenarioYAMLRoundTrip(t *testing.T) {
	sd := DefaultScenario(1000, 0.01, 1024)
	filename := filepath.Join(t.TempDir(), "scenario.yaml")

	if err := sd.WriteToFile(filename); err != nil {
		t.Fatalf("WriteToFile: %v", err)
	}
	back, err := ReadScenarioCfg(filename, true, []byte{})
	if err != nil {
		t.Fatalf("ReadScenarioCfg: %v", err)
	}

	if back.Name != sd.Name || back.StopTime != sd.StopTime {
		t.Errorf("scenario header changed: %s %g", back.Name, back.StopTime)
	}
	if len(back.Channels) != len(sd.Channels) {
		t.Fatalf("channel count changed: %d", len(back.Channels))
	}
	for idx := range sd.Channels {
		if back.Channels[idx] != sd.Channels[idx] {
			t.Errorf("channel %d changed: %+v", idx, back.Channels[idx])
		}
	}
}

func TestScenarioJSONRoundTrip(t *testing.T) {
	sd := DefaultScenario(1000, 0.01, 1024)
	filename := filepath.Join(t.TempDir(), "scenario.json")

	if err := sd.WriteToFile(filename); err != nil {
		t.Fatalf("WriteToFile: %v", err)
	}
	back, err := ReadScenarioCfg(filename, false, []byte{})
	if err != nil {
		t.Fatalf("ReadScenarioCfg: %v", err)
	}
	if back.Channels[0].Ber != sd.Channels[0].Ber {
		t.Errorf("ber changed in round trip: %g", back.Channels[0].Ber)
	}
}

func TestWriteToFileRejectsUnknownExtension(t *testing.T) {
	sd := DefaultScenario(1000, 0.01, 1024)
	if err := sd.WriteToFile(filepath.Join(t.TempDir(), "scenario.txt")); err == nil {
		t.Errorf("unknown extension accepted")
	}
}

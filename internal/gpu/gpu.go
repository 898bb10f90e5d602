// internal/gpu/gpu.go
// Package gpu samples host GPU telemetry via nvidia-smi. Telemetry is
// best-effort: any failure yields a nil snapshot, never an aborted run.
package gpu

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// queryFields is the nvidia-smi query issued for each sample.
const queryFields = "utilization.gpu,memory.used,memory.total,temperature.gpu"

// Snapshot is a point-in-time reading of GPU state.
type Snapshot struct {
	UtilizationPct float64 `json:"utilization_pct"`
	MemoryUsedMB   float64 `json:"memory_used_mb"`
	MemoryTotalMB  float64 `json:"memory_total_mb"`
	TemperatureC   float64 `json:"temperature_c"`
}

// MemoryPct returns used memory as a percentage of total, or 0 when total is
// unknown.
func (s Snapshot) MemoryPct() float64 {
	if s.MemoryTotalMB <= 0 {
		return 0
	}
	return s.MemoryUsedMB / s.MemoryTotalMB * 100
}

func (s Snapshot) String() string {
	return fmt.Sprintf("util=%.0f%% mem=%.0f/%.0fMB temp=%.0fC",
		s.UtilizationPct, s.MemoryUsedMB, s.MemoryTotalMB, s.TemperatureC)
}

// Sampler reads current GPU state. A nil result means telemetry is
// unavailable; callers treat that as a normal value.
type Sampler interface {
	Sample() *Snapshot
}

// NVSMISampler shells out to nvidia-smi.
type NVSMISampler struct {
	Binary string
}

// NewSampler returns a sampler for the given binary, defaulting to "nvidia-smi".
func NewSampler(binary string) *NVSMISampler {
	if binary == "" {
		binary = "nvidia-smi"
	}
	return &NVSMISampler{Binary: binary}
}

// Sample queries the first GPU. Missing binary, query failure, or unparsable
// output all degrade to nil.
func (s *NVSMISampler) Sample() *Snapshot {
	out, err := exec.Command(s.Binary,
		"--query-gpu="+queryFields,
		"--format=csv,noheader,nounits",
		"--id=0",
	).Output()
	if err != nil {
		return nil
	}

	snap, err := parseSnapshot(string(out))
	if err != nil {
		return nil
	}
	return snap
}

// parseSnapshot decodes one comma-separated nvidia-smi line.
func parseSnapshot(line string) (*Snapshot, error) {
	fields := strings.Split(strings.TrimSpace(line), ",")
	if len(fields) != 4 {
		return nil, fmt.Errorf("expected 4 fields, got %d", len(fields))
	}

	values := make([]float64, 4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("field %d: %w", i, err)
		}
		values[i] = v
	}

	return &Snapshot{
		UtilizationPct: values[0],
		MemoryUsedMB:   values[1],
		MemoryTotalMB:  values[2],
		TemperatureC:   values[3],
	}, nil
}

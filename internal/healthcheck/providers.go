package healthcheck

import (
	"context"
	"runtime"
	"syscall"
	"time"
)

// CPUUsageProvider reports process CPU utilization, sampled over a short
// interval
type CPUUsageProvider struct {
	// SampleInterval defaults to 500ms when zero
	SampleInterval time.Duration
}

// Name implements Provider
func (p *CPUUsageProvider) Name() string { return "cpu:utilization" }

// Check samples process CPU time over the interval and reports it as a
// percentage of wall time
func (p *CPUUsageProvider) Check(ctx context.Context) (Component, error) {
	interval := p.SampleInterval
	if interval == 0 {
		interval = 500 * time.Millisecond
	}

	start, err := processCPUTime()
	if err != nil {
		return Component{}, err
	}
	startWall := time.Now()

	select {
	case <-ctx.Done():
		return Component{}, ctx.Err()
	case <-time.After(interval):
	}

	end, err := processCPUTime()
	if err != nil {
		return Component{}, err
	}
	elapsed := time.Since(startWall)

	return Component{
		ComponentType: "system",
		ObservedValue: float64(end-start) / float64(elapsed) * 100,
		ObservedUnit:  "%",
		Status:        StatusPass,
		Time:          time.Now().UTC(),
	}, nil
}

// processCPUTime returns the user+system CPU time consumed by this process
func processCPUTime() (time.Duration, error) {
	var usage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &usage); err != nil {
		return 0, err
	}
	return time.Duration(usage.Utime.Nano() + usage.Stime.Nano()), nil
}

// MemoryUsageProvider reports the memory obtained from the OS by the Go
// runtime
type MemoryUsageProvider struct{}

// Name implements Provider
func (p *MemoryUsageProvider) Name() string { return "memory:utilization" }

// Check implements Provider
func (p *MemoryUsageProvider) Check(context.Context) (Component, error) {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	return Component{
		ComponentType: "system",
		ObservedValue: stats.Sys,
		ObservedUnit:  "B",
		Status:        StatusPass,
		Time:          time.Now().UTC(),
	}, nil
}

// UptimeProvider reports time elapsed since process start
type UptimeProvider struct {
	start time.Time
}

// NewUptimeProvider creates an uptime provider anchored at the current time
func NewUptimeProvider() *UptimeProvider {
	return &UptimeProvider{start: time.Now()}
}

// Name implements Provider
func (p *UptimeProvider) Name() string { return "uptime" }

// Check implements Provider
func (p *UptimeProvider) Check(context.Context) (Component, error) {
	return Component{
		ComponentType: "system",
		ObservedValue: time.Since(p.start).Seconds(),
		ObservedUnit:  "s",
		Status:        StatusPass,
		Time:          time.Now().UTC(),
	}, nil
}

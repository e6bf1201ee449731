// Package metrics collects host-level figures for the status command:
// CPU, memory, swap, and filesystem pressure alongside a coarse health
// score. It deliberately samples once rather than streaming.
package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// DiskUsage describes one mounted filesystem
type DiskUsage struct {
	Path        string
	Fstype      string
	Total       uint64
	Free        uint64
	UsedPercent float64
}

// Snapshot is a single sample of host state
type Snapshot struct {
	Hostname string
	Uptime   time.Duration

	CPUPercent float64
	LoadAvg1   float64

	MemTotal   uint64
	MemUsed    uint64
	MemPercent float64

	SwapPercent float64

	Disks []DiskUsage
}

// Collect takes one sample. The CPU figure averages over a short window,
// so this blocks for about a second.
func Collect(ctx context.Context) (Snapshot, error) {
	var s Snapshot

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return s, fmt.Errorf("host info: %w", err)
	}
	s.Hostname = info.Hostname
	s.Uptime = time.Duration(info.Uptime) * time.Second

	cpuPcts, err := cpu.PercentWithContext(ctx, time.Second, false)
	if err != nil {
		return s, fmt.Errorf("cpu: %w", err)
	}
	if len(cpuPcts) > 0 {
		s.CPUPercent = cpuPcts[0]
	}

	if avg, err := load.AvgWithContext(ctx); err == nil {
		s.LoadAvg1 = avg.Load1
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return s, fmt.Errorf("memory: %w", err)
	}
	s.MemTotal = vm.Total
	s.MemUsed = vm.Used
	s.MemPercent = vm.UsedPercent

	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		s.SwapPercent = swap.UsedPercent
	}

	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return s, fmt.Errorf("partitions: %w", err)
	}
	for _, p := range parts {
		usage, err := disk.UsageWithContext(ctx, p.Mountpoint)
		if err != nil || usage.Total == 0 {
			continue
		}
		s.Disks = append(s.Disks, DiskUsage{
			Path:        p.Mountpoint,
			Fstype:      p.Fstype,
			Total:       usage.Total,
			Free:        usage.Free,
			UsedPercent: usage.UsedPercent,
		})
	}

	return s, nil
}

// HealthScore condenses a snapshot into a 0-100 score and a short
// explanation of what is dragging it down
func HealthScore(s Snapshot) (int, string) {
	score := 100
	var issues []string

	switch {
	case s.CPUPercent > 90:
		score -= 35
		issues = append(issues, "critical CPU load")
	case s.CPUPercent > 75:
		score -= 15
		issues = append(issues, "high CPU load")
	}

	switch {
	case s.MemPercent > 85:
		score -= 30
		issues = append(issues, "critical memory pressure")
	case s.MemPercent > 70:
		score -= 10
		issues = append(issues, "high memory usage")
	}

	if s.SwapPercent > 50 {
		score -= 10
		issues = append(issues, "heavy swapping")
	}

	for _, d := range s.Disks {
		switch {
		case d.UsedPercent > 95:
			score -= 30
			issues = append(issues, fmt.Sprintf("%s almost full", d.Path))
		case d.UsedPercent > 85:
			score -= 10
			issues = append(issues, fmt.Sprintf("%s filling up", d.Path))
		}
	}

	if score < 0 {
		score = 0
	}
	if len(issues) == 0 {
		return score, "system healthy"
	}
	return score, strings.Join(issues, ", ")
}

package tui

import (
	"context"
	"time"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// SystemStats summarizes the host's memory usage and the filesystem
// usage of the cache directory, shown on the Preflight modal's Summary
// tab alongside the install/remove action descriptor so a user can see
// at a glance whether there's room to build and install.
type SystemStats struct {
	MemUsedPercent  float64
	DiskUsedPercent float64
	DiskFreeBytes   uint64
}

// CollectSystemStats gathers SystemStats for cacheDir's filesystem,
// timing out after 3s since both calls shell out to /proc or syscalls
// that can stall on an overloaded host.
func CollectSystemStats(cacheDir string) (SystemStats, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var stats SystemStats

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return stats, err
	}
	stats.MemUsedPercent = vm.UsedPercent

	du, err := disk.UsageWithContext(ctx, cacheDir)
	if err != nil {
		return stats, err
	}
	stats.DiskUsedPercent = du.UsedPercent
	stats.DiskFreeBytes = du.Free

	return stats, nil
}

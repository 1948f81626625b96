package crawler

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// resourceMonitor gates how many concurrent browser-fetch tabs the crawler
// may run at once, backing off under memory or CPU pressure. Rather than
// creating/destroying pooled pages, it caps the batch size handed to the
// browser fetcher each round.
type resourceMonitor struct {
	safetyReserveBytes int64
	cpuThresholdPct    float64
	maxTabs            int

	mu            sync.Mutex
	cachedLimit   int
	lastSampledAt time.Time
}

const resourceCacheTTL = time.Second

// newResourceMonitor builds a resourceMonitor. safetyReserveMB reserves that
// much system memory as untouchable headroom; cpuThresholdPct >= 100 disables
// the CPU check.
func newResourceMonitor(safetyReserveMB int, cpuThresholdPct float64, maxTabs int) *resourceMonitor {
	if maxTabs <= 0 {
		maxTabs = 4
	}
	return &resourceMonitor{
		safetyReserveBytes: int64(safetyReserveMB) * 1024 * 1024,
		cpuThresholdPct:    cpuThresholdPct,
		maxTabs:            maxTabs,
	}
}

// MaxConcurrentTabs returns how many browser fetches may run right now,
// never above maxTabs, clamped down when memory is tight or CPU is loaded.
// Results are cached for resourceCacheTTL to avoid syscalling on every task.
func (m *resourceMonitor) MaxConcurrentTabs() int {
	m.mu.Lock()
	if time.Since(m.lastSampledAt) < resourceCacheTTL && m.cachedLimit > 0 {
		limit := m.cachedLimit
		m.mu.Unlock()
		return limit
	}
	m.mu.Unlock()

	limit := m.maxTabs

	if vm, err := mem.VirtualMemory(); err == nil {
		available := int64(vm.Available) - m.safetyReserveBytes
		if available <= 0 {
			limit = 1
		} else {
			// Budget ~150MB per concurrent browser tab.
			byMemory := int(available / (150 * 1024 * 1024))
			if byMemory < 1 {
				byMemory = 1
			}
			if byMemory < limit {
				limit = byMemory
			}
		}
	} else {
		log.Debug().Err(err).Msg("resource monitor: memory sample failed, using configured cap")
	}

	if m.cpuThresholdPct < 100 {
		if pct, err := cpu.Percent(0, false); err == nil && len(pct) > 0 {
			if pct[0] > m.cpuThresholdPct {
				limit = 1
			}
		}
	}

	if limit < 1 {
		limit = 1
	}

	m.mu.Lock()
	m.cachedLimit = limit
	m.lastSampledAt = time.Now()
	m.mu.Unlock()

	return limit
}

package sysglance

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// LocalSource reads CPU and memory utilization of the machine the
// applet runs on. CPU uses interval=0, i.e. the delta since the
// previous Refresh, which lines up with the one-second sampling gate.
type LocalSource struct {
	cpuPct float64
	used   uint64
	total  uint64
}

func NewLocalSource() *LocalSource {
	return &LocalSource{}
}

func (s *LocalSource) Refresh() error {
	pcts, err := cpu.Percent(0, false)
	if err != nil {
		return fmt.Errorf("read cpu utilization: %w", err)
	}
	if len(pcts) > 0 {
		s.cpuPct = pcts[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Errorf("read memory: %w", err)
	}
	s.used = vm.Used
	s.total = vm.Total
	return nil
}

func (s *LocalSource) CPUPercent() float64 {
	return s.cpuPct
}

func (s *LocalSource) Memory() (used, total uint64) {
	return s.used, s.total
}

package sysglance

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// NodeExporterSource reads utilization from a node_exporter /metrics
// endpoint. CPU utilization is computed from the growth of
// node_cpu_seconds_total between two refreshes, so the first refresh
// after startup reports 0% CPU.
type NodeExporterSource struct {
	url    *url.URL
	client *http.Client

	cpuPct float64
	used   uint64
	total  uint64

	prevIdle  float64
	prevTotal float64
	hasPrev   bool
}

func NewNodeExporterSource(u *url.URL) *NodeExporterSource {
	return &NodeExporterSource{
		url: u,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Check scrapes the endpoint once and verifies the metric families the
// source depends on are exported.
func (s *NodeExporterSource) Check() error {
	families, err := s.scrape()
	if err != nil {
		return err
	}
	for _, name := range []string{"node_cpu_seconds_total", "node_memory_MemTotal_bytes", "node_memory_MemAvailable_bytes"} {
		if _, ok := families[name]; !ok {
			return fmt.Errorf("node_exporter at %s does not export %s", s.url, name)
		}
	}
	return nil
}

func (s *NodeExporterSource) Refresh() error {
	families, err := s.scrape()
	if err != nil {
		return err
	}

	idle, totalCPU, err := cpuSeconds(families["node_cpu_seconds_total"])
	if err != nil {
		return err
	}
	if s.hasPrev && totalCPU > s.prevTotal {
		busy := (totalCPU - s.prevTotal) - (idle - s.prevIdle)
		s.cpuPct = busy / (totalCPU - s.prevTotal) * 100
	} else {
		s.cpuPct = 0
	}
	s.prevIdle = idle
	s.prevTotal = totalCPU
	s.hasPrev = true

	memTotal, err := gaugeValue(families["node_memory_MemTotal_bytes"])
	if err != nil {
		return fmt.Errorf("node_memory_MemTotal_bytes: %w", err)
	}
	memAvailable, err := gaugeValue(families["node_memory_MemAvailable_bytes"])
	if err != nil {
		return fmt.Errorf("node_memory_MemAvailable_bytes: %w", err)
	}
	s.total = uint64(memTotal)
	if memAvailable < memTotal {
		s.used = uint64(memTotal - memAvailable)
	} else {
		s.used = 0
	}
	return nil
}

func (s *NodeExporterSource) CPUPercent() float64 {
	return s.cpuPct
}

func (s *NodeExporterSource) Memory() (used, total uint64) {
	return s.used, s.total
}

func (s *NodeExporterSource) scrape() (map[string]*dto.MetricFamily, error) {
	resp, err := s.client.Get(s.url.String())
	if err != nil {
		return nil, fmt.Errorf("query node_exporter: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read node_exporter response: %w", err)
	}

	parser := expfmt.TextParser{}
	families, err := parser.TextToMetricFamilies(strings.NewReader(string(body)))
	if err != nil {
		return nil, fmt.Errorf("parse node_exporter metrics: %w", err)
	}
	return families, nil
}

// cpuSeconds sums node_cpu_seconds_total over all cores, returning the
// idle share and the total across all modes.
func cpuSeconds(family *dto.MetricFamily) (idle, total float64, err error) {
	if family == nil {
		return 0, 0, fmt.Errorf("node_cpu_seconds_total missing from scrape")
	}
	for _, metric := range family.GetMetric() {
		value := metric.GetCounter().GetValue()
		total += value
		for _, label := range metric.GetLabel() {
			if label.GetName() == "mode" && label.GetValue() == "idle" {
				idle += value
			}
		}
	}
	return idle, total, nil
}

func gaugeValue(family *dto.MetricFamily) (float64, error) {
	if family == nil {
		return 0, fmt.Errorf("missing from scrape")
	}
	metrics := family.GetMetric()
	if len(metrics) == 0 {
		return 0, fmt.Errorf("no samples in scrape")
	}
	return metrics[0].GetGauge().GetValue(), nil
}

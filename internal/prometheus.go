package sysglance

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/api"
	v1 "github.com/prometheus/client_golang/api/prometheus/v1"
	"github.com/prometheus/common/model"
)

// PrometheusSource reads utilization of one node_exporter target
// through a Prometheus server, using instant queries. Instance is an
// optional instance label filter; with several targets and no filter
// the first sample of the result vector wins.
type PrometheusSource struct {
	client   api.Client
	url      *url.URL
	instance string

	cpuPct float64
	used   uint64
	total  uint64
}

func NewPrometheusSource(u *url.URL) (*PrometheusSource, error) {
	client, err := api.NewClient(api.Config{
		Address: u.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("create prometheus client: %w", err)
	}
	return &PrometheusSource{client: client, url: u}, nil
}

// SetInstance restricts queries to one node_exporter instance.
func (s *PrometheusSource) SetInstance(instance string) {
	s.instance = instance
}

// Check verifies API connectivity and that a node_exporter job is
// being scraped.
func (s *PrometheusSource) Check() error {
	v1api := v1.NewAPI(s.client)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, _, err := v1api.Query(ctx, "up", time.Now()); err != nil {
		return fmt.Errorf("prometheus API query failed: %w", err)
	}

	result, _, err := v1api.Query(ctx, `up{job="node_exporter"}`, time.Now())
	if err != nil {
		return fmt.Errorf("node_exporter job query failed: %w", err)
	}
	if result.(model.Vector).Len() == 0 {
		return fmt.Errorf("no node_exporter targets found in prometheus")
	}
	return nil
}

func (s *PrometheusSource) Refresh() error {
	cpuQuery := fmt.Sprintf(
		"100 - (avg(rate(node_cpu_seconds_total{%smode=\"idle\"}[%s])) * 100)",
		s.instanceSelector(), WindowString(),
	)
	cpuPct, err := s.scalarQuery(cpuQuery)
	if err != nil {
		return fmt.Errorf("cpu query: %w", err)
	}

	memTotal, err := s.scalarQuery(fmt.Sprintf("node_memory_MemTotal_bytes{%s}", s.instanceSelector()))
	if err != nil {
		return fmt.Errorf("memory total query: %w", err)
	}
	memAvailable, err := s.scalarQuery(fmt.Sprintf("node_memory_MemAvailable_bytes{%s}", s.instanceSelector()))
	if err != nil {
		return fmt.Errorf("memory available query: %w", err)
	}

	s.cpuPct = cpuPct
	s.total = uint64(memTotal)
	if memAvailable < memTotal {
		s.used = uint64(memTotal - memAvailable)
	} else {
		s.used = 0
	}
	return nil
}

func (s *PrometheusSource) CPUPercent() float64 {
	return s.cpuPct
}

func (s *PrometheusSource) Memory() (used, total uint64) {
	return s.used, s.total
}

func (s *PrometheusSource) instanceSelector() string {
	if s.instance == "" {
		return ""
	}
	return fmt.Sprintf("instance=%q,", s.instance)
}

func (s *PrometheusSource) scalarQuery(query string) (float64, error) {
	v1api := v1.NewAPI(s.client)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, warnings, err := v1api.Query(ctx, query, time.Now())
	if err != nil {
		return 0, err
	}
	if len(warnings) > 0 {
		return 0, fmt.Errorf("query warnings: %v", warnings)
	}
	vector, ok := result.(model.Vector)
	if !ok || vector.Len() == 0 {
		return 0, fmt.Errorf("empty result for %q", query)
	}
	return float64(vector[0].Value), nil
}

package sysglance

import (
	"fmt"
	"log"
	"net/url"
)

// Source supplies instantaneous utilization readings. Refresh takes one
// snapshot; the accessors report values consistent at the instant of
// that snapshot and are cheap synchronous calls.
type Source interface {
	// Refresh takes a new snapshot of CPU and memory state.
	Refresh() error
	// CPUPercent returns the CPU utilization of the last snapshot,
	// nominally in [0, 100].
	CPUPercent() float64
	// Memory returns used and total memory of the last snapshot, in
	// the same units.
	Memory() (used, total uint64)
}

// checker is implemented by remote sources that can probe connectivity
// before being selected.
type checker interface {
	Check() error
}

// DetectedSource holds a chosen source and its display name.
type DetectedSource struct {
	Source Source
	Name   string
}

// DetectSource picks a metric source from the configured backends.
// Explicit selection ("local", "node-exporter", "prometheus") is
// honored; "auto" tries Prometheus, then node_exporter, then falls
// back to local readings.
func DetectSource(kind string, prometheusURL, nodeExporterURL *url.URL) (DetectedSource, error) {
	switch kind {
	case "local":
		return DetectedSource{Source: NewLocalSource(), Name: "local"}, nil
	case "prometheus":
		return probePrometheus(prometheusURL)
	case "node-exporter":
		return probeNodeExporter(nodeExporterURL)
	case "auto":
	default:
		return DetectedSource{}, fmt.Errorf("unknown source %q", kind)
	}

	if prometheusURL != nil {
		if d, err := probePrometheus(prometheusURL); err == nil {
			return d, nil
		} else {
			log.Printf("Prometheus check failed: %v", err)
		}
	}
	if nodeExporterURL != nil {
		if d, err := probeNodeExporter(nodeExporterURL); err == nil {
			return d, nil
		} else {
			log.Printf("node_exporter check failed: %v", err)
		}
	}
	log.Printf("Using local backend")
	return DetectedSource{Source: NewLocalSource(), Name: "local"}, nil
}

func probePrometheus(u *url.URL) (DetectedSource, error) {
	if u == nil {
		return DetectedSource{}, fmt.Errorf("prometheus_url is not set")
	}
	log.Printf("Trying Prometheus backend: %s", u)
	src, err := NewPrometheusSource(u)
	if err != nil {
		return DetectedSource{}, fmt.Errorf("create prometheus client: %w", err)
	}
	if err := src.Check(); err != nil {
		return DetectedSource{}, err
	}
	log.Printf("✓ Found Prometheus backend at %s", u)
	return DetectedSource{Source: src, Name: u.Host}, nil
}

func probeNodeExporter(u *url.URL) (DetectedSource, error) {
	if u == nil {
		return DetectedSource{}, fmt.Errorf("node_exporter_url is not set")
	}
	log.Printf("Trying node_exporter backend: %s", u)
	src := NewNodeExporterSource(u)
	if err := src.Check(); err != nil {
		return DetectedSource{}, err
	}
	log.Printf("✓ Found node_exporter backend at %s", u)
	return DetectedSource{Source: src, Name: u.Host}, nil
}

package sysglance

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// promVector formats a single-sample instant vector API response.
func promVector(values ...string) string {
	samples := make([]string, len(values))
	for i, v := range values {
		samples[i] = fmt.Sprintf(`{"metric":{"instance":"node1:9100"},"value":[1700000000.000,"%s"]}`, v)
	}
	return fmt.Sprintf(`{"status":"success","data":{"resultType":"vector","result":[%s]}}`, strings.Join(samples, ","))
}

func newPromStub(t *testing.T, handler func(query string) string) *PrometheusSource {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query := r.FormValue("query")
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, handler(query))
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	src, err := NewPrometheusSource(u)
	require.NoError(t, err)
	return src
}

func TestPrometheusCheck(t *testing.T) {
	src := newPromStub(t, func(query string) string {
		return promVector("1")
	})

	assert.NoError(t, src.Check())
}

func TestPrometheusCheckNoNodeExporterTargets(t *testing.T) {
	src := newPromStub(t, func(query string) string {
		if strings.Contains(query, "node_exporter") {
			return promVector()
		}
		return promVector("1")
	})

	err := src.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no node_exporter targets")
}

func TestPrometheusRefresh(t *testing.T) {
	src := newPromStub(t, func(query string) string {
		switch {
		case strings.Contains(query, "node_cpu_seconds_total"):
			return promVector("37.6")
		case strings.Contains(query, "MemTotal"):
			return promVector("8192")
		case strings.Contains(query, "MemAvailable"):
			return promVector("4096")
		}
		return promVector()
	})

	require.NoError(t, src.Refresh())

	assert.InDelta(t, 37.6, src.CPUPercent(), 0.001)
	used, total := src.Memory()
	assert.Equal(t, uint64(4096), used)
	assert.Equal(t, uint64(8192), total)
}

func TestPrometheusRefreshEmptyResult(t *testing.T) {
	src := newPromStub(t, func(query string) string {
		return promVector()
	})

	assert.Error(t, src.Refresh())
}

func TestPrometheusInstanceSelector(t *testing.T) {
	var cpuQuery string
	src := newPromStub(t, func(query string) string {
		if strings.Contains(query, "node_cpu_seconds_total") {
			cpuQuery = query
		}
		return promVector("1")
	})
	src.SetInstance("node1:9100")

	require.NoError(t, src.Refresh())
	assert.Contains(t, cpuQuery, `instance="node1:9100"`)
}

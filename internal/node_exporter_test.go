package sysglance

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodeExporterFixture(idle, user float64, memTotal, memAvailable uint64) string {
	return fmt.Sprintf(`# HELP node_cpu_seconds_total Seconds the CPUs spent in each mode.
# TYPE node_cpu_seconds_total counter
node_cpu_seconds_total{cpu="0",mode="idle"} %g
node_cpu_seconds_total{cpu="0",mode="user"} %g
# HELP node_memory_MemTotal_bytes Memory information field MemTotal_bytes.
# TYPE node_memory_MemTotal_bytes gauge
node_memory_MemTotal_bytes %d
# HELP node_memory_MemAvailable_bytes Memory information field MemAvailable_bytes.
# TYPE node_memory_MemAvailable_bytes gauge
node_memory_MemAvailable_bytes %d
`, idle, user, memTotal, memAvailable)
}

func newFixtureServer(t *testing.T, body *string) (*httptest.Server, *NodeExporterSource) {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, *body)
	}))
	t.Cleanup(server.Close)

	u, err := url.Parse(server.URL)
	require.NoError(t, err)
	return server, NewNodeExporterSource(u)
}

func TestNodeExporterCheck(t *testing.T) {
	body := nodeExporterFixture(100, 50, 8192, 4096)
	_, src := newFixtureServer(t, &body)

	assert.NoError(t, src.Check())
}

func TestNodeExporterCheckMissingFamily(t *testing.T) {
	body := "node_cpu_seconds_total{cpu=\"0\",mode=\"idle\"} 100\n"
	_, src := newFixtureServer(t, &body)

	err := src.Check()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "node_memory_MemTotal_bytes")
}

func TestNodeExporterFirstRefreshReportsZeroCPU(t *testing.T) {
	body := nodeExporterFixture(100, 50, 8192, 4096)
	_, src := newFixtureServer(t, &body)

	require.NoError(t, src.Refresh())

	assert.Equal(t, float64(0), src.CPUPercent(), "no previous scrape to diff against")
	used, total := src.Memory()
	assert.Equal(t, uint64(4096), used)
	assert.Equal(t, uint64(8192), total)
}

func TestNodeExporterComputesCPUFromCounterDeltas(t *testing.T) {
	body := nodeExporterFixture(100, 50, 8192, 4096)
	_, src := newFixtureServer(t, &body)

	require.NoError(t, src.Refresh())

	// 50s elapsed across all modes, 40s of it idle: 20% busy.
	body = nodeExporterFixture(140, 60, 8192, 2048)
	require.NoError(t, src.Refresh())

	assert.InDelta(t, 20, src.CPUPercent(), 0.001)
	used, total := src.Memory()
	assert.Equal(t, uint64(8192-2048), used)
	assert.Equal(t, uint64(8192), total)
}

func TestNodeExporterUnreachable(t *testing.T) {
	server, src := newFixtureServer(t, new(string))
	server.Close()

	assert.Error(t, src.Refresh())
}

package main

import (
	"fmt"
	"log"
	"net/url"
	"os"
	"strings"
	"time"

	sysglance "github.com/arara/sysglance/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var version = "dev"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "sysglance [prometheus-url]",
	Short: "Panel applet showing live CPU and memory utilization charts",
	Long: `sysglance displays CPU and memory utilization as scrolling
percentage-area charts over the last 60 seconds, sampled once a second.

Readings come from the local machine by default, or from a remote
node_exporter or Prometheus server.

Examples:
  sysglance
  sysglance --source node-exporter --node-exporter-url http://localhost:9100/metrics
  sysglance http://prometheus.lan:9090
  SYSGLANCE_COLOR=ff8700 sysglance`,
	Args: cobra.MaximumNArgs(1),
	Run:  run,
}

func init() {
	// Define flags
	rootCmd.Flags().String("source", "auto", "Metric source: auto, local, node-exporter, prometheus")
	rootCmd.Flags().String("prometheus-url", "", "Prometheus server URL")
	rootCmd.Flags().String("prometheus-instance", "", "Instance label filter for Prometheus queries")
	rootCmd.Flags().String("node-exporter-url", "", "node_exporter metrics endpoint URL")
	rootCmd.Flags().Int("window", sysglance.PLOT_WINDOW_SECONDS, "Plot window in seconds")
	rootCmd.Flags().Int("interval", sysglance.SAMPLE_INTERVAL_MS, "Sampling interval in milliseconds")
	rootCmd.Flags().String("color", "", "Accent color as a hex triplet")
	rootCmd.Flags().String("snapshot-dir", ".", "Directory for SVG chart snapshots")
	rootCmd.Flags().BoolP("version", "v", false, "Print version information")

	// Bind flags to Viper keys (note: dashes in flags become underscores in viper)
	viper.BindPFlag("source", rootCmd.Flags().Lookup("source"))
	viper.BindPFlag("prometheus_url", rootCmd.Flags().Lookup("prometheus-url"))
	viper.BindPFlag("prometheus_instance", rootCmd.Flags().Lookup("prometheus-instance"))
	viper.BindPFlag("node_exporter_url", rootCmd.Flags().Lookup("node-exporter-url"))
	viper.BindPFlag("window_seconds", rootCmd.Flags().Lookup("window"))
	viper.BindPFlag("interval_ms", rootCmd.Flags().Lookup("interval"))
	viper.BindPFlag("color", rootCmd.Flags().Lookup("color"))
	viper.BindPFlag("snapshot_dir", rootCmd.Flags().Lookup("snapshot-dir"))

	// Configure Viper for environment variables
	viper.SetEnvPrefix("sysglance")
	viper.AutomaticEnv()

	for _, key := range []string{"source", "prometheus_url", "node_exporter_url", "color"} {
		if err := viper.BindEnv(key); err != nil {
			log.Fatalf("failed to bind %s: %v", key, err)
		}
	}

	// Set defaults
	viper.SetDefault("source", "auto")
	viper.SetDefault("window_seconds", sysglance.PLOT_WINDOW_SECONDS)
	viper.SetDefault("interval_ms", sysglance.SAMPLE_INTERVAL_MS)
	viper.SetDefault("color", "36a3d9")
	viper.SetDefault("snapshot_dir", ".")
}

func run(cmd *cobra.Command, args []string) {
	// Handle --version flag first
	versionFlag, _ := cmd.Flags().GetBool("version")
	if versionFlag {
		fmt.Printf("sysglance version %s\n", version)
		return
	}

	// Set up logging
	log.SetOutput(os.Stderr)
	log.Printf("Starting sysglance %s", version)

	// Handle positional argument (only if prometheus_url not already set)
	if len(args) == 1 && viper.GetString("prometheus_url") == "" {
		viper.Set("prometheus_url", args[0])
	}

	promURL := parseURL("prometheus_url")
	nodeURL := parseURL("node_exporter_url")

	detected, err := sysglance.DetectSource(viper.GetString("source"), promURL, nodeURL)
	if err != nil {
		log.Fatalln("Error selecting metric source:", err)
	}
	if ps, ok := detected.Source.(*sysglance.PrometheusSource); ok {
		ps.SetInstance(viper.GetString("prometheus_instance"))
	}
	log.Printf("Using %s backend", detected.Name)

	hex := strings.TrimPrefix(viper.GetString("color"), "#")
	monitor := sysglance.NewMonitor(
		detected.Source,
		time.Duration(viper.GetInt("window_seconds"))*time.Second,
		time.Duration(viper.GetInt("interval_ms"))*time.Millisecond,
		drawing.ColorFromHex(hex),
	)

	sysglance.RunApplet(monitor, sysglance.AppletOptions{
		Accent:       lipgloss.Color("#" + hex),
		SourceName:   detected.Name,
		SnapshotDir:  viper.GetString("snapshot_dir"),
		TickInterval: time.Duration(viper.GetInt("interval_ms")) * time.Millisecond,
	})
}

func parseURL(key string) *url.URL {
	raw := viper.GetString(key)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		log.Fatalln("Error parsing url:", raw, err)
	}
	return u
}

// SPDX-License-Identifier: MIT

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ManuGH/streamgate/internal/health"
)

// runHealthcheckCLI probes a running daemon, for container HEALTHCHECKs.
func runHealthcheckCLI(args []string) int {
	return healthcheckCLI(args, os.Stdout, os.Stderr)
}

func healthcheckCLI(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("healthcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	mode := fs.String("mode", "ready", "healthcheck mode: ready (default) or live")
	addr := fs.String("addr", "http://localhost:8088", "base URL of the daemon")
	timeout := fs.Duration("timeout", 5*time.Second, "check timeout")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	path := "/healthz"
	switch *mode {
	case "ready":
		path = "/readyz"
	case "live":
	default:
		fmt.Fprintf(stderr, "Unknown healthcheck mode %q\n", *mode)
		return 2
	}

	client := http.Client{Timeout: *timeout}
	resp, err := client.Get(strings.TrimRight(*addr, "/") + path)
	if err != nil {
		fmt.Fprintf(stderr, "Healthcheck failed (network): %v\n", err)
		return 1
	}
	defer func() { _ = resp.Body.Close() }()

	// Both probe bodies carry status and per-check results.
	var body struct {
		Status health.Status                 `json:"status"`
		Checks map[string]health.CheckResult `json:"checks"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&body)

	if resp.StatusCode != http.StatusOK {
		fmt.Fprintf(stderr, "Healthcheck failed (status): %s\n", resp.Status)
		for _, line := range failingChecks(body.Checks) {
			fmt.Fprintln(stderr, "  "+line)
		}
		return 1
	}

	fmt.Fprintf(stdout, "Healthcheck successful (%s): %s\n", *mode, body.Status)
	return 0
}

func failingChecks(checks map[string]health.CheckResult) []string {
	var out []string
	for name, c := range checks {
		if c.Status == health.StatusHealthy {
			continue
		}
		msg := c.Error
		if msg == "" {
			msg = c.Message
		}
		out = append(out, fmt.Sprintf("%s: %s %s", name, c.Status, msg))
	}
	sort.Strings(out)
	return out
}

// cmd/preflight/main.go
package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"go.uber.org/multierr"

	"github.com/hamed0406/netprobe/internal/config"
	"github.com/hamed0406/netprobe/internal/domain"
	"github.com/hamed0406/netprobe/internal/platform"
)

func main() {
	path := flag.String("config", os.Getenv("NETPROBE_CONFIG"), "properties file to check")
	flag.Parse()

	fail := func(msg string) {
		fmt.Fprintln(os.Stderr, "✖", msg)
		os.Exit(1)
	}
	warn := func(msg string) { fmt.Fprintln(os.Stderr, "⚠", msg) }
	ok := func(msg string) { fmt.Println("✔", msg) }

	cfg, err := config.Load(*path)
	if err != nil {
		fail(err.Error())
	}
	if err := cfg.Validate(); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(os.Stderr, "✖", e)
		}
		os.Exit(1)
	}
	ok(fmt.Sprintf("%d host(s): %s", len(cfg.Hosts), strings.Join(cfg.Hosts, ", ")))

	family, err := platform.Classify(runtime.GOOS)
	if err != nil {
		fail(err.Error())
	}
	ok("operating system: " + family.String())

	icmp, trace := cfg.ICMP.Unix, cfg.TraceRoute.Unix
	if family == domain.Windows {
		icmp, trace = cfg.ICMP.Windows, cfg.TraceRoute.Windows
	}
	for _, cmd := range []string{icmp, trace} {
		bin := strings.Fields(cmd)[0]
		if p, err := exec.LookPath(bin); err != nil {
			fail(bin + " not found in PATH; " + cmd + " cannot run.")
		} else {
			ok(bin + " => " + p)
		}
	}

	if cfg.CommandTimeout == 0 {
		warn("job.command.timeout is 0; a hung ping or traceroute blocks a worker forever.")
	}
	if cfg.SlackWebhook == "" {
		warn("report.slack.webhook empty; failure reports only go to " + cfg.ReportURL)
	} else {
		ok("Slack webhook present")
	}
	if cfg.StatusAddr == "" {
		warn("status.addr empty; status API disabled.")
	} else if len(cfg.StatusKeys) == 0 {
		warn("status.api.keys empty; status API at " + cfg.StatusAddr + " is open to anyone who can reach it.")
	} else {
		ok("status API at " + cfg.StatusAddr)
	}

	ok("preflight passed")
}

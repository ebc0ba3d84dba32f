package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/ini.v1"
)

// CommandJob configures a probe that shells out. Commands use HOST as the
// placeholder for the probed host.
type CommandJob struct {
	Delay   time.Duration
	Windows string
	Unix    string
}

type TCPJob struct {
	Delay    time.Duration
	Timeout  time.Duration
	Protocol string
}

type Config struct {
	Hosts          []string
	Threads        int           // 0 means one worker per CPU
	CommandTimeout time.Duration // 0 means commands may run forever

	ICMP       CommandJob
	TCP        TCPJob
	TraceRoute CommandJob

	ReportURL    string
	SlackWebhook string // empty disables Slack

	LogDir     string
	LogLevel   string
	LogConsole bool

	StatusAddr      string // empty disables the status API
	StatusKeys      []string
	StatusPerMinute int // 0 disables rate limiting
	StatusBurst     int
}

func Default() Config {
	return Config{
		ICMP: CommandJob{
			Delay:   5 * time.Second,
			Windows: "ping -n 5 HOST",
			Unix:    "ping -c 5 HOST",
		},
		TCP: TCPJob{
			Delay:    5 * time.Second,
			Timeout:  5 * time.Second,
			Protocol: "http",
		},
		TraceRoute: CommandJob{
			Delay:   5 * time.Second,
			Windows: "tracert HOST",
			Unix:    "traceroute HOST",
		},
		ReportURL: "https://yourreporturl.com/report",
		LogDir:    "logs",
		LogLevel:  "info",

		StatusPerMinute: 120,
		StatusBurst:     60,
	}
}

// Load reads the properties file at path over the defaults, then applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		f, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
		if err != nil {
			return cfg, errors.Wrapf(err, "load %s", path)
		}
		if err := cfg.applyFile(f.Section("")); err != nil {
			return cfg, errors.Wrapf(err, "parse %s", path)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyFile(sec *ini.Section) error {
	var errs error
	str := func(key string, dst *string) {
		if sec.HasKey(key) {
			*dst = strings.TrimSpace(sec.Key(key).String())
		}
	}
	millis := func(key string, dst *time.Duration) {
		if !sec.HasKey(key) {
			return
		}
		ms, err := sec.Key(key).Int64()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %q is not a number of milliseconds", key, sec.Key(key).String()))
			return
		}
		*dst = time.Duration(ms) * time.Millisecond
	}

	if sec.HasKey("job.hosts") {
		c.Hosts = splitList(sec.Key("job.hosts").String())
	}
	if sec.HasKey("job.scheduled.thread.number") {
		n, err := sec.Key("job.scheduled.thread.number").Int()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("job.scheduled.thread.number: %q is not a number", sec.Key("job.scheduled.thread.number").String()))
		} else {
			c.Threads = n
		}
	}
	millis("job.command.timeout", &c.CommandTimeout)

	millis("icmp.job.delay", &c.ICMP.Delay)
	str("icmp.job.command.windows", &c.ICMP.Windows)
	str("icmp.job.command.linux", &c.ICMP.Unix)

	millis("tcp.job.delay", &c.TCP.Delay)
	millis("tcp.request.timeout", &c.TCP.Timeout)
	str("tcp.request.protocol", &c.TCP.Protocol)

	millis("traceroute.job.delay", &c.TraceRoute.Delay)
	str("traceroute.job.command.windows", &c.TraceRoute.Windows)
	str("traceroute.job.command.linux", &c.TraceRoute.Unix)

	str("report.job.api.baseUrl", &c.ReportURL)
	str("report.slack.webhook", &c.SlackWebhook)

	str("log.dir", &c.LogDir)
	str("log.level", &c.LogLevel)
	if sec.HasKey("log.console") {
		c.LogConsole = sec.Key("log.console").MustBool(false)
	}
	str("status.addr", &c.StatusAddr)
	if sec.HasKey("status.api.keys") {
		c.StatusKeys = splitList(sec.Key("status.api.keys").String())
	}
	for key, dst := range map[string]*int{
		"status.rate.per.minute": &c.StatusPerMinute,
		"status.rate.burst":      &c.StatusBurst,
	} {
		if !sec.HasKey(key) {
			continue
		}
		n, err := sec.Key(key).Int()
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s: %q is not a number", key, sec.Key(key).String()))
			continue
		}
		*dst = n
	}
	return errs
}

func (c *Config) applyEnv() {
	if v := os.Getenv("NETPROBE_HOSTS"); v != "" {
		c.Hosts = splitList(v)
	}
	if v := os.Getenv("JOB_THREADS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.Threads = n
		}
	}
	if v := os.Getenv("REPORT_URL"); v != "" {
		c.ReportURL = v
	}
	if v := os.Getenv("SLACK_WEBHOOK"); v != "" {
		c.SlackWebhook = v
	}
	if v := os.Getenv("LOG_DIR"); v != "" {
		c.LogDir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("STATUS_ADDR"); v != "" {
		c.StatusAddr = v
	}
	if v := os.Getenv("STATUS_API_KEYS"); v != "" {
		c.StatusKeys = splitList(v)
	}
	if v := os.Getenv("STATUS_RPM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.StatusPerMinute = n
		}
	}
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var errs error
	if len(c.Hosts) == 0 {
		errs = multierr.Append(errs, errors.New("job.hosts: no hosts configured"))
	}
	for _, h := range c.Hosts {
		if strings.ContainsAny(h, " \t/") {
			errs = multierr.Append(errs, fmt.Errorf("job.hosts: invalid host %q", h))
		}
	}
	if c.Threads < 0 {
		errs = multierr.Append(errs, fmt.Errorf("job.scheduled.thread.number: %d is negative", c.Threads))
	}
	if c.CommandTimeout < 0 {
		errs = multierr.Append(errs, errors.New("job.command.timeout: must not be negative"))
	}
	for name, d := range map[string]time.Duration{
		"icmp.job.delay":       c.ICMP.Delay,
		"tcp.job.delay":        c.TCP.Delay,
		"traceroute.job.delay": c.TraceRoute.Delay,
	} {
		if d <= 0 {
			errs = multierr.Append(errs, fmt.Errorf("%s: must be positive", name))
		}
	}
	if c.TCP.Timeout <= 0 {
		errs = multierr.Append(errs, errors.New("tcp.request.timeout: must be positive"))
	}
	if c.TCP.Protocol != "http" && c.TCP.Protocol != "https" {
		errs = multierr.Append(errs, fmt.Errorf("tcp.request.protocol: %q is not http or https", c.TCP.Protocol))
	}
	for name, cmd := range map[string]string{
		"icmp.job.command.windows":       c.ICMP.Windows,
		"icmp.job.command.linux":         c.ICMP.Unix,
		"traceroute.job.command.windows": c.TraceRoute.Windows,
		"traceroute.job.command.linux":   c.TraceRoute.Unix,
	} {
		if !strings.Contains(cmd, "HOST") {
			errs = multierr.Append(errs, fmt.Errorf("%s: %q has no HOST placeholder", name, cmd))
		}
	}
	if c.StatusPerMinute < 0 || c.StatusBurst < 0 {
		errs = multierr.Append(errs, errors.New("status.rate: limits must not be negative"))
	}
	if u, err := url.Parse(c.ReportURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		errs = multierr.Append(errs, fmt.Errorf("report.job.api.baseUrl: %q is not an http(s) URL", c.ReportURL))
	}
	if c.SlackWebhook != "" {
		if u, err := url.Parse(c.SlackWebhook); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
			errs = multierr.Append(errs, fmt.Errorf("report.slack.webhook: %q is not an http(s) URL", c.SlackWebhook))
		}
	}
	return errs
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

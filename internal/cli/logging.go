package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/zeromicro/go-zero/core/logx"

	"inkticker/internal/config"
	"inkticker/pkg/confkit"
)

// SetupLogging initialises logx. Console output is redirected to console
// (normally stderr) because the panel repaints stdout; file and volume
// modes are left as configured.
func SetupLogging(c logx.LogConf, console io.Writer) {
	logx.MustSetup(c)
	if UsesConsole(c) && console != nil {
		logx.SetWriter(logx.NewWriter(console))
	}
}

// UsesConsole reports whether c makes logx write to the process streams.
func UsesConsole(c logx.LogConf) bool {
	switch strings.ToLower(strings.TrimSpace(c.Mode)) {
	case "", "console":
		return true
	default:
		return false
	}
}

// ConfigSummaryLines returns human readable lines describing the loaded app config.
func ConfigSummaryLines(cfg *config.Config) []string {
	if cfg == nil {
		return []string{"Configuration: <nil>"}
	}

	s := cfg.Settings()
	lines := []string{
		fmt.Sprintf("Environment: %s", cfg.Env),
		fmt.Sprintf("Symbol: %s", s.Symbol),
		fmt.Sprintf("Fetch interval / timeout: %s / %s", s.FetchInterval, s.FetchTimeout),
		fmt.Sprintf("Full refresh interval: %s", s.FullRefreshInterval),
		fmt.Sprintf("Connect timeout (poll / retry): %s (%s / %s)", s.ConnectTimeout, s.ConnectPoll, s.RetryInterval),
		linkLine(cfg.Link),
		fmt.Sprintf("Display: %dx%d %s", cfg.Display.Columns, cfg.Display.Rows, textMode(cfg.Display.PlainText)),
		fmt.Sprintf("Metrics: %s", presence(strings.TrimSpace(cfg.Metrics.Addr) != "")),
		sectionLine("Market config", cfg.Market),
	}

	return lines
}

// LogConfigSummary emits the configuration summary using logx.
func LogConfigSummary(cfg *config.Config) {
	lines := ConfigSummaryLines(cfg)
	if len(lines) == 0 {
		return
	}
	logx.Info("configuration summary")
	for _, line := range lines {
		logx.Infof("config • %s", line)
	}
}

func linkLine(l config.LinkConf) string {
	if l.AlwaysUp {
		return "Link: always up"
	}
	return fmt.Sprintf("Link: probe %s every %s", l.ProbeAddress, l.ProbeInterval)
}

func textMode(plain bool) string {
	if plain {
		return "plain"
	}
	return "ansi"
}

func presence(ok bool) string {
	if ok {
		return "configured"
	}
	return "not configured"
}

func sectionLine[T any](name string, section confkit.Section[T]) string {
	switch {
	case strings.TrimSpace(section.File) != "":
		return fmt.Sprintf("%s: %s", name, section.File)
	case section.Value != nil:
		return fmt.Sprintf("%s: inline", name)
	default:
		return fmt.Sprintf("%s: built-in", name)
	}
}

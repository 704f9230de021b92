package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/tilewin/internal/config"
	"github.com/1broseidon/tilewin/internal/engine"
	"github.com/1broseidon/tilewin/internal/ipc"
	"github.com/1broseidon/tilewin/internal/platform"
)

// geometryReport is what "tilewin geometry" prints.
type geometryReport struct {
	Source  string            `json:"source"`
	Display *platform.Display `json:"display,omitempty"`
	Plan    engine.Plan       `json:"plan"`
}

func runGeometry(args []string) int {
	fs := flag.NewFlagSet("geometry", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/tilewin/app.yaml)")
	preset := fs.String("preset", "", "Plan with a built-in preset instead of the configured one")
	remote := fs.Bool("remote", false, "Ask the running window instead of planning locally")
	name := fs.String("name", "", "Window name for --remote (default: configured name)")
	asJSON := fs.Bool("json", false, "Print JSON")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: tilewin geometry [--path PATH] [--preset NAME] [--remote] [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show display metrics and the window plan derived from them.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintf(os.Stderr, "Presets: %s\n", strings.Join(config.PresetNames(), ", "))
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	var report geometryReport
	if *remote {
		target := *name
		if target == "" {
			target = config.DefaultName
			if res, err := loadConfig(*path); err == nil {
				target = res.Config.Name
			}
		}
		client := ipc.NewClient(target)
		plan, err := client.GetGeometry()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		report.Source = "window:" + target
		report.Plan = *plan
		if d, err := client.GetDisplay(); err == nil {
			report.Display = d
		}
	} else {
		res, err := loadConfig(*path)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		cfg := res.Config
		if *preset != "" {
			cfg, err = cfg.WithPreset(*preset)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 2
			}
		}
		plan, err := engine.PlanGeometry(cfg, platform.DisplayMetrics())
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		report.Source = "local:" + cfg.Preset
		report.Plan = plan
		if d, err := platform.PrimaryDisplay(); err == nil {
			report.Display = &d
		}
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	renderReport(os.Stdout, report, term.IsTerminal(int(os.Stdout.Fd())))
	return 0
}

// renderReport prints report as aligned label/value rows. Colors are only
// used when styled is set.
func renderReport(w io.Writer, r geometryReport, styled bool) {
	labelStyle := lipgloss.NewStyle().
		Width(16).
		Align(lipgloss.Right).
		PaddingRight(2)
	valueStyle := lipgloss.NewStyle()
	headStyle := lipgloss.NewStyle()
	dimStyle := lipgloss.NewStyle()
	if styled {
		labelStyle = labelStyle.Foreground(lipgloss.Color("250"))
		valueStyle = valueStyle.Foreground(lipgloss.Color("15")).Bold(true)
		headStyle = headStyle.Foreground(lipgloss.Color("62")).Bold(true)
		dimStyle = dimStyle.Foreground(lipgloss.Color("241"))
	}

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}
	known := func(value string, ok bool) string {
		if ok {
			return value
		}
		return dimStyle.Render("unavailable")
	}

	p := r.Plan
	lines := []string{headStyle.Render("Display") + dimStyle.Render("  ("+r.Source+")")}
	if d := r.Display; d != nil {
		lines = append(lines,
			row("name", d.Name),
			row("bounds", d.Bounds.String()),
			row("usable", d.Usable.String()),
		)
	}
	lines = append(lines,
		row("maximized", p.Maximized.String()),
		row("work area", known(p.WorkArea.String(), p.WorkAreaOK)),
		row("frame insets", known(fmt.Sprintf("l=%d t=%d r=%d b=%d", p.Insets.Left, p.Insets.Top, p.Insets.Right, p.Insets.Bottom), p.InsetsOK)),
		"",
		headStyle.Render("Window"),
		row("mode", p.Mode),
		row("style", fmt.Sprintf("0x%08x ex=0x%08x", p.Style, p.ExStyle)),
		row("tile size", p.TileSize.String()),
		row("max viewport", known(p.MaxViewport.String(), !p.MaxViewport.IsZero())),
		row("viewport", p.Viewport.String()),
		row("window size", p.WindowSize.String()),
		row("client size", p.ClientSize.String()),
	)
	pos := p.Position.String()
	if p.Centered {
		pos += dimStyle.Render(" centered")
	}
	lines = append(lines, row("position", pos))

	fmt.Fprintln(w, strings.Join(lines, "\n"))
}

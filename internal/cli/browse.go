package cli

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	patternio "github.com/matzehuels/hextile/pkg/io"
	"github.com/matzehuels/hextile/pkg/layout"
	"github.com/matzehuels/hextile/pkg/layout/palette"
	"github.com/matzehuels/hextile/pkg/pipeline"
)

// adherenceStep is how much ↑/↓ change the aspect adherence.
const adherenceStep = 0.05

// colorModes is the order m cycles through.
var colorModes = []string{palette.ModeRandom, palette.ModeGradient, palette.ModeScheme60}

var (
	browseKeyStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	browseErrorStyle = lipgloss.NewStyle().Foreground(colorRed)
)

// =============================================================================
// Command
// =============================================================================

func (c *CLI) browseCommand() *cobra.Command {
	var (
		config  string
		seed    int64
		output  string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "browse",
		Short: "Explore seeds interactively",
		Long: `Explore patterns interactively in the terminal.

Keys:
  ←/→  previous/next seed
  ↑/↓  raise/lower aspect adherence
  t    toggle tendrils
  m    cycle color mode
  s    save the current pattern as PNG
  q    quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			preset, _, err := loadPreset(config)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				preset.Layout.Seed = seed
			}
			if cmd.Flags().Changed("output") {
				preset.Output.Dir = output
			}
			return c.runBrowse(cmd.Context(), preset, noCache)
		},
	}

	cmd.Flags().StringVarP(&config, "config", "c", "", "TOML preset")
	cmd.Flags().Int64VarP(&seed, "seed", "s", 0, "starting seed")
	cmd.Flags().StringVarP(&output, "output", "o", ".", "directory for saved PNGs")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, p Preset, noCache bool) error {
	if err := p.Layout.Validate(); err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	m := newBrowseModel(ctx, runner, p)
	_, err = tea.NewProgram(m, tea.WithContext(ctx), tea.WithAltScreen()).Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

// =============================================================================
// BrowseModel - Interactive seed explorer
// =============================================================================

// patternMsg carries a finished generation back to the model.
type patternMsg struct {
	params  layout.Params
	pattern *layout.Pattern
	cached  bool
	took    time.Duration
	err     error
}

// savedMsg reports a saved PNG.
type savedMsg struct {
	path string
	size int
	err  error
}

// BrowseModel is the bubbletea model for the seed explorer.
type BrowseModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	render pipeline.Options
	dir    string

	Params   layout.Params
	tendrils int

	Pattern *layout.Pattern
	cached  bool
	took    time.Duration
	status  string
	err     error
}

func newBrowseModel(ctx context.Context, runner *pipeline.Runner, p Preset) BrowseModel {
	tendrils := p.Layout.Tendrils
	if tendrils == 0 {
		tendrils = layout.DefaultTendrils
	}
	return BrowseModel{
		ctx:    ctx,
		runner: runner,
		render: pipeline.Options{
			Formats: []string{pipeline.FormatPNG},
			Style:   p.Render.Style,
			Border:  p.Render.Border,
			Scale:   p.Render.Scale,
		},
		dir:      p.Output.Dir,
		Params:   p.Layout.Clone(),
		tendrils: tendrils,
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return m.generate()
}

// generate runs the pipeline for the current params off the UI goroutine.
func (m BrowseModel) generate() tea.Cmd {
	params := m.Params.Clone()
	ctx, runner := m.ctx, m.runner
	return func() tea.Msg {
		start := time.Now()
		p, hit, err := runner.GenerateWithCacheInfo(ctx, params, false)
		return patternMsg{params: params, pattern: p, cached: hit, took: time.Since(start), err: err}
	}
}

// save renders the current pattern to PNG in the output directory.
func (m BrowseModel) save() tea.Cmd {
	doc := &patternio.Document{
		ID:      pipeline.PatternID(m.Params.Seed, 0),
		Params:  m.Params.Clone(),
		Pattern: m.Pattern,
	}
	ctx, runner, opts, dir := m.ctx, m.runner, m.render, m.dir
	return func() tea.Msg {
		artifacts, err := runner.Render(ctx, doc, opts)
		if err != nil {
			return savedMsg{err: err}
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return savedMsg{err: err}
		}
		path := filepath.Join(dir, doc.ID+pipeline.Extensions[pipeline.FormatPNG])
		data := artifacts[pipeline.FormatPNG]
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return savedMsg{err: err}
		}
		return savedMsg{path: path, size: len(data)}
	}
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case patternMsg:
		// Drop results for params the user has already moved past.
		if msg.params.Seed != m.Params.Seed || msg.params.ColorMode != m.Params.ColorMode ||
			msg.params.Tendrils != m.Params.Tendrils || msg.params.AspectAdherence != m.Params.AspectAdherence {
			return m, nil
		}
		m.err = msg.err
		if msg.err == nil {
			m.Pattern, m.cached, m.took = msg.pattern, msg.cached, msg.took
		}
		return m, nil

	case savedMsg:
		if msg.err != nil {
			m.status = browseErrorStyle.Render("save failed: " + msg.err.Error())
		} else {
			m.status = StyleSuccess.Render(fmt.Sprintf("saved %s (%s)", msg.path, humanize.Bytes(uint64(msg.size))))
		}
		return m, nil

	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			if m.Params.Seed > 0 {
				m.Params.Seed--
			}
		case "right", "l":
			if m.Params.Seed < layout.MaxSeed {
				m.Params.Seed++
			}
		case "up", "k":
			m.Params.AspectAdherence = stepAdherence(m.Params.AspectAdherence, adherenceStep)
		case "down", "j":
			m.Params.AspectAdherence = stepAdherence(m.Params.AspectAdherence, -adherenceStep)
		case "t":
			if m.Params.Tendrils > 0 {
				m.Params.Tendrils = 0
			} else {
				m.Params.Tendrils = m.tendrils
			}
		case "m":
			m.Params.ColorMode = nextMode(m.Params.ColorMode)
		case "s":
			if m.Pattern == nil {
				return m, nil
			}
			return m, m.save()
		default:
			return m, nil
		}
		return m, m.generate()
	}
	return m, nil
}

// stepAdherence moves a by d, clamped to [0, 1] and rounded to the step grid.
func stepAdherence(a, d float64) float64 {
	a = math.Round((a+d)/adherenceStep) * adherenceStep
	return min(max(a, 0), 1)
}

func nextMode(mode string) string {
	for i, m := range colorModes {
		if strings.EqualFold(m, mode) {
			return colorModes[(i+1)%len(colorModes)]
		}
	}
	return colorModes[0]
}

func (m BrowseModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("hextile browse"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ seed  ↑/↓ adherence  t tendrils  m mode  s save  q quit"))
	b.WriteString("\n\n")

	kv := func(k, v string) string { return browseKeyStyle.Render(k) + " " + StyleValue.Render(v) }
	b.WriteString("  " + strings.Join([]string{
		kv("seed", fmt.Sprint(m.Params.Seed)),
		kv("adherence", fmt.Sprintf("%.2f", m.Params.AspectAdherence)),
		kv("tendrils", fmt.Sprint(m.Params.Tendrils)),
		kv("mode", m.Params.ColorMode),
	}, StyleDim.Render("  ·  ")))
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(browseErrorStyle.Render("  " + m.err.Error()))
		b.WriteString("\n")
	case m.Pattern == nil:
		b.WriteString(StyleDim.Render("  growing..."))
		b.WriteString("\n")
	default:
		p := m.Pattern
		b.WriteString(preview(p))
		b.WriteString("\n")
		b.WriteString(legend(p, m.Params.Colors))
		b.WriteString("\n")
		status := iconFresh + " in " + m.took.Round(time.Microsecond).String()
		if m.cached {
			status = iconCached
		}
		b.WriteString(StyleDim.Render(fmt.Sprintf("  %s tiles · %d in tendrils · %.1f×%.1f in · aspect %.3f (off by %.1f%%) · %d exposed edges · %s",
			humanize.Comma(int64(p.Len())), p.TendrilTiles(), p.WidthInches, p.HeightInches,
			p.AspectRatio, p.AspectDeviation, p.Metrics.ExposedEdges, status)))
		b.WriteString("\n")
	}

	if m.status != "" {
		b.WriteString("\n  " + m.status + "\n")
	}
	return b.String()
}

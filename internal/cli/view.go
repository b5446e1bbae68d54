package cli

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/pipeline"
	"github.com/matzehuels/molview/pkg/reference"
	"github.com/matzehuels/molview/pkg/render/scene"
)

const (
	viewFPS    = 20
	viewStep   = math.Pi / 18 // manual rotation per key press
	viewChrome = 2            // title and help lines
)

var (
	viewHelpStyle = lipgloss.NewStyle().Foreground(colorDim)
	viewInfoStyle = lipgloss.NewStyle().Foreground(colorGray)
)

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var opts pipeline.Options

	cmd := &cobra.Command{
		Use:   "view [SMILES]",
		Short: "Show a rotating molecule in the terminal",
		Long: `Show a rotating molecule in the terminal.

Keys:
  space      pause or resume the rotation
  ← / →      step the rotation
  n / p      next / previous reference molecule
  q          quit`,
		Args: sourceArgs(&opts.Reference, nil),
		RunE: func(cmd *cobra.Command, args []string) error {
			setSource(&opts, args)
			ctx := cmd.Context()

			runner, err := c.newRunner(ctx, false)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			st, err := runner.Layout(ctx, opts)
			if err != nil {
				return err
			}

			m := newViewModel(st, referenceIndex(opts.Reference))
			if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return fmt.Errorf("viewer: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&opts.Reference, "reference", "r", "", "start with a built-in reference molecule")
	cmd.RegisterFlagCompletionFunc("reference", completeReferences)
	return cmd
}

// referenceIndex returns the display position of the molecule name refers
// to, or -1.
func referenceIndex(name string) int {
	if name == "" {
		return -1
	}
	m, ok := reference.Lookup(name)
	if !ok {
		return -1
	}
	return reference.Index(m.Name)
}

// =============================================================================
// viewModel - Rotating structure viewer
// =============================================================================

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/viewFPS, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// viewModel is the bubbletea model for the rotating viewer.
type viewModel struct {
	st     molecule.Structure
	title  string
	ref    int // position in the reference list; -1 for a SMILES layout
	angle  float64
	speed  float64 // radians per second
	tilt   float64
	paused bool
	cols   int
	rows   int
}

func newViewModel(st molecule.Structure, ref int) viewModel {
	m := viewModel{
		st:    st,
		title: st.Name,
		ref:   ref,
		speed: scene.SpeedGenerated,
		tilt:  pipeline.DefaultTilt,
		cols:  64,
		rows:  24,
	}
	if ref >= 0 {
		m.setReference(ref)
	}
	return m
}

func (m *viewModel) setReference(i int) {
	n := reference.Len()
	m.ref = ((i % n) + n) % n
	mol := reference.At(m.ref)
	m.st = mol.Structure
	m.title = fmt.Sprintf("%s  %s", mol.Name, viewInfoStyle.Render(mol.Formula))
	m.speed = scene.SpeedReference
	m.angle = 0
}

// cycle moves through the reference molecules. From a SMILES layout, the
// first step lands on the first (or last) reference.
func (m *viewModel) cycle(delta int) {
	if m.ref < 0 {
		if delta > 0 {
			m.setReference(0)
		} else {
			m.setReference(-1)
		}
		return
	}
	m.setReference(m.ref + delta)
}

func (m viewModel) Init() tea.Cmd {
	return tick()
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.paused = !m.paused
		case "left", "h":
			m.angle -= viewStep
		case "right", "l":
			m.angle += viewStep
		case "n":
			m.cycle(1)
		case "p":
			m.cycle(-1)
		}
	case tea.WindowSizeMsg:
		m.cols = max(msg.Width, 8)
		m.rows = max(msg.Height-viewChrome, 4)
	case tickMsg:
		if !m.paused {
			m.angle = math.Mod(m.angle+m.speed/viewFPS, 2*math.Pi)
		}
		return m, tick()
	}
	return m, nil
}

func (m viewModel) View() string {
	var b strings.Builder
	title := m.title
	if title == "" {
		title = "molecule"
	}
	b.WriteString(StyleTitle.Render(title))
	b.WriteString("\n")
	b.WriteString(renderCanvas(drawCanvas(m.st, m.angle, m.tilt, m.cols, m.rows)))
	b.WriteString("\n")

	state := "rotating"
	if m.paused {
		state = "paused"
	}
	b.WriteString(viewHelpStyle.Render(fmt.Sprintf("space %s  ←/→ step  n/p molecule  q quit", state)))
	return b.String()
}

// =============================================================================
// Canvas
// =============================================================================

// cell is one terminal character of the canvas.
type cell struct {
	glyph rune
	color molecule.Color
	bold  bool
}

// drawCanvas paints st into a cols × rows character grid, back to front.
// Terminal cells are about twice as tall as they are wide, so the scene is
// projected into a cols × 2·rows viewport and rows are sampled at half
// resolution.
func drawCanvas(st molecule.Structure, angle, tilt float64, cols, rows int) [][]cell {
	grid := make([][]cell, rows)
	for y := range grid {
		grid[y] = make([]cell, cols)
	}
	if len(st.Atoms) == 0 {
		return grid
	}

	sc := scene.Project(st, scene.Options{
		Angle:  angle,
		Tilt:   tilt,
		Width:  float64(cols),
		Height: float64(2 * rows),
	})
	for _, it := range sc.Items() {
		switch {
		case it.Segment != nil:
			drawSegment(grid, *it.Segment, shadeColor(scene.BondColor, sc.Shade(it.Depth, 0.4)))
		case it.Sphere != nil:
			drawSphere(grid, *it.Sphere, shadeColor(it.Sphere.Color, sc.Shade(it.Depth, 0.45)))
		}
	}
	return grid
}

func drawSegment(grid [][]cell, s scene.Segment, color molecule.Color) {
	x1, y1, x2, y2 := s.X1, s.Y1/2, s.X2, s.Y2/2
	dx, dy := x2-x1, y2-y1

	var glyph rune
	switch {
	case math.Abs(dy) < 0.4*math.Abs(dx):
		glyph = '─'
	case math.Abs(dx) < 0.4*math.Abs(dy):
		glyph = '│'
	case dx*dy > 0:
		glyph = '╲'
	default:
		glyph = '╱'
	}

	n := int(math.Ceil(math.Max(math.Abs(dx), math.Abs(dy))))
	for i := 0; i <= n; i++ {
		t := 0.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		setCell(grid, x1+t*dx, y1+t*dy, cell{glyph: glyph, color: color})
	}
}

func drawSphere(grid [][]cell, s scene.Sphere, color molecule.Color) {
	cx, cy := s.X, s.Y/2
	rx, ry := math.Max(s.R, 0.5), math.Max(s.R/2, 0.5)

	for y := math.Floor(cy - ry); y <= math.Ceil(cy+ry); y++ {
		for x := math.Floor(cx - rx); x <= math.Ceil(cx+rx); x++ {
			u, v := (x-cx)/rx, (y-cy)/ry
			if u*u+v*v <= 1 {
				setCell(grid, x, y, cell{glyph: '●', color: color})
			}
		}
	}

	// Element symbol at the center, spilling right for two letters.
	for i, r := range s.Element.Symbol() {
		setCell(grid, cx+float64(i), cy, cell{glyph: r, color: color, bold: true})
	}
}

func setCell(grid [][]cell, x, y float64, c cell) {
	col, row := int(math.Round(x)), int(math.Round(y))
	if row < 0 || row >= len(grid) || col < 0 || col >= len(grid[row]) {
		return
	}
	grid[row][col] = c
}

// shadeColor scales c toward black by f in [0, 1].
func shadeColor(c molecule.Color, f float64) molecule.Color {
	r, g, b := c.RGB()
	scale := func(v uint8) uint8 { return uint8(math.Round(float64(v) * f)) }
	return molecule.Color(fmt.Sprintf("#%02x%02x%02x", scale(r), scale(g), scale(b)))
}

// renderCanvas turns the grid into styled text, one line per row.
func renderCanvas(grid [][]cell) string {
	styles := map[cell]lipgloss.Style{}
	var b strings.Builder
	for y, row := range grid {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			if c.glyph == 0 {
				b.WriteByte(' ')
				continue
			}
			key := cell{color: c.color, bold: c.bold}
			st, ok := styles[key]
			if !ok {
				st = lipgloss.NewStyle().Foreground(lipgloss.Color(string(c.color))).Bold(c.bold)
				styles[key] = st
			}
			b.WriteString(st.Render(string(c.glyph)))
		}
	}
	return b.String()
}

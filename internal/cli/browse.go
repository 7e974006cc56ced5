package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/guptarut/treemap/pkg/observability"
	"github.com/guptarut/treemap/pkg/pipeline"
	"github.com/guptarut/treemap/pkg/render"
	"github.com/guptarut/treemap/pkg/tree"
	"github.com/guptarut/treemap/pkg/treemap"
)

// resizeStep is the factor applied by the + and - keys.
const resizeStep = 0.01

// browseCommand creates the browse command for exploring a treemap in the terminal.
func (c *CLI) browseCommand() *cobra.Command {
	var (
		expand string
		depth  int
		scan   scanFlags
	)

	cmd := &cobra.Command{
		Use:   "browse [dir|tree.json]",
		Short: "Explore a treemap interactively in the terminal",
		Long: `Explore a treemap interactively in the terminal.

Each terminal cell is one layout unit. Select a tile with the mouse or the
arrow keys, then:

  e / E   expand the tile / expand its whole subtree
  c / C   collapse its parent / collapse the whole tree
  + / -   grow / shrink the selected file by 1%
  m       mark the selected file; press m again on a folder to move it there
  esc     clear the mark
  q       quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := c.Config.PipelineOptions()
			scan.apply(cmd, &opts)
			opts.Expand = expand
			opts.Depth = depth
			if err := setInput(&opts, args[0]); err != nil {
				return err
			}
			return c.runBrowse(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&expand, "expand", "e", pipeline.ExpandDepth, "initial visibility: none, all, depth")
	cmd.Flags().IntVarP(&depth, "depth", "d", 1, "initial expansion depth for --expand depth")
	scan.register(cmd)

	return cmd
}

func (c *CLI) runBrowse(ctx context.Context, opts pipeline.Options) error {
	if err := pipeline.ValidateExpand(opts.Expand); err != nil {
		return err
	}

	runner, err := c.newRunner(ctx)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Loading tree...")
	spinner.Start()
	root, err := runner.Load(ctx, opts)
	if err != nil {
		spinner.StopWithError("Load failed")
		return err
	}
	spinner.Stop()

	pipeline.ApplyVisibility(root, opts.Expand, opts.Depth)

	p := tea.NewProgram(newBrowseModel(ctx, root), tea.WithContext(ctx), tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// =============================================================================
// browseModel - Interactive treemap
// =============================================================================

var (
	browseBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1f1f1f"))
	browseStatusStyle = lipgloss.NewStyle().Foreground(colorWhite).Bold(true)
)

// browseModel is the bubbletea model of the browse command. It owns the tree
// and mutates it in place.
type browseModel struct {
	ctx    context.Context
	root   *tree.Node
	tiles  []treemap.Tile
	cursor *tree.Node
	marked *tree.Node
	width  int
	height int
	status string
}

func newBrowseModel(ctx context.Context, root *tree.Node) browseModel {
	return browseModel{ctx: ctx, root: root}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height - 2 // status and help lines
		m.relayout()

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			m.selectAt(tree.Point{X: msg.X, Y: msg.Y})
		}

	case tea.KeyMsg:
		m.status = ""
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			m.moveCursor(-1, 0)
		case "right", "l":
			m.moveCursor(1, 0)
		case "up", "k":
			m.moveCursor(0, -1)
		case "down", "j":
			m.moveCursor(0, 1)
		case "e":
			m.apply("expand", tree.Expand)
		case "E":
			m.apply("expand-all", tree.ExpandAll)
		case "c":
			m.apply("collapse", tree.Collapse)
		case "C":
			m.apply("collapse-all", tree.CollapseAll)
		case "+", "=":
			m.resize(resizeStep)
		case "-", "_":
			m.resize(-resizeStep)
		case "m":
			m.mark()
		case "esc":
			m.marked = nil
		}
	}
	return m, nil
}

// relayout lays the tree out in the current frame and keeps the cursor on a
// displayed tile.
func (m *browseModel) relayout() {
	if m.width <= 0 || m.height <= 0 {
		m.tiles = nil
		return
	}
	var prev tree.Point
	if m.cursor != nil {
		prev = center(m.cursor.Rect)
	}
	treemap.Layout(m.root, tree.Rect{W: m.width, H: m.height})
	m.tiles = treemap.Rectangles(m.root)
	if m.cursor == nil || !tree.IsDisplayed(m.cursor) {
		m.cursor = nil
		m.selectAt(prev)
	}
}

// selectAt moves the cursor to the tile under p, or the first tile.
func (m *browseModel) selectAt(p tree.Point) {
	if n := treemap.Locate(m.root, p); n != nil && tree.IsDisplayed(n) {
		m.cursor = n
		return
	}
	if m.cursor == nil && len(m.tiles) > 0 {
		m.cursor = m.tiles[0].Node
	}
}

// moveCursor selects the nearest tile whose centre lies in direction (dx, dy).
func (m *browseModel) moveCursor(dx, dy int) {
	if m.cursor == nil {
		if len(m.tiles) > 0 {
			m.cursor = m.tiles[0].Node
		}
		return
	}
	c := center(m.cursor.Rect)

	var best *tree.Node
	bestDist := -1
	for _, t := range m.tiles {
		if t.Node == m.cursor {
			continue
		}
		b := center(t.Rect)
		if (dx > 0 && b.X <= c.X) || (dx < 0 && b.X >= c.X) ||
			(dy > 0 && b.Y <= c.Y) || (dy < 0 && b.Y >= c.Y) {
			continue
		}
		dist := abs(b.X-c.X) + abs(b.Y-c.Y)
		if bestDist < 0 || dist < bestDist {
			best, bestDist = t.Node, dist
		}
	}
	if best != nil {
		m.cursor = best
	}
}

// apply runs a visibility operation on the cursor.
func (m *browseModel) apply(op string, fn func(*tree.Node) bool) {
	if m.cursor == nil {
		return
	}
	id := m.cursor.ID()
	changed := fn(m.cursor)
	observability.Tree().OnMutation(m.ctx, op, id, changed)
	if changed {
		m.relayout()
	}
}

func (m *browseModel) resize(factor float64) {
	if m.cursor == nil {
		return
	}
	changed := tree.ChangeSize(m.cursor, factor)
	observability.Tree().OnMutation(m.ctx, "resize", m.cursor.ID(), changed)
	if !changed {
		m.status = "only files can be resized"
		return
	}
	tree.UpdateDataSizes(m.root)
	m.relayout()
}

// mark marks the cursor for moving, or moves the marked file to the cursor.
// A file under the cursor stands for the folder that contains it.
func (m *browseModel) mark() {
	if m.cursor == nil {
		return
	}
	if m.marked == nil {
		if !m.cursor.IsLeaf() {
			m.status = "only files can be moved"
			return
		}
		m.marked = m.cursor
		m.status = "marked " + m.cursor.Name() + ", select a folder and press m"
		return
	}

	dest := m.cursor
	if dest.IsLeaf() && dest.Parent() != nil {
		dest = dest.Parent()
	}
	leaf := m.marked
	m.marked = nil
	changed := tree.Move(leaf, dest)
	observability.Tree().OnMutation(m.ctx, "move", leaf.ID(), changed)
	if !changed {
		m.status = "cannot move " + leaf.Name() + " there"
		return
	}
	m.status = "moved " + leaf.Name() + " to " + dest.Name()
	m.relayout()
}

func (m browseModel) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}

	grid := make([][]rune, m.height)
	styles := make([][]lipgloss.Style, m.height)
	for y := range grid {
		grid[y] = make([]rune, m.width)
		styles[y] = make([]lipgloss.Style, m.width)
		for x := range grid[y] {
			grid[y][x] = ' '
			styles[y][x] = lipgloss.NewStyle()
		}
	}
	for _, t := range m.tiles {
		m.drawTile(grid, styles, t)
	}

	var b strings.Builder
	for y := range grid {
		for x := range grid[y] {
			b.WriteString(styles[y][x].Render(string(grid[y][x])))
		}
		b.WriteString("\n")
	}
	b.WriteString(browseStatusStyle.Render(m.statusLine()))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("arrows/mouse select  e/E expand  c/C collapse  +/- resize  m move  q quit"))
	return b.String()
}

func (m browseModel) statusLine() string {
	if m.status != "" {
		return m.status
	}
	if m.cursor == nil {
		return m.root.Name()
	}
	return fmt.Sprintf("%s  %s", tree.PathString(m.cursor, true), render.FormatSize(m.cursor.Weight()))
}

// drawTile fills a tile's cells with its colour, outlines it, and writes its
// name when it fits.
func (m browseModel) drawTile(grid [][]rune, styles [][]lipgloss.Style, t treemap.Tile) {
	r := t.Rect
	if r.Empty() {
		return
	}
	fill := tree.FormatColour(t.Node.Colour())
	style := lipgloss.NewStyle().Background(lipgloss.Color(fill)).Foreground(lipgloss.Color(render.TextColour(fill)))
	switch t.Node {
	case m.cursor:
		style = style.Reverse(true).Bold(true)
	case m.marked:
		style = style.Underline(true)
	}
	border := browseBorderStyle.Background(lipgloss.Color(fill))

	set := func(x, y int, ch rune, s lipgloss.Style) {
		if y >= 0 && y < len(grid) && x >= 0 && x < len(grid[y]) {
			grid[y][x] = ch
			styles[y][x] = s
		}
	}

	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			set(x, y, ' ', style)
		}
	}
	if r.W >= 2 && r.H >= 2 {
		for x := r.X; x < r.Right(); x++ {
			set(x, r.Bottom()-1, '▁', border)
		}
		for y := r.Y; y < r.Bottom(); y++ {
			set(r.Right()-1, y, '▕', border)
		}
	}

	if r.W > 2 && r.H > 1 {
		label := []rune(t.Node.Name())
		if n := r.W - 2; len(label) > n {
			label = label[:n]
		}
		for i, ch := range label {
			set(r.X+i, r.Y, ch, style)
		}
	}
}

func center(r tree.Rect) tree.Point {
	return tree.Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"geomap/internal/edit"
	"geomap/internal/geom"
)

// Options wires a Model to its registry.
type Options struct {
	Registry *edit.Registry
	// Converter is used to move the view between reference systems; the
	// same converter should back the registry.
	Converter geom.Converter
	// Tolerance is the identify window size in screen cells.
	Tolerance int
}

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	// Data
	reg       *edit.Registry
	conv      geom.Converter
	homeSRID  int
	viewSRID  int
	tolerance int
	props     map[string]map[string]any
	pasted    int
	// world extent fitted to the screen at zoom 1, in viewSRID
	extent geom.Envelope

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// layer visibility
	showPoints bool
	showLines  bool
	showPolys  bool

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverCellX  int
	hoverCellY  int
	hoverHasGeo bool
	hoverX      float64
	hoverY      float64
	hoverID     string

	// selection and attributes table
	selected  []string
	showAttrs bool
	tbl       table.Model
}

func New(opts Options) Model {
	m := Model{
		showSidebar: false,
		helpVisible: true,
		zoom:        1.0,
		status:      "geomap ready",
		showPoints:  true,
		showLines:   true,
		showPolys:   true,
		reg:         opts.Registry,
		conv:        opts.Converter,
		homeSRID:    opts.Registry.SRID(),
		viewSRID:    opts.Registry.SRID(),
		tolerance:   max(1, opts.Tolerance),
		props:       map[string]map[string]any{},
		extent:      geom.EmptyEnvelope(),
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste WKT or EWKT here. Enter adds it as a feature; Esc cancels."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// columns are rebuilt from the selection
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	if m.reg.Len() > 0 {
		m.resetView()
	}
	return m
}

// NewWithPath preloads a file at launch.
func NewWithPath(opts Options, path string) Model {
	m := New(opts)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// resetView fits the registry extent to the screen.
func (m *Model) resetView() {
	m.extent = fitExtent(m.reg.Bounds())
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
}

// fitExtent widens degenerate extents so a single point or a horizontal
// line still maps onto the screen.
func fitExtent(e geom.Envelope) geom.Envelope {
	if !e.IsValid() {
		return e
	}
	w, h := e.Width(), e.Height()
	switch {
	case w == 0 && h == 0:
		return geom.EnvelopeAround(e.Center(), 1)
	case w == 0:
		e.LLX -= h / 2
		e.URX += h / 2
	case h == 0:
		e.LLY -= w / 2
		e.URY += w / 2
	}
	return e
}

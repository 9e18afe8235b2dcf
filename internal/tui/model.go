package tui

import (
	"context"
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/paulmach/orb"

	"routemap/internal/config"
	"routemap/internal/dataset"
	"routemap/internal/render"
	"routemap/internal/selection"
)

// Config wires a Model to the rendering pipeline.
type Config struct {
	Settings config.Settings
	// Renderer defaults to one built from Settings.
	Renderer *render.Renderer
	// Manager defaults to an in-process manager that knows the current frame.
	Manager selection.Manager
	Logger  *log.Logger
	Context context.Context
	// Dir is listed in the sidebar; the working directory when empty.
	Dir string
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

	// Pipeline
	ctx      context.Context
	logger   *log.Logger
	settings config.Settings
	renderer *render.Renderer
	manager  selection.Manager
	local    *selection.LocalManager
	state    *selection.State
	data     dataset.DataView
	loaded   bool
	frame    render.Frame
	// bound is the projected extent, refitted whenever a frame has bounds.
	bound orb.Bound

	// commits in flight
	pending int

	// last rendered map pane
	mapX, mapY int
	mapW, mapH int

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// hover state
	hovering    bool
	hoverHasGeo bool
	hoverLng    float64
	hoverLat    float64
	hoverTip    []dataset.Field

	// attributes table
	showAttrs bool
	tbl       table.Model
}

func New(c Config) Model {
	m := Model{
		showSidebar: false,
		helpVisible: true,
		zoom:        1.0,
		status:      "routemap ready",
		ctx:         c.Context,
		logger:      c.Logger,
		settings:    c.Settings,
		renderer:    c.Renderer,
		manager:     c.Manager,
		state:       selection.NewState(),
		cwd:         c.Dir,
	}
	if m.ctx == nil {
		m.ctx = context.Background()
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	if m.renderer == nil {
		r, err := render.NewRenderer(m.settings, render.WithLogger(m.logger))
		if err != nil {
			m.status = "settings: " + err.Error()
			m.settings = config.Default()
			r, _ = render.NewRenderer(m.settings, render.WithLogger(m.logger))
		}
		m.renderer = r
	}
	if m.manager == nil {
		m.local = selection.NewLocalManager(nil)
		m.manager = m.local
	}
	if m.cwd == "" {
		m.cwd, _ = os.Getwd()
	}
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste CSV with a header row. Press Ctrl+S to render; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a route file at launch.
func NewWithPath(c Config, path string) Model {
	m := New(c)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// Frame returns the frame on screen.
func (m Model) Frame() render.Frame { return m.frame }

// Selected returns the local selection mirror.
func (m Model) Selected() []dataset.Key { return m.state.Keys() }

// Status returns the status line text.
func (m Model) Status() string { return m.status }

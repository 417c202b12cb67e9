// Package app is the interactive shell: it waits for the runtime
// configuration, then routes between the entity pages.
package app

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/retailcat/catalogadmin/cli/api"
	"github.com/retailcat/catalogadmin/cli/tui/components"
	"github.com/retailcat/catalogadmin/cli/tui/models"
	"github.com/retailcat/catalogadmin/cli/tui/pages"
	"github.com/retailcat/catalogadmin/cli/tui/styles"
	"github.com/retailcat/catalogadmin/pkg/catalog"
	"github.com/retailcat/catalogadmin/pkg/config"
	"github.com/retailcat/catalogadmin/pkg/livelist"
	"github.com/retailcat/catalogadmin/pkg/prefs"
)

const (
	PageProducts = "products"
	PageBrands   = "brands"
	PageAbout    = "about"
)

// LoadFunc produces the runtime configuration.
type LoadFunc func(ctx context.Context) (*config.Config, error)

// PageFactory builds the pages for a ready configuration, keyed by nav key.
type PageFactory func(ctx context.Context, cfg *config.Config) (map[string]pages.Page, error)

type Options struct {
	Load    LoadFunc
	Pages   PageFactory
	Prefs   *prefs.Store
	Version string
	// Changes delivers reloaded configurations while the app runs.
	Changes <-chan *config.Config
}

type configLoadedMsg struct {
	loaded config.Loaded
}

type configChangedMsg struct {
	cfg *config.Config
}

type drawerSavedMsg struct {
	err error
}

type KeyMap struct {
	Quit     key.Binding
	Help     key.Binding
	Drawer   key.Binding
	NextPage key.Binding
	PrevPage key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:     key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Drawer:   key.NewBinding(key.WithKeys("ctrl+b"), key.WithHelp("ctrl+b", "menu")),
		NextPage: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next section")),
		PrevPage: key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "previous section")),
	}
}

// Model is the root bubbletea model.
type Model struct {
	models.BaseModel
	opts    Options
	loaded  config.Loaded
	layout  components.Layout
	pages   map[string]pages.Page
	started map[string]bool
	// stopPages cancels the context the current pages were built with.
	stopPages context.CancelFunc
	spinner spinner.Model
	keyMap  KeyMap
}

func New(ctx context.Context, opts Options) *Model {
	if opts.Pages == nil {
		opts.Pages = DefaultPages(opts.Version)
	}
	drawerOpen := true
	if opts.Prefs != nil {
		drawerOpen = opts.Prefs.DrawerOpen(ctx)
	}
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = styles.SpinnerStyle
	keyMap := DefaultKeyMap()
	layout := components.NewLayout(pages.AppName, components.NewDrawer([]components.NavItem{
		{Key: PageProducts, Label: "Products"},
		{Key: PageBrands, Label: "Brands"},
		{Key: PageAbout, Label: "About"},
	}, drawerOpen))
	layout.Shortcuts = components.NewKeyboardShortcuts(
		components.NewShortcutCategory("General",
			keyMap.NextPage, keyMap.PrevPage, keyMap.Drawer, keyMap.Help, keyMap.Quit),
		pages.ListShortcuts(),
		components.TableShortcuts(),
		components.FormShortcuts(),
	)
	return &Model{
		BaseModel: models.NewBaseModel(ctx, models.ModeTUI),
		opts:      opts,
		loaded:    config.Pending(),
		layout:    layout,
		spinner:   s,
		keyMap:    keyMap,
	}
}

// State exposes the configuration lifecycle.
func (m *Model) State() config.State { return m.loaded.State }

// Drawer exposes the navigation drawer.
func (m *Model) Drawer() components.Drawer { return m.layout.Drawer }

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load(), m.waitForChange())
}

func (m *Model) load() tea.Cmd {
	ctx, load := m.Context(), m.opts.Load
	return func() tea.Msg {
		return configLoadedMsg{loaded: config.Resolve(load(ctx))}
	}
}

func (m *Model) waitForChange() tea.Cmd {
	ch := m.opts.Changes
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configChangedMsg{cfg: cfg}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if cmd := m.BaseModel.Update(msg); cmd != nil {
		return m, cmd
	}
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout.SetSize(msg.Width, msg.Height)
		m.resizePages()
		return m, nil
	case configLoadedMsg:
		return m, m.applyConfig(msg.loaded)
	case configChangedMsg:
		m.Logger().Info("Configuration reloaded")
		return m, tea.Batch(m.applyConfig(config.Resolve(msg.cfg, nil)), m.waitForChange())
	case drawerSavedMsg:
		if msg.err != nil {
			m.Logger().Warn("Failed to save drawer preference", "error", msg.err)
		}
		return m, nil
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, tea.Batch(cmd, m.broadcast(msg))
	case pages.TaskDoneMsg, pages.VersionMsg:
		return m, m.broadcast(msg)
	}
	if page := m.activePage(); page != nil {
		return m, page.Update(msg)
	}
	return m, nil
}

func (m *Model) applyConfig(loaded config.Loaded) tea.Cmd {
	if !loaded.Ready() {
		m.loaded = loaded
		return nil
	}
	ctx, cancel := context.WithCancel(m.Context())
	built, err := m.opts.Pages(ctx, loaded.Config)
	if err != nil {
		cancel()
		m.loaded = config.Resolve(nil, err)
		return nil
	}
	if m.stopPages != nil {
		// abort whatever the previous pages still have in flight
		m.stopPages()
	}
	m.stopPages = cancel
	m.loaded = loaded
	m.pages = built
	m.started = make(map[string]bool, len(built))
	m.resizePages()
	return m.startActive()
}

func (m *Model) resizePages() {
	w, h := m.layout.ContentSize()
	for _, p := range m.pages {
		p.SetSize(w, h)
	}
}

func (m *Model) activePage() pages.Page {
	if m.pages == nil {
		return nil
	}
	return m.pages[m.layout.Drawer.Current().Key]
}

// startActive mounts the active page the first time it is shown.
func (m *Model) startActive() tea.Cmd {
	navKey := m.layout.Drawer.Current().Key
	page, ok := m.pages[navKey]
	if !ok || m.started[navKey] {
		return nil
	}
	m.started[navKey] = true
	return page.Init()
}

func (m *Model) broadcast(msg tea.Msg) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(m.pages))
	for _, p := range m.pages {
		cmds = append(cmds, p.Update(msg))
	}
	return tea.Batch(cmds...)
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.layout.Shortcuts.Visible {
		return m.layout.Shortcuts.Update(msg)
	}
	page := m.activePage()
	if page != nil && page.Capturing() {
		return page.Update(msg)
	}
	switch {
	case key.Matches(msg, m.keyMap.Quit):
		m.Quit()
		return tea.Quit
	case key.Matches(msg, m.keyMap.Help):
		m.layout.Shortcuts.Toggle()
		return nil
	case key.Matches(msg, m.keyMap.Drawer):
		return m.toggleDrawer()
	case key.Matches(msg, m.keyMap.NextPage):
		m.layout.Drawer.Step(1)
		m.resizePages()
		return m.startActive()
	case key.Matches(msg, m.keyMap.PrevPage):
		m.layout.Drawer.Step(-1)
		m.resizePages()
		return m.startActive()
	}
	if page == nil {
		return nil
	}
	return page.Update(msg)
}

func (m *Model) toggleDrawer() tea.Cmd {
	m.layout.Drawer.Toggle()
	m.resizePages()
	store, open, ctx := m.opts.Prefs, m.layout.Drawer.Open, m.Context()
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return drawerSavedMsg{err: store.SetDrawerOpen(ctx, open)}
	}
}

func (m *Model) View() string {
	if m.IsQuitting() {
		return ""
	}
	switch m.loaded.State {
	case config.StateLoading:
		return m.spinner.View() + " Loading configuration..."
	case config.StateInvalid:
		return lipgloss.JoinVertical(lipgloss.Left,
			styles.ErrorStyle.Render("Invalid configuration"),
			styles.HelpStyle.Render(m.loaded.Err.Error()),
			"",
			styles.HelpStyle.Render("Fix the configuration and restart. Press ctrl+c to exit."),
		)
	}
	page := m.activePage()
	if page == nil {
		return ""
	}
	return m.layout.View(page.View(), page.Status(), m.loaded.Config.Runtime.Environment)
}

// DefaultPages builds the product, brand and about pages against the
// configured backends. API versions are shown outside production only.
func DefaultPages(version string) PageFactory {
	return func(ctx context.Context, cfg *config.Config) (map[string]pages.Page, error) {
		clients, err := api.NewClients(cfg)
		if err != nil {
			return nil, err
		}
		var productsVersion, brandsVersion pages.Versioner
		if !cfg.Runtime.IsProduction() {
			productsVersion, brandsVersion = clients.Products, clients.Brands
		}
		return map[string]pages.Page{
			PageProducts: pages.NewListPage(ctx,
				livelist.New[catalog.Product](clients.Products, catalog.Products),
				pages.ProductColumns(), pages.ProductFields(), productsVersion),
			PageBrands: pages.NewListPage(ctx,
				livelist.New[catalog.Brand](clients.Brands, catalog.Brands),
				pages.BrandColumns(), pages.BrandFields(), brandsVersion),
			PageAbout: pages.NewAboutPage(version),
		}, nil
	}
}

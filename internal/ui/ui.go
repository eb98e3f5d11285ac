package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/desertthunder/playliner/internal/drag"
	"github.com/desertthunder/playliner/internal/formatter"
	"github.com/desertthunder/playliner/internal/models"
	"github.com/desertthunder/playliner/internal/shared"
	"github.com/desertthunder/playliner/internal/store"
	"github.com/desertthunder/playliner/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistsView ViewState = iota
	VideosView
	FormView
	ConfirmView
	EnrichView
)

// confirmation is a pending delete. An empty videoID means the whole playlist.
type confirmation struct {
	prompt     string
	playlistID string
	videoID    string
}

// Option configures a [Model].
type Option func(*Model)

// WithTitles sets the title lookup used when a video is added without a name.
func WithTitles(t store.TitleFetcher) Option {
	return func(m *Model) { m.titles = t }
}

// WithEngine enables title refresh through a task engine.
func WithEngine(e *tasks.Engine, opts tasks.EnrichOpts) Option {
	return func(m *Model) {
		m.engine = e
		m.enrichOpts = opts
	}
}

// WithPlayer replaces the function used to open a video, [shared.PlayVideo] by default.
func WithPlayer(play func(url string) (string, error)) Option {
	return func(m *Model) { m.play = play }
}

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	previous     ViewState
	session      *store.Session
	titles       store.TitleFetcher
	engine       *tasks.Engine
	enrichOpts   tasks.EnrichOpts
	logger       *log.Logger
	play         func(string) (string, error)
	width        int
	height       int
	playlists    list.Model
	videos       list.Model
	playlistDrag *drag.Gesture
	videoDrag    *drag.Gesture
	current      string
	form         form
	confirm      confirmation
	progressChan chan tasks.ProgressUpdate
	enrichDone   chan Msg
	progress     tasks.ProgressUpdate
	bar          progress.Model
	result       *tasks.EnrichResult
	status       string
	err          error
	help         help.Model
	keys         keyMap
}

// NewModel creates a new TUI model over session.
func NewModel(ctx context.Context, session *store.Session, logger *log.Logger, opts ...Option) *Model {
	if logger == nil {
		logger = log.Default()
	}

	m := &Model{
		ctx:     ctx,
		view:    PlaylistsView,
		session: session,
		logger:  logger,
		play:    shared.PlayVideo,
		bar:     progress.New(progress.WithDefaultGradient()),
		help:    help.New(),
		keys:    newKeyMap(),
	}
	for _, opt := range opts {
		opt(m)
	}

	m.playlistDrag = drag.NewGesture(m.session.ReorderPlaylists)
	m.videoDrag = drag.NewGesture(func(from, to int) bool {
		return m.session.ReorderVideos(m.current, from, to)
	})
	m.playlists = newList("Learning Paths", m.playlistDrag)
	m.videos = newList("", m.videoDrag)
	m.refresh()
	return m
}

// Init has nothing to load; the session is already populated.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.playlists.SetSize(msg.Width-4, msg.Height-6)
		m.videos.SetSize(msg.Width-4, msg.Height-8)
		m.bar.Width = min(msg.Width-4, 60)
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistsView:
			return m.handlePlaylistKeys(msg)
		case VideosView:
			return m.handleVideoKeys(msg)
		case FormView:
			return m.handleFormKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case EnrichView:
			return m.handleEnrichKeys(msg)
		}

	case Msg:
		return m.handleMsg(msg)
	}

	if m.view == FormView {
		return m, m.form.update(msg)
	}
	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgVideoAdded:
		data := msg.data.(videoAdded)
		m.refresh()
		switch {
		case !data.ok:
			m.err = fmt.Errorf("%w: %s", shared.ErrPlaylistNotFound, m.current)
		case data.err != nil:
			m.status = styles.warn.Render(fmt.Sprintf("Added %q; title lookup failed: %v", data.video.Name, data.err))
		default:
			m.status = styles.ok.Render(fmt.Sprintf("Added %q", data.video.Name))
		}
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgEnrichComplete:
		data := msg.data.(enrichComplete)
		m.result, m.err = data.result, data.err
		m.progressChan, m.enrichDone = nil, nil
		m.refresh()
		return m, nil
	}
	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case PlaylistsView:
		return m.renderPlaylists()
	case VideosView:
		return m.renderVideos()
	case FormView:
		return m.renderForm()
	case ConfirmView:
		return m.renderConfirm()
	case EnrichView:
		return m.renderEnrich()
	default:
		return ""
	}
}

// refresh rebuilds both lists from the session snapshot.
func (m *Model) refresh() {
	c := m.session.Snapshot()

	items := make([]list.Item, len(c))
	for i, p := range c {
		items[i] = playlistItem{playlist: p}
	}
	m.playlists.SetItems(items)
	clamp(&m.playlists)

	p, ok := c.Find(m.current)
	if !ok {
		m.current = ""
		m.videos.SetItems(nil)
		if m.view == VideosView {
			m.view = PlaylistsView
		}
		return
	}

	videos := make([]list.Item, len(p.Videos))
	for i, v := range p.Videos {
		videos[i] = videoItem{video: v}
	}
	m.videos.Title = p.Name
	m.videos.SetItems(videos)
	clamp(&m.videos)
}

func (m *Model) selectedPlaylist() (models.Playlist, bool) {
	item, ok := m.playlists.SelectedItem().(playlistItem)
	return item.playlist, ok
}

func (m *Model) selectedVideo() (models.Video, bool) {
	item, ok := m.videos.SelectedItem().(videoItem)
	return item.video, ok
}

func (m *Model) currentPlaylist() (models.Playlist, bool) {
	return m.session.Snapshot().Find(m.current)
}

// handleDragKeys drives a reorder gesture. While an item is picked up only cursor
// movement, drop, leave and quit are honored.
func (m *Model) handleDragKeys(msg tea.KeyMsg, l *list.Model, g *drag.Gesture) (bool, tea.Cmd) {
	if g.Kind() == drag.Idle {
		if key.Matches(msg, m.keys.grab) && len(l.Items()) > 0 {
			g.Start(l.Index())
			m.status = styles.muted.Render("Moving: use ↑/↓ to choose a position, space to drop, esc to leave")
			return true, nil
		}
		return false, nil
	}

	switch {
	case key.Matches(msg, m.keys.grab), key.Matches(msg, m.keys.open):
		to, hasTarget := g.Target()
		if g.Drop() {
			m.refresh()
			l.Select(to)
			m.status = styles.ok.Render("Moved")
		} else if !hasTarget {
			m.status = ""
		}
		return true, nil
	case key.Matches(msg, m.keys.back):
		if g.Kind() == drag.DraggingOverTarget {
			g.Leave()
		} else {
			g.Cancel()
			m.status = ""
		}
		return true, nil
	case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		var cmd tea.Cmd
		*l, cmd = l.Update(msg)
		g.Enter(l.Index())
		return true, cmd
	case msg.String() == "ctrl+c":
		return true, tea.Quit
	}
	return true, nil
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if handled, cmd := m.handleDragKeys(msg, &m.playlists, m.playlistDrag); handled {
		return m, cmd
	}
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.open):
		if p, ok := m.selectedPlaylist(); ok {
			m.current = p.ID
			m.view = VideosView
			m.status = ""
			m.refresh()
			m.videos.Select(0)
		}
		return m, nil
	case key.Matches(msg, m.keys.add):
		p, _ := m.session.AddPlaylist("")
		m.refresh()
		m.playlists.Select(len(m.playlists.Items()) - 1)
		m.status = styles.ok.Render(fmt.Sprintf("Created %q", p.Name))
		return m, nil
	case key.Matches(msg, m.keys.edit):
		if p, ok := m.selectedPlaylist(); ok {
			return m, m.openForm(newRenameForm(p))
		}
		return m, nil
	case key.Matches(msg, m.keys.del):
		if p, ok := m.selectedPlaylist(); ok {
			m.askConfirm(confirmation{
				prompt:     fmt.Sprintf("Remove %q and all %d videos?", p.Name, len(p.Videos)),
				playlistID: p.ID,
			})
		}
		return m, nil
	case key.Matches(msg, m.keys.all):
		if p, ok := m.selectedPlaylist(); ok {
			m.markAll(p)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.playlists, cmd = m.playlists.Update(msg)
	return m, cmd
}

func (m *Model) handleVideoKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if handled, cmd := m.handleDragKeys(msg, &m.videos, m.videoDrag); handled {
		return m, cmd
	}
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.back):
		m.view = PlaylistsView
		m.status = ""
		return m, nil
	case key.Matches(msg, m.keys.add):
		return m, m.openForm(newAddVideoForm(m.current))
	case key.Matches(msg, m.keys.edit):
		if v, ok := m.selectedVideo(); ok {
			return m, m.openForm(newEditVideoForm(m.current, v))
		}
		return m, nil
	case key.Matches(msg, m.keys.del):
		if v, ok := m.selectedVideo(); ok {
			m.askConfirm(confirmation{
				prompt:     fmt.Sprintf("Remove %q?", v.Name),
				playlistID: m.current,
				videoID:    v.ID,
			})
		}
		return m, nil
	case key.Matches(msg, m.keys.toggle):
		if v, ok := m.selectedVideo(); ok {
			m.session.ToggleWatched(m.current, v.ID)
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.all):
		if p, ok := m.currentPlaylist(); ok {
			m.markAll(p)
		}
		return m, nil
	case key.Matches(msg, m.keys.play), key.Matches(msg, m.keys.open):
		if v, ok := m.selectedVideo(); ok {
			if embed, err := m.play(v.URL); err != nil {
				m.err = err
			} else {
				m.status = styles.muted.Render("Playing " + embed)
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.enrich):
		return m, m.startEnrich()
	}

	var cmd tea.Cmd
	m.videos, cmd = m.videos.Update(msg)
	return m, cmd
}

// markAll marks every video watched, or clears them all when they already are.
func (m *Model) markAll(p models.Playlist) {
	watched := len(p.Videos) == 0 || p.WatchedCount() < len(p.Videos)
	if m.session.SetWatched(p.ID, watched) {
		m.refresh()
	}
}

func (m *Model) openForm(f form) tea.Cmd {
	m.previous = m.view
	m.form = f
	m.view = FormView
	m.status = ""
	return nil
}

func (m *Model) closeForm() {
	m.view = m.previous
	m.form = form{}
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.closeForm()
		m.status = styles.muted.Render("Edit cancelled")
		return m, nil
	case key.Matches(msg, m.keys.next):
		return m, m.form.cycle(msg.String() == "shift+tab")
	case msg.String() == "enter":
		return m.submitForm()
	}
	return m, m.form.update(msg)
}

func (m *Model) submitForm() (tea.Model, tea.Cmd) {
	f := m.form

	switch f.kind {
	case renamePlaylistForm:
		m.session.RenamePlaylist(f.playlistID, f.value(0))
	case editVideoForm:
		name, url := f.value(0), f.value(1)
		if !store.ValidVideo(models.Video{Name: name, URL: url}) {
			m.status = styles.warn.Render("Name and URL must not be blank")
			return m, nil
		}
		m.session.UpdateVideo(f.playlistID, f.videoID, name, url)
	case addVideoForm:
		url, name := f.value(0), f.value(1)
		if !store.ValidName(url) {
			m.status = styles.warn.Render("URL is required")
			return m, nil
		}
		m.closeForm()
		if store.ValidName(name) {
			v, ok := m.session.AddVideo(f.playlistID, name, url)
			return m.handleMsg(videoAddedMsg(v, ok, nil))
		}
		m.status = styles.muted.Render("Looking up title...")
		return m, m.addVideoByURL(f.playlistID, url)
	}

	m.closeForm()
	m.refresh()
	return m, nil
}

// addVideoByURL adds the video off the update loop since the title lookup is a network call.
func (m *Model) addVideoByURL(playlistID, url string) tea.Cmd {
	titles := m.titles
	if titles == nil {
		titles = noTitles{}
	}
	return func() tea.Msg {
		v, ok, err := m.session.AddVideoByURL(m.ctx, titles, playlistID, url)
		return videoAddedMsg(v, ok, err)
	}
}

func (m *Model) askConfirm(c confirmation) {
	m.previous = m.view
	m.confirm = c
	m.view = ConfirmView
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		return m, tea.Quit
	case key.Matches(msg, m.keys.yes):
		c := m.confirm
		if c.videoID == "" {
			m.session.DeletePlaylist(c.playlistID)
			m.logger.Info("deleted playlist", "id", c.playlistID)
		} else {
			m.session.DeleteVideo(c.playlistID, c.videoID)
		}
		m.view = m.previous
		m.confirm = confirmation{}
		m.refresh()
		m.status = styles.ok.Render("Deleted")
	case key.Matches(msg, m.keys.no):
		m.view = m.previous
		m.confirm = confirmation{}
	}
	return m, nil
}

func (m *Model) startEnrich() tea.Cmd {
	if m.engine == nil {
		m.err = fmt.Errorf("%w: title lookup is not configured", shared.ErrServiceUnavailable)
		return nil
	}

	progress := make(chan tasks.ProgressUpdate, 50)
	done := make(chan Msg, 1)
	engine, ctx, id, opts := m.engine, m.ctx, m.current, m.enrichOpts

	go func() {
		result, err := engine.Enrich(ctx, progress, id, opts)
		close(progress)
		done <- enrichCompleteMsg(result, err)
	}()

	m.progressChan, m.enrichDone = progress, done
	m.progress = tasks.ProgressUpdate{}
	m.result, m.err = nil, nil
	m.view = EnrichView
	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	progress, done := m.progressChan, m.enrichDone
	if progress == nil {
		return nil
	}
	return func() tea.Msg {
		if update, ok := <-progress; ok {
			return progressUpdateMsg(update)
		}
		return <-done
	}
}

func (m *Model) handleEnrichKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.progressChan == nil {
		m.view = VideosView
		m.err = nil
	}
	return m, nil
}

func (m *Model) footer(bindings ...key.Binding) string {
	var b strings.Builder
	if m.err != nil {
		b.WriteString(styles.err.Render(fmt.Sprintf("Error: %v", m.err)))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(m.status)
		b.WriteString("\n")
	}
	if m.help.ShowAll {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(bindings))
	}
	return b.String()
}

func (m *Model) renderPlaylists() string {
	if len(m.playlists.Items()) == 0 {
		empty := styles.muted.Render("No learning paths yet. Press a to create one.")
		return fmt.Sprintf("%s\n\n%s\n\n%s", styles.title.Render(m.playlists.Title), empty, m.footer(m.keys.add, m.keys.help, m.keys.quit))
	}
	return fmt.Sprintf("%s\n%s", m.playlists.View(), m.footer(m.keys.open, m.keys.grab, m.keys.add, m.keys.edit, m.keys.del, m.keys.help, m.keys.quit))
}

func (m *Model) renderVideos() string {
	p, _ := m.currentPlaylist()
	header := fmt.Sprintf("%s %s", m.bar.ViewAs(p.Progress()/100), styles.muted.Render(formatter.ProgressLine(p)))

	body := m.videos.View()
	if len(p.Videos) == 0 {
		body = fmt.Sprintf("%s\n\n%s", styles.title.Render(p.Name), styles.muted.Render("No videos yet. Press a to add one."))
	}
	return fmt.Sprintf("%s\n\n%s\n%s", header, body, m.footer(m.keys.play, m.keys.toggle, m.keys.grab, m.keys.add, m.keys.back, m.keys.help))
}

func (m *Model) renderForm() string {
	return fmt.Sprintf("%s\n%s", m.form.view(), m.footer(m.keys.next, m.keys.back))
}

func (m *Model) renderConfirm() string {
	title := styles.warn.Render(m.confirm.prompt)
	return fmt.Sprintf("%s\n\n%s", title, m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no}))
}

func (m *Model) renderEnrich() string {
	title := styles.title.Render("Refreshing Titles")

	if m.progressChan != nil {
		percent := 0.0
		if m.progress.Total > 0 {
			percent = float64(m.progress.Step) / float64(m.progress.Total)
		}
		return fmt.Sprintf("%s\n\n%s\n%s", title, m.bar.ViewAs(percent), m.progress.Message)
	}

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s\n\n%s", title, styles.err.Render(fmt.Sprintf("Refresh failed: %v", m.err)), styles.help.Render("press any key to continue"))
	}

	info := "Nothing to refresh"
	if m.result != nil {
		info = fmt.Sprintf("Updated %d of %d titles", m.result.Updated, len(m.result.Results))
		if m.result.Failed > 0 {
			info += styles.warn.Render(fmt.Sprintf(" (%d lookups failed)", m.result.Failed))
		}
	}
	return fmt.Sprintf("%s\n\n%s\n\n%s", title, styles.ok.Render("✓ ")+info, styles.help.Render("press any key to continue"))
}

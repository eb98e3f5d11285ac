package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/playliner/internal/models"
)

type formKind int

const (
	renamePlaylistForm formKind = iota
	addVideoForm
	editVideoForm
)

// form holds the text inputs of an edit. Nothing is applied until it is submitted,
// so leaving it restores the previous values.
type form struct {
	kind       formKind
	title      string
	inputs     []textinput.Model
	focus      int
	playlistID string
	videoID    string
}

func newInput(label, value, placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Prompt = styles.label.Render(label+": ") + " "
	ti.Placeholder = placeholder
	ti.CharLimit = 512
	ti.SetValue(value)
	return ti
}

func newRenameForm(p models.Playlist) form {
	f := form{
		kind:       renamePlaylistForm,
		title:      "Rename learning path",
		inputs:     []textinput.Model{newInput("Name", p.Name, "")},
		playlistID: p.ID,
	}
	f.inputs[0].Focus()
	return f
}

func newAddVideoForm(playlistID string) form {
	f := form{
		kind:  addVideoForm,
		title: "Add video",
		inputs: []textinput.Model{
			newInput("URL", "", "https://www.youtube.com/watch?v=..."),
			newInput("Name", "", "leave blank to look up the title"),
		},
		playlistID: playlistID,
	}
	f.inputs[0].Focus()
	return f
}

func newEditVideoForm(playlistID string, v models.Video) form {
	f := form{
		kind:  editVideoForm,
		title: "Edit video",
		inputs: []textinput.Model{
			newInput("Name", v.Name, ""),
			newInput("URL", v.URL, ""),
		},
		playlistID: playlistID,
		videoID:    v.ID,
	}
	f.inputs[0].Focus()
	return f
}

func (f *form) value(i int) string {
	return strings.TrimSpace(f.inputs[i].Value())
}

// cycle moves focus to the next input, or the previous one for shift+tab.
func (f *form) cycle(reverse bool) tea.Cmd {
	f.inputs[f.focus].Blur()
	step := 1
	if reverse {
		step = len(f.inputs) - 1
	}
	f.focus = (f.focus + step) % len(f.inputs)
	return f.inputs[f.focus].Focus()
}

func (f *form) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

func (f form) view() string {
	var b strings.Builder
	b.WriteString(styles.title.Render(f.title))
	b.WriteString("\n")
	for _, in := range f.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
	}
	return b.String()
}

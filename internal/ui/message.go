package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/desertthunder/playliner/internal/models"
	"github.com/desertthunder/playliner/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgVideoAdded MsgKind = iota
	MsgProgressUpdate
	MsgEnrichComplete
)

type videoAdded struct {
	video models.Video
	ok    bool
	err   error
}

type enrichComplete struct {
	result *tasks.EnrichResult
	err    error
}

// videoAddedMsg is the constructor for [MsgVideoAdded]
func videoAddedMsg(video models.Video, ok bool, err error) Msg {
	return Msg{kind: MsgVideoAdded, data: videoAdded{video, ok, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// enrichCompleteMsg is the constructor for [MsgEnrichComplete]
func enrichCompleteMsg(result *tasks.EnrichResult, err error) Msg {
	return Msg{kind: MsgEnrichComplete, data: enrichComplete{result, err}}
}

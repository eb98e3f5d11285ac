package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/desertthunder/playliner/internal/models"
	"github.com/desertthunder/playliner/internal/services"
	"github.com/desertthunder/playliner/internal/shared"
	"github.com/desertthunder/playliner/internal/store"
)

// PlaylistHandler serves the playlist API over a [store.Session].
//
// metadata and importer are optional; without them adding by URL uses the placeholder
// title and /api/import answers 503.
type PlaylistHandler struct {
	session  *store.Session
	metadata services.Metadata
	importer services.Importer
	logger   *log.Logger
}

func NewPlaylistHandler(session *store.Session, metadata services.Metadata, importer services.Importer, logger *log.Logger) *PlaylistHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &PlaylistHandler{session: session, metadata: metadata, importer: importer, logger: logger}
}

func (h *PlaylistHandler) Routes() []Route {
	return []Route{
		{http.MethodGet, "/api/playlists", h.List},
		{http.MethodPost, "/api/playlists", h.Create},
		{http.MethodPost, "/api/playlists/move", h.Move},
		{http.MethodGet, "/api/playlists/{id}", h.Show},
		{http.MethodPatch, "/api/playlists/{id}", h.Rename},
		{http.MethodDelete, "/api/playlists/{id}", h.Delete},
		{http.MethodPost, "/api/playlists/{id}/watched", h.SetWatched},
		{http.MethodPost, "/api/playlists/{id}/videos", h.AddVideo},
		{http.MethodPost, "/api/playlists/{id}/videos/move", h.MoveVideo},
		{http.MethodPatch, "/api/playlists/{id}/videos/{vid}", h.UpdateVideo},
		{http.MethodDelete, "/api/playlists/{id}/videos/{vid}", h.DeleteVideo},
		{http.MethodPost, "/api/playlists/{id}/videos/{vid}/toggle", h.ToggleVideo},
		{http.MethodPost, "/api/import", h.Import},
		{http.MethodGet, "/api/embed", h.Embed},
	}
}

// PlaylistView is a playlist with its derived progress.
type PlaylistView struct {
	models.Playlist
	WatchedCount int     `json:"watched_count"`
	Progress     float64 `json:"progress"`
}

func viewOf(p models.Playlist) PlaylistView {
	return PlaylistView{Playlist: p, WatchedCount: p.WatchedCount(), Progress: p.Progress()}
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// decode reads a JSON body into v. An empty body leaves v untouched.
func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (h *PlaylistHandler) playlist(w http.ResponseWriter, r *http.Request) (models.Playlist, bool) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	p, ok := h.session.Snapshot().Find(id)
	if !ok {
		writeError(w, http.StatusNotFound, shared.ErrPlaylistNotFound.Error())
	}
	return p, ok
}

func (h *PlaylistHandler) video(w http.ResponseWriter, r *http.Request) (models.Playlist, models.Video, bool) {
	p, ok := h.playlist(w, r)
	if !ok {
		return p, models.Video{}, false
	}
	v, ok := p.FindVideo(mux.Vars(r)["vid"])
	if !ok {
		writeError(w, http.StatusNotFound, shared.ErrVideoNotFound.Error())
	}
	return p, v, ok
}

func (h *PlaylistHandler) current(w http.ResponseWriter, status int, playlistID string) {
	p, ok := h.session.Snapshot().Find(playlistID)
	if !ok {
		writeError(w, http.StatusNotFound, shared.ErrPlaylistNotFound.Error())
		return
	}
	writeJSON(w, status, viewOf(p))
}

func (h *PlaylistHandler) List(w http.ResponseWriter, r *http.Request) {
	c := h.session.Snapshot()
	views := make([]PlaylistView, len(c))
	for i, p := range c {
		views[i] = viewOf(p)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *PlaylistHandler) Show(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.playlist(w, r); ok {
		writeJSON(w, http.StatusOK, viewOf(p))
	}
}

func (h *PlaylistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name string `json:"name"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	p, _ := h.session.AddPlaylist(body.Name)
	h.current(w, http.StatusCreated, p.ID)
}

func (h *PlaylistHandler) Rename(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playlist(w, r)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !store.ValidName(body.Name) {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	h.session.RenamePlaylist(p.ID, body.Name)
	h.current(w, http.StatusOK, p.ID)
}

func (h *PlaylistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playlist(w, r)
	if !ok {
		return
	}
	h.session.DeletePlaylist(p.ID)
	w.WriteHeader(http.StatusNoContent)
}

type moveRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

func validMove(m moveRequest, n int) bool {
	return m.From >= 0 && m.From < n && m.To >= 0 && m.To < n
}

func (h *PlaylistHandler) Move(w http.ResponseWriter, r *http.Request) {
	var body moveRequest
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validMove(body, len(h.session.Snapshot())) {
		writeError(w, http.StatusBadRequest, "index out of range")
		return
	}

	h.session.ReorderPlaylists(body.From, body.To)
	h.List(w, r)
}

func (h *PlaylistHandler) SetWatched(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playlist(w, r)
	if !ok {
		return
	}

	body := struct {
		Watched bool `json:"watched"`
	}{Watched: true}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.session.SetWatched(p.ID, body.Watched)
	h.current(w, http.StatusOK, p.ID)
}

func (h *PlaylistHandler) AddVideo(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playlist(w, r)
	if !ok {
		return
	}

	var body struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !store.ValidName(body.URL) {
		writeError(w, http.StatusBadRequest, "url is required")
		return
	}

	var v models.Video
	if store.ValidName(body.Name) {
		v, ok = h.session.AddVideo(p.ID, body.Name, body.URL)
	} else {
		var err error
		v, ok, err = h.session.AddVideoByURL(r.Context(), h.titles(), p.ID, body.URL)
		if err != nil {
			h.logger.Warn("added video with placeholder title", "url", body.URL, "err", err)
		}
	}
	if !ok {
		writeError(w, http.StatusNotFound, shared.ErrPlaylistNotFound.Error())
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// titles returns the metadata service, or a fetcher that always fails when none is set.
func (h *PlaylistHandler) titles() store.TitleFetcher {
	if h.metadata == nil {
		return unavailableTitles{}
	}
	return h.metadata
}

func (h *PlaylistHandler) MoveVideo(w http.ResponseWriter, r *http.Request) {
	p, ok := h.playlist(w, r)
	if !ok {
		return
	}

	var body moveRequest
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !validMove(body, len(p.Videos)) {
		writeError(w, http.StatusBadRequest, "index out of range")
		return
	}

	h.session.ReorderVideos(p.ID, body.From, body.To)
	h.current(w, http.StatusOK, p.ID)
}

func (h *PlaylistHandler) UpdateVideo(w http.ResponseWriter, r *http.Request) {
	p, v, ok := h.video(w, r)
	if !ok {
		return
	}

	var body struct {
		Name *string `json:"name"`
		URL  *string `json:"url"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name, url := v.Name, v.URL
	if body.Name != nil {
		name = *body.Name
	}
	if body.URL != nil {
		url = *body.URL
	}
	if !store.ValidVideo(models.Video{Name: name, URL: url}) {
		writeError(w, http.StatusBadRequest, "name and url must not be blank")
		return
	}

	h.session.UpdateVideo(p.ID, v.ID, name, url)
	h.writeVideo(w, p.ID, v.ID)
}

func (h *PlaylistHandler) DeleteVideo(w http.ResponseWriter, r *http.Request) {
	p, v, ok := h.video(w, r)
	if !ok {
		return
	}
	h.session.DeleteVideo(p.ID, v.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlaylistHandler) ToggleVideo(w http.ResponseWriter, r *http.Request) {
	p, v, ok := h.video(w, r)
	if !ok {
		return
	}
	h.session.ToggleWatched(p.ID, v.ID)
	h.writeVideo(w, p.ID, v.ID)
}

func (h *PlaylistHandler) writeVideo(w http.ResponseWriter, playlistID, videoID string) {
	p, _ := h.session.Snapshot().Find(playlistID)
	v, ok := p.FindVideo(videoID)
	if !ok {
		writeError(w, http.StatusNotFound, shared.ErrVideoNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func (h *PlaylistHandler) Import(w http.ResponseWriter, r *http.Request) {
	if h.importer == nil {
		writeError(w, http.StatusServiceUnavailable, shared.ErrServiceUnavailable.Error())
		return
	}

	var body struct {
		URL string `json:"url"`
	}
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	imported, err := h.importer.Import(r.Context(), body.URL)
	if err != nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, services.ErrInvalidPlaylistURL):
			status = http.StatusBadRequest
		case errors.Is(err, services.ErrPlaylistEmpty):
			status = http.StatusUnprocessableEntity
		}
		h.logger.Warn("import failed", "url", body.URL, "err", err)
		writeError(w, status, services.UserMessage(err))
		return
	}

	p, ok := h.session.InsertPlaylist(*imported)
	if !ok {
		writeError(w, http.StatusUnprocessableEntity, services.ErrPlaylistEmpty.Error())
		return
	}
	writeJSON(w, http.StatusCreated, viewOf(p))
}

type embedResponse struct {
	VideoID      string `json:"video_id"`
	EmbedURL     string `json:"embed_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

func (h *PlaylistHandler) Embed(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	id, ok := shared.ExtractVideoID(raw)
	if !ok {
		writeError(w, http.StatusBadRequest, shared.ErrInvalidVideoURL.Error())
		return
	}
	embed, _ := shared.EmbedURL(raw)
	writeJSON(w, http.StatusOK, embedResponse{VideoID: id, EmbedURL: embed, ThumbnailURL: shared.ThumbnailURL(raw)})
}

package web

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"

	"github.com/JonMunkholm/dataviewer/internal/core"
	"github.com/JonMunkholm/dataviewer/internal/logging"
)

// TableResponse is the JSON form of a loaded table.
type TableResponse struct {
	FileName string     `json:"file_name"`
	LoadedAt time.Time  `json:"loaded_at"`
	Columns  []string   `json:"columns"`
	Kinds    []string   `json:"kinds"`
	RowCount int        `json:"row_count"`
	Rows     [][]string `json:"rows,omitempty"`
}

// SearchResponse is the JSON form of a search.
// Active is false for an empty query; Count 0 with Active true means nothing matched.
type SearchResponse struct {
	Column  string           `json:"column"`
	Query   string           `json:"query"`
	Active  bool             `json:"active"`
	Count   int              `json:"count"`
	Rows    []int            `json:"rows"`
	Records []RecordResponse `json:"records"`
	Status  string           `json:"status"`
}

// RecordResponse is one formatted match.
type RecordResponse struct {
	Index  int    `json:"index"`
	Number int    `json:"number"`
	Text   string `json:"text"`
}

func tableResponse(sess *core.Session, withRows bool) TableResponse {
	t := sess.Table()
	kinds := make([]string, len(t.Kinds))
	for i, k := range t.Kinds {
		kinds[i] = k.String()
	}
	resp := TableResponse{
		FileName: sess.FileName(),
		LoadedAt: sess.LoadedAt(),
		Columns:  t.Columns,
		Kinds:    kinds,
		RowCount: t.Len(),
	}
	if withRows {
		resp.Rows = textRows(t, nil)
	}
	return resp
}

// handleAPITable returns the held table.
func (s *Server) handleAPITable(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	if sess.State() == core.StateEmpty {
		err := &core.QueryError{Err: core.ErrNoTable}
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, tableResponse(sess, true))
}

// handleAPIUpload loads a multipart upload and returns the table shape.
func (s *Server) handleAPIUpload(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	if _, err := s.loadUpload(w, r, sess); err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, tableResponse(sess, false))
}

// handleAPISearch runs ?column=&q= against the held table.
func (s *Server) handleAPISearch(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	column := r.URL.Query().Get("column")
	query := r.URL.Query().Get("q")

	res, err := sess.Search(column, query)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	resp := SearchResponse{
		Column:  res.Column,
		Query:   res.Text,
		Active:  res.Active,
		Count:   res.Count,
		Rows:    res.Rows,
		Records: []RecordResponse{},
		Status:  core.Status(res),
	}
	if resp.Rows == nil {
		resp.Rows = []int{}
	}
	for _, rec := range core.FormatRecords(sess.Table(), res) {
		resp.Records = append(resp.Records, RecordResponse(rec))
	}

	logging.FromContext(r.Context()).Debug("api search", "column", column, "active", res.Active, "matches", res.Count)
	writeJSON(w, http.StatusOK, resp)
}

// handleAPIRecord returns one row, by table position, as formatted text.
func (s *Server) handleAPIRecord(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, r, errBadRecordRef, statusFor(errBadRecordRef))
		return
	}

	text, err := core.FormatRow(sess.Table(), idx)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(text))
}

// handleAPIClearSession drops the session and expires its cookie.
func (s *Server) handleAPIClearSession(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	sess.Clear()
	s.sessions.Delete(sess.ID)

	cookie, _ := s.cookies.Get(r, s.cfg.Session.CookieName)
	cookie.Options = &sessions.Options{Path: "/", MaxAge: -1}
	if err := cookie.Save(r, w); err != nil {
		respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	logging.FromContext(r.Context()).Info("session cleared")
	w.WriteHeader(http.StatusNoContent)
}

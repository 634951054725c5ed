package web

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/JonMunkholm/dataviewer/internal/core"
	"github.com/JonMunkholm/dataviewer/internal/logging"
	"github.com/JonMunkholm/dataviewer/internal/web/templates"
)

// multipartOverhead is allowed on top of the file size limit for the
// multipart boundaries and headers.
const multipartOverhead = 1 << 20

// handleIndex renders the page for the current session.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	v, err := buildView(sess, "", "")
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	v.Flash = s.popFlash(w, r)
	renderPage(w, r, v, http.StatusOK)
}

// handleSearchPage renders the page with the results of ?column=&q=.
func (s *Server) handleSearchPage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())
	column := r.URL.Query().Get("column")
	query := r.URL.Query().Get("q")

	v, err := buildView(sess, column, query)
	if err != nil {
		logging.FromContext(r.Context()).Warn("search failed", "column", column, "error", err)
		v.Error = alertFor(core.MapError(err))
		renderPage(w, r, v, statusFor(err))
		return
	}

	logging.FromContext(r.Context()).Debug("search",
		"column", column,
		"active", v.Searched,
		"matches", len(v.ResultRows),
	)
	renderPage(w, r, v, http.StatusOK)
}

// handleUploadPage loads the posted file and redirects back to the page.
// On failure the previous table stays on display with the error above it.
func (s *Server) handleUploadPage(w http.ResponseWriter, r *http.Request) {
	sess := sessionFrom(r.Context())

	name, err := s.loadUpload(w, r, sess)
	if err != nil {
		v, _ := buildView(sess, "", "")
		v.Error = alertFor(core.MapError(err))
		renderPage(w, r, v, statusFor(err))
		return
	}

	s.addFlash(w, r, "File uploaded: "+name)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// loadUpload reads the multipart "file" field into the session.
// Returns the uploaded file name.
func (s *Server) loadUpload(w http.ResponseWriter, r *http.Request, sess *core.Session) (string, error) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize+multipartOverhead)

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return "", &core.LoadError{FileName: "upload", Err: fmt.Errorf("%w: exceeds %d bytes", core.ErrFileTooLarge, maxSize)}
		}
		return "", fmt.Errorf("%w: %v", errNoFile, err)
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	file, header, err := r.FormFile("file")
	if err != nil {
		return "", errNoFile
	}
	defer file.Close()

	// Unsupported suffixes never reach the loader.
	if !core.IsSupportedFile(header.Filename) {
		return "", &core.LoadError{FileName: header.Filename, Err: core.ErrUnsupportedFormat}
	}

	logger := logging.WithFields(r.Context(), "file", header.Filename, "size", header.Size)
	start := time.Now()

	if err := s.limiter.Load(r.Context(), sess, file, header.Filename, maxSize); err != nil {
		return "", err
	}

	logger.Info("upload loaded",
		"rows", sess.Table().Len(),
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return header.Filename, nil
}

// handleHealth reports liveness plus session and upload counters.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.limiter.Status()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":          "ok",
		"sessions":        s.sessions.Len(),
		"uploads_active":  status.Active,
		"uploads_waiting": status.Waiting,
		"uploads_max":     status.MaxConcurrent,
	})
}

// buildView assembles the page for a session and an optional search.
// The column defaults to the first one; an empty query shows no results.
// A *core.QueryError is returned alongside a view that still shows the table.
func buildView(sess *core.Session, column, query string) (templates.PageView, error) {
	t := sess.Table()
	if t == nil {
		return templates.PageView{}, nil
	}

	v := templates.PageView{
		FileName: sess.FileName(),
		Columns:  t.Columns,
		Rows:     textRows(t, nil),
		Column:   column,
		Query:    query,
	}
	if v.Column == "" {
		v.Column = t.Columns[0]
	}

	res, err := core.Search(t, v.Column, query)
	if err != nil {
		return v, err
	}

	v.Status = statusAlert(res)
	if !res.Active {
		return v, nil
	}

	v.Searched = true
	v.ResultRows = textRows(t, res.Rows)
	for _, rec := range core.FormatRecords(t, res) {
		v.Records = append(v.Records, templates.RecordView{Number: rec.Number, Text: rec.Text})
	}
	return v, nil
}

func statusAlert(res core.SearchResult) *templates.Alert {
	kind := templates.AlertSuccess
	switch {
	case !res.Active:
		kind = templates.AlertInfo
	case res.Count == 0:
		kind = templates.AlertWarning
	}
	return &templates.Alert{Kind: kind, Message: core.Status(res)}
}

// textRows renders rows of t as text. A nil index list means every row.
func textRows(t *core.Table, idx []int) [][]string {
	if idx == nil {
		idx = make([]int, t.Len())
		for i := range idx {
			idx[i] = i
		}
	}
	out := make([][]string, 0, len(idx))
	for _, i := range idx {
		row := t.Row(i)
		cells := make([]string, len(row))
		for j, v := range row {
			cells[j] = v.String()
		}
		out = append(out, cells)
	}
	return out
}

// renderPage writes the full HTML page.
func renderPage(w http.ResponseWriter, r *http.Request, v templates.PageView, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.Page(v).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// addFlash queues a one-shot confirmation in the session cookie.
func (s *Server) addFlash(w http.ResponseWriter, r *http.Request, msg string) {
	// A decode error still yields a usable, empty cookie session.
	cookie, _ := s.cookies.Get(r, s.cfg.Session.CookieName)
	cookie.AddFlash(msg)
	if err := cookie.Save(r, w); err != nil {
		logging.FromContext(r.Context()).Warn("save flash", "error", err)
	}
}

// popFlash returns and clears the queued confirmation, if any.
func (s *Server) popFlash(w http.ResponseWriter, r *http.Request) *templates.Alert {
	cookie, _ := s.cookies.Get(r, s.cfg.Session.CookieName)
	flashes := cookie.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := cookie.Save(r, w); err != nil {
		logging.FromContext(r.Context()).Warn("clear flash", "error", err)
	}
	msg, _ := flashes[len(flashes)-1].(string)
	return &templates.Alert{Kind: templates.AlertSuccess, Message: msg}
}

// Package inspect serves a block session over HTTP for debugging.
//
// The server exposes the layout as JSON, text, DOT and SVG, and accepts a
// small set of mutations (fold, select, edit, key presses) so that the
// engine can be driven from curl or a browser:
//
//	GET  /healthz
//	GET  /layout                  JSON snapshot
//	GET  /text?numbers=1          document rows
//	GET  /lines                   line start handles
//	GET  /dot?detailed=1          Graphviz source
//	GET  /scene.svg               laid-out scene
//	GET  /blocks/{handle}         one block
//	POST /blocks/{handle}/fold    also /unfold, /select, /deselect, /caret?pos=N
//	PUT  /blocks/{handle}/text    replace the text of a leaf
//	POST /keys/{key}              e.g. /keys/enter
//	POST /insert                  insert the request body at the caret
//
// Handlers serialize on one mutex; a session is not safe for concurrent use.
package inspect

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/blocktree/pkg/arena"
	"github.com/matzehuels/blocktree/pkg/block"
	bterr "github.com/matzehuels/blocktree/pkg/errors"
	"github.com/matzehuels/blocktree/pkg/render"
)

// maxBody bounds request bodies of text mutations.
const maxBody = 1 << 20

// Server serves one session.
type Server struct {
	mu     sync.Mutex
	s      *block.Session
	logger *log.Logger
	router chi.Router
}

// New creates a server for s. A nil logger discards request logs.
func New(s *block.Session, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	srv := &Server{s: s, logger: logger}
	srv.router = srv.routes()
	return srv
}

func (srv *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(srv.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, "ok\n")
	})
	r.Get("/layout", srv.handleLayout)
	r.Get("/text", srv.handleText)
	r.Get("/lines", srv.handleLines)
	r.Get("/dot", srv.handleDOT)
	r.Get("/scene.svg", srv.handleScene)

	r.Route("/blocks/{handle}", func(r chi.Router) {
		r.Get("/", srv.handleBlock)
		r.Post("/fold", srv.mutate(func(s *block.Session, h arena.Handle, _ *http.Request) error {
			return s.SetFolded(h, true)
		}))
		r.Post("/unfold", srv.mutate(func(s *block.Session, h arena.Handle, _ *http.Request) error {
			return s.SetFolded(h, false)
		}))
		r.Post("/select", srv.mutate(func(s *block.Session, h arena.Handle, _ *http.Request) error {
			return s.SetSelected(h, true)
		}))
		r.Post("/deselect", srv.mutate(func(s *block.Session, h arena.Handle, _ *http.Request) error {
			return s.SetSelected(h, false)
		}))
		r.Post("/caret", srv.mutate(func(s *block.Session, h arena.Handle, req *http.Request) error {
			pos, err := strconv.Atoi(req.URL.Query().Get("pos"))
			if err != nil {
				return bterr.New(bterr.ErrCodeInvalidInput, "invalid caret position %q", req.URL.Query().Get("pos"))
			}
			return s.SetCursor(h, pos)
		}))
		r.Put("/text", srv.mutate(func(s *block.Session, h arena.Handle, req *http.Request) error {
			body, err := io.ReadAll(io.LimitReader(req.Body, maxBody))
			if err != nil {
				return bterr.Wrap(bterr.ErrCodeInvalidInput, err, "read body")
			}
			return s.SetText(h, string(body))
		}))
	})

	r.Post("/keys/{key}", srv.handleKey)
	r.Post("/insert", srv.handleInsert)
	return r
}

// ServeHTTP implements http.Handler.
func (srv *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	srv.router.ServeHTTP(w, r)
}

func (srv *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		srv.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (srv *Server) handleLayout(w http.ResponseWriter, _ *http.Request) {
	srv.mu.Lock()
	sn := render.Take(srv.s)
	srv.mu.Unlock()
	writeJSON(w, http.StatusOK, sn)
}

func (srv *Server) handleText(w http.ResponseWriter, r *http.Request) {
	opts := render.TextOptions{Plain: true, Caret: true, LineNumbers: flag(r, "numbers")}
	srv.mu.Lock()
	text := render.Text(srv.s, opts)
	srv.mu.Unlock()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, text)
}

// lineInfo is one entry of /lines.
type lineInfo struct {
	Line  int    `json:"line"`
	Start string `json:"start"`
}

func (srv *Server) handleLines(w http.ResponseWriter, _ *http.Request) {
	srv.mu.Lock()
	lines := make([]lineInfo, 0, srv.s.LastLine()+1)
	for l := 0; l <= srv.s.LastLine(); l++ {
		if h, ok := srv.s.LineStart(l); ok {
			lines = append(lines, lineInfo{Line: l, Start: h.String()})
		}
	}
	srv.mu.Unlock()
	writeJSON(w, http.StatusOK, lines)
}

func (srv *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	dot := render.ToDOT(srv.s, render.DOTOptions{Detailed: flag(r, "detailed")})
	srv.mu.Unlock()
	w.Header().Set("Content-Type", "text/vnd.graphviz; charset=utf-8")
	io.WriteString(w, dot)
}

func (srv *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	srv.mu.Lock()
	svg := render.SceneSVG(srv.s, render.SceneOptions{Frames: flag(r, "frames"), Padding: 8})
	srv.mu.Unlock()
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Write(svg)
}

// blockView is the response of the block endpoints.
type blockView struct {
	render.BlockInfo
	Children []string `json:"children"`
	HasFold  bool     `json:"has_fold_control"`
}

func (srv *Server) handleBlock(w http.ResponseWriter, r *http.Request) {
	h, err := arena.ParseHandle(chi.URLParam(r, "handle"))
	if err != nil {
		writeError(w, bterr.Wrap(bterr.ErrCodeInvalidHandle, err, "invalid handle"))
		return
	}
	srv.mu.Lock()
	view, err := srv.view(h)
	srv.mu.Unlock()
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// mutate wraps an operation on the block named by the route.
func (srv *Server) mutate(op func(s *block.Session, h arena.Handle, r *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h, err := arena.ParseHandle(chi.URLParam(r, "handle"))
		if err != nil {
			writeError(w, bterr.Wrap(bterr.ErrCodeInvalidHandle, err, "invalid handle"))
			return
		}
		srv.mu.Lock()
		defer srv.mu.Unlock()
		if err := op(srv.s, h, r); err != nil {
			writeError(w, err)
			return
		}
		view, err := srv.view(h)
		if err != nil {
			// the operation may legitimately retire the block
			writeJSON(w, http.StatusOK, render.Take(srv.s))
			return
		}
		writeJSON(w, http.StatusOK, view)
	}
}

func (srv *Server) handleKey(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "key")
	k, ok := block.ParseKey(name)
	if !ok {
		writeError(w, bterr.New(bterr.ErrCodeInvalidInput, "unknown key %q", name))
		return
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if err := srv.s.HandleKey(k); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, render.Take(srv.s))
}

func (srv *Server) handleInsert(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody))
	if err != nil {
		writeError(w, bterr.Wrap(bterr.ErrCodeInvalidInput, err, "read body"))
		return
	}
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if err := srv.s.InsertText(string(body)); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, render.Take(srv.s))
}

func (srv *Server) view(h arena.Handle) (blockView, error) {
	b, err := srv.s.Block(h)
	if err != nil {
		return blockView{}, err
	}
	v := blockView{BlockInfo: render.Info(b), Children: []string{}, HasFold: srv.s.HasFoldControl(h)}
	for _, c := range b.Children() {
		v.Children = append(v.Children, c.String())
	}
	return v, nil
}

func flag(r *http.Request, name string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return v
}

// errorBody is the JSON shape of error responses.
type errorBody struct {
	Error string     `json:"error"`
	Code  bterr.Code `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, err error) {
	code := bterr.GetCode(err)
	if code == "" {
		code = bterr.ErrCodeInternal
	}
	writeJSON(w, code.HTTPStatus(), errorBody{Error: bterr.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

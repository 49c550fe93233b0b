package handler

import (
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Protocol-Lattice/gqlnormalize/printer"
	"github.com/Protocol-Lattice/gqlnormalize/registry"
)

// maxUploadMemory is the multipart memory budget before parts spill to disk.
const maxUploadMemory = 32 << 20

// NormalizeRequest is the body of a normalization request.
type NormalizeRequest struct {
	Query  string `json:"query"`
	Minify bool   `json:"minify"`
}

// NormalizeResponse carries the canonical query and its id.
type NormalizeResponse struct {
	ID    string `json:"id"`
	Query string `json:"query"`
}

// ErrorResponse is written for every failed request.
type ErrorResponse struct {
	Errors []ErrorMessage `json:"errors"`
}

// ErrorMessage is one entry of ErrorResponse.
type ErrorMessage struct {
	Message string `json:"message"`
}

// Handler serves normalization over HTTP and websocket.
type Handler struct {
	registry *registry.Registry
	log      *zap.Logger
	upgrader websocket.Upgrader
	mux      *http.ServeMux
}

// New creates a Handler storing queries in reg, or in the global registry
// when reg is nil.
func New(reg *registry.Registry, logger *zap.Logger) *Handler {
	if reg == nil {
		reg = registry.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		registry: reg,
		log:      logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		mux: http.NewServeMux(),
	}
	h.mux.HandleFunc("POST /normalize", h.Normalize)
	h.mux.HandleFunc("GET /queries/{id}", h.Query)
	h.mux.HandleFunc("GET /stream", h.Stream)
	h.mux.HandleFunc("POST /upload", h.Upload)
	return h
}

// ServeHTTP dispatches to the endpoints.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// normalize registers the query and shapes the response.
func (h *Handler) normalize(req NormalizeRequest) (*NormalizeResponse, error) {
	entry, err := h.registry.Register(req.Query)
	if err != nil {
		return nil, err
	}
	resp := &NormalizeResponse{ID: entry.ID, Query: entry.Query}
	if req.Minify {
		if resp.Query, err = printer.Minify(entry.Query); err != nil {
			return nil, errors.Wrap(err, "minify query")
		}
	}
	return resp, nil
}

// Normalize handles POST /normalize.
func (h *Handler) Normalize(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, errors.Wrap(err, "unable to read body"))
		return
	}
	defer r.Body.Close()

	var req NormalizeRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.Wrap(err, "invalid JSON"))
		return
	}

	resp, err := h.normalize(req)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}
	h.log.Debug("normalized query", zap.String("id", resp.ID))
	h.writeJSON(w, http.StatusOK, resp)
}

// Query handles GET /queries/{id}, returning a registered canonical query.
func (h *Handler) Query(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	entry, ok := h.registry.Lookup(id)
	if !ok {
		h.writeError(w, http.StatusNotFound, errors.Errorf("query %s not found", id))
		return
	}
	h.writeJSON(w, http.StatusOK, NormalizeResponse{ID: entry.ID, Query: entry.Query})
}

// Stream handles normalization over a websocket. Every text message is a
// NormalizeRequest, every reply a NormalizeResponse or an ErrorResponse.
func (h *Handler) Stream(w http.ResponseWriter, r *http.Request) {
	// Upgrade HTTP to WebSocket; the upgrader writes the error response itself
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	for {
		msgType, msg, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Debug("websocket read failed", zap.Error(err))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}

		var reply interface{}
		var req NormalizeRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			reply = errorResponse(errors.Wrap(err, "invalid JSON"))
		} else if resp, err := h.normalize(req); err != nil {
			reply = errorResponse(err)
		} else {
			reply = resp
		}

		if err := conn.WriteJSON(reply); err != nil {
			h.log.Warn("websocket write failed", zap.Error(err))
			return
		}
	}
}

// UploadResult is the outcome for one uploaded file.
type UploadResult struct {
	ID    string `json:"id,omitempty"`
	Query string `json:"query,omitempty"`
	Error string `json:"error,omitempty"`
}

// Upload handles multipart uploads of query files. Each file part is
// normalized on its own goroutine; the response maps file names to results.
// File names must be unique within a request.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		h.writeError(w, http.StatusBadRequest, errors.New("expected multipart/form-data"))
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		h.writeError(w, http.StatusBadRequest, errors.Wrap(err, "failed to parse multipart form"))
		return
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			h.log.Warn("failed to remove upload files", zap.Error(err))
		}
	}()
	minify := r.FormValue("minify") == "true"

	// results are keyed by file name, so names must be unique
	var files []*multipart.FileHeader
	seen := make(map[string]bool)
	for _, headers := range r.MultipartForm.File {
		for _, header := range headers {
			if seen[header.Filename] {
				h.writeError(w, http.StatusBadRequest, errors.Errorf("duplicate file name %q", header.Filename))
				return
			}
			seen[header.Filename] = true
			files = append(files, header)
		}
	}
	if len(files) == 0 {
		h.writeError(w, http.StatusBadRequest, errors.New("no files uploaded"))
		return
	}

	var wg sync.WaitGroup
	var resultsMu sync.Mutex
	results := make(map[string]UploadResult, len(files))

	for _, header := range files {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var result UploadResult
			resp, err := h.normalizeFile(header, minify)
			if err != nil {
				h.log.Info("upload rejected", zap.String("file", header.Filename), zap.Error(err))
				result.Error = err.Error()
			} else {
				result.ID, result.Query = resp.ID, resp.Query
			}
			resultsMu.Lock()
			results[header.Filename] = result
			resultsMu.Unlock()
		}()
	}
	wg.Wait()

	h.writeJSON(w, http.StatusOK, results)
}

func (h *Handler) normalizeFile(header *multipart.FileHeader, minify bool) (*NormalizeResponse, error) {
	file, err := header.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open %s", header.Filename)
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read %s", header.Filename)
	}
	return h.normalize(NormalizeRequest{Query: string(data), Minify: minify})
}

func errorResponse(err error) ErrorResponse {
	return ErrorResponse{Errors: []ErrorMessage{{Message: err.Error()}}}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, errorResponse(err))
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("failed to write response", zap.Error(err))
	}
}

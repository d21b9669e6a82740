package web

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/custodia-labs/meshdrop/internal/core/domain"
	"github.com/custodia-labs/meshdrop/internal/logger"
	"github.com/custodia-labs/meshdrop/internal/metrics"
)

// multipartMemory is how much of an upload is buffered before spilling to disk.
const multipartMemory = 32 << 20

// errorResponse is the JSON body of every API error.
type errorResponse struct {
	Error string `json:"error"`

	// Reset tells the page to clear its picker input.
	Reset bool `json:"reset,omitempty"`
}

// selectionResponse answers POST /api/selection.
type selectionResponse struct {
	Generation uint64                   `json:"generation"`
	Selection  *domain.SelectionSummary `json:"selection,omitempty"`
	Stale      bool                     `json:"stale,omitempty"`
	Model      *ModelView               `json:"model,omitempty"`
}

// configResponse answers GET /api/config.
type configResponse struct {
	DecoderPath string               `json:"decoder_path"`
	Scale       domain.ScaleSettings `json:"scale"`
}

// rescaleRequest is the body of POST /api/rescale.
type rescaleRequest struct {
	Factor float64 `json:"factor"`
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	serveStatic(w, "static/index.html", "text/html; charset=utf-8")
}

func (s *Server) handleApp(w http.ResponseWriter, _ *http.Request) {
	serveStatic(w, "static/app.js", "text/javascript; charset=utf-8")
}

func (s *Server) handleConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, configResponse{
		DecoderPath: s.cfg.Decoder.Path,
		Scale:       s.ports.Viewer.ScaleBounds(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.ports.Viewer.Status())
}

// handleSelection accepts a folder upload. Each file part named "files"
// pairs with the "path" value at the same index, which carries the
// picker's relative path. Without paths the upload file names are used.
func (s *Server) handleSelection(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUpload)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	defer r.MultipartForm.RemoveAll() //nolint:errcheck

	files, err := readUpload(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	outcomes, err := s.ports.Viewer.Select(s.ctx, files)
	if err != nil {
		writeError(w, statusFor(err), err)
		return
	}

	status := s.ports.Viewer.Status()
	if r.URL.Query().Get("wait") != "true" {
		writeJSON(w, http.StatusAccepted, selectionResponse{
			Generation: status.Generation,
			Selection:  status.Selection,
		})
		return
	}

	select {
	case outcome := <-outcomes:
		resp := selectionResponse{Generation: outcome.Generation, Stale: outcome.Stale}
		if outcome.Err != nil && !outcome.Stale {
			writeError(w, http.StatusUnprocessableEntity, outcome.Err)
			return
		}
		if outcome.Model != nil {
			view := newModelView(*outcome.Model)
			resp.Model = &view
		}
		writeJSON(w, http.StatusOK, resp)
	case <-r.Context().Done():
	}
}

func readUpload(r *http.Request) ([]domain.SelectedFile, error) {
	headers := r.MultipartForm.File["files"]
	paths := r.MultipartForm.Value["path"]
	if len(paths) != 0 && len(paths) != len(headers) {
		return nil, errors.New("path and files fields must pair up")
	}

	files := make([]domain.SelectedFile, 0, len(headers))
	for i, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		// The form is removed when the request ends; loads outlive it.
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}

		rel := fh.Filename
		if len(paths) > 0 && paths[i] != "" {
			rel = paths[i]
		}
		files = append(files, domain.SelectedFile{
			RelativePath: rel,
			Handle:       &domain.BytesFile{FileName: path.Base(fh.Filename), Data: data},
		})
	}
	return files, nil
}

func (s *Server) handleRescale(w http.ResponseWriter, r *http.Request) {
	var req rescaleRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxMessageSize)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if err := s.ports.Viewer.Rescale(req.Factor); err != nil {
		writeError(w, statusFor(err), err)
		return
	}
	writeJSON(w, http.StatusOK, s.ports.Viewer.Status())
}

// handleObject serves the file behind an object reference.
func (s *Server) handleObject(w http.ResponseWriter, r *http.Request) {
	ref := "/objects/" + r.PathValue("token")
	handle, ok := s.ports.Objects.Lookup(ref)
	if !ok {
		http.NotFound(w, r)
		return
	}

	rc, err := handle.Open()
	if err != nil {
		logger.Warn("web: open %s: %v", handle.Name(), err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", contentType(handle.Name()))
	w.Header().Set("Cache-Control", "no-store")

	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, handle.Name(), zeroTime, rs)
		metrics.RecordObjectServed(handle.Size())
		return
	}
	n, err := io.Copy(w, rc)
	metrics.RecordObjectServed(n)
	if err != nil {
		logger.Debug("web: serve %s: %v", handle.Name(), err)
	}
}

func (s *Server) decoderHandler() http.Handler {
	if s.cfg.Decoder.Root == "" {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "decoder root not configured", http.StatusNotFound)
		})
	}
	return http.StripPrefix("/decoders/", http.FileServer(http.Dir(s.cfg.Decoder.Root)))
}

// contentType maps model side-file extensions to media types.
func contentType(name string) string {
	ext := strings.ToLower(path.Ext(name))
	switch ext {
	case ".gltf":
		return "model/gltf+json"
	case ".glb":
		return "model/gltf-binary"
	case ".bin", "":
		return "application/octet-stream"
	case ".ktx2":
		return "image/ktx2"
	case ".wasm":
		return "application/wasm"
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return "application/octet-stream"
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidSelection):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug("web: encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{
		Error: err.Error(),
		Reset: errors.Is(err, domain.ErrInvalidSelection),
	})
}

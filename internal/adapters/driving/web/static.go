package web

import (
	"embed"
	"net/http"
	"time"
)

//go:embed static
var staticFS embed.FS

// zeroTime disables Last-Modified handling in http.ServeContent.
var zeroTime time.Time

func serveStatic(w http.ResponseWriter, name, contentType string) {
	data, err := staticFS.ReadFile(name)
	if err != nil {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

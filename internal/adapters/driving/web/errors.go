package web

import "errors"

// ErrMissingViewerService is returned when the viewer service is not provided.
var ErrMissingViewerService = errors.New("web: viewer service is required")

// ErrMissingObjectStore is returned when the object store is not provided.
var ErrMissingObjectStore = errors.New("web: object store is required")

// Package web serves the browser viewport: a static page running the
// render loop, a websocket feeding it scene changes, a small JSON API for
// selections and rescaling, and the object references assets resolve to.
package web

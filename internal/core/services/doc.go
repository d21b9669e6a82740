// Package services implements the driving port interfaces.
// Services contain the core logic (file collection, asset resolution,
// manifest ingestion, viewer state) and orchestrate calls to driven
// ports (adapters).
package services

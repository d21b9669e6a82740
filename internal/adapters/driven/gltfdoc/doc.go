// Package gltfdoc implements driven.ManifestParser with github.com/qmuntal/gltf.
//
// Every external URI the decoder needs goes through the driven.AssetSource
// handed to Parse, so buffers and images are read from the user's selection
// instead of the local filesystem.
package gltfdoc

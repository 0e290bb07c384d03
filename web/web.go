// Package web embeds the static front end of the site.
package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html styles.css main.js
var assets embed.FS

// Assets returns the embedded bundle rooted at its top directory.
func Assets() fs.FS {
	return assets
}

package web

import (
	"embed"
	"io/fs"
)

//go:embed index.html app.css
var content embed.FS

// Index returns the single-page client shell, embedded at build time.
func Index() []byte {
	b, err := content.ReadFile("index.html")
	if err != nil {
		// embedded file, cannot fail at runtime
		panic(err)
	}
	return b
}

// StaticFS exposes embedded static assets such as CSS.
func StaticFS() fs.FS {
	return content
}

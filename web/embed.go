// Package web embeds the page templates and static assets served by
// internal/web.
package web

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed static templates
var content embed.FS

func sub(dir string) fs.FS {
	f, err := fs.Sub(content, dir)
	if err != nil {
		// Only reachable if the embed directive above stops matching dir.
		panic(fmt.Sprintf("embedded %s: %v", dir, err))
	}
	return f
}

// StaticFS holds the stylesheet served under /static/.
func StaticFS() fs.FS { return sub("static") }

// TemplatesFS holds layout.html and one file per page.
func TemplatesFS() fs.FS { return sub("templates") }

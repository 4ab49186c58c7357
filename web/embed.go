// Package web bundles the HTML templates, static assets and SQL migrations
// into the binary.
package web

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html templates/partials/*.html
var Templates embed.FS

//go:embed migrations/*.sql
var Migrations embed.FS

//go:embed static
var static embed.FS

// Static is the static/ directory, rooted so files are served as /static/<name>.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Package assets embeds the GLSL stage files compiled by the renderer.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed shaders
var embedded embed.FS

// Shaders returns the stage files rooted at the shaders directory.
func Shaders() fs.FS {
	sub, err := fs.Sub(embedded, "shaders")
	if err != nil {
		panic(err)
	}
	return sub
}

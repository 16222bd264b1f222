package schema

import (
	"embed"
	"io/fs"
)

//go:embed defaults/*.yaml
var embeddedSchema embed.FS

// EmbeddedFS returns the bundled dashboard schema. Pass it to LoadFS to use
// the default layout.
func EmbeddedFS() fs.FS {
	sub, err := fs.Sub(embeddedSchema, "defaults")
	if err != nil {
		// The embed directive guarantees the subpath exists.
		panic(err)
	}
	return sub
}

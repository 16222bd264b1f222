package schema

import (
	"path/filepath"
	"strings"
)

// Source records where descriptors were declared so issues can name the file,
// and for OpenAPI documents the component, at fault.
type Source interface {
	Kind() SourceKind
	// Location is the file or fs path, followed by "#pointer" when the source
	// narrows to a node inside the file.
	Location() string
}

type SourceKind string

const (
	SourceKindFile    SourceKind = "file"
	SourceKindFS      SourceKind = "fs"
	SourceKindOpenAPI SourceKind = "openapi"
)

type location struct {
	kind    SourceKind
	path    string
	pointer string
}

func (l location) Kind() SourceKind {
	return l.kind
}

func (l location) Location() string {
	if l.pointer == "" {
		return l.path
	}
	return l.path + "#" + l.pointer
}

func SourceFromFile(path string) Source {
	return location{kind: SourceKindFile, path: filepath.Clean(path)}
}

// SourceFromFS names a file inside an fs.FS; paths are slash separated.
func SourceFromFS(name string) Source {
	return location{kind: SourceKindFS, path: name}
}

// SourceFromOpenAPI names an OpenAPI document, optionally narrowed to the JSON
// pointer of one node (for example "/components/schemas/FloodLayer").
func SourceFromOpenAPI(path string, pointer ...string) Source {
	src := location{kind: SourceKindOpenAPI, path: path}
	if len(pointer) > 0 {
		src.pointer = "/" + strings.TrimLeft(pointer[0], "#/")
	}
	return src
}

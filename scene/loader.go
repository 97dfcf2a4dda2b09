package scene

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
)

// LoadModel picks a loader by extension; "builtin:<name>" yields a primitive.
func LoadModel(path string, log *slog.Logger) ([]*Mesh, error) {
	if strings.HasPrefix(path, BuiltinPrefix) {
		m, err := CreateBuiltin(path)
		if err != nil {
			return nil, err
		}
		return []*Mesh{m}, nil
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return LoadOBJ(path, log)
	case ".gltf", ".glb":
		return LoadGLTF(path, log)
	default:
		return nil, fmt.Errorf("load %q: unsupported model format %q", path, ext)
	}
}

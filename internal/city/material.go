package city

import (
	"path"
	"strings"

	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/pkg/encoding"
)

// NoTexture is written for missing texture references.
const NoTexture = "NONE"

// TexName returns the short texture name of a reference: the last path
// segment without extension, or NoTexture for an empty reference.
func TexName(ref string) string {
	if ref == "" {
		return NoTexture
	}
	base := encoding.BaseName(ref)
	return strings.TrimSuffix(base, path.Ext(base))
}

// TexNames returns the short names of refs joined by commas.
func TexNames(refs ...string) string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = TexName(r)
	}
	return strings.Join(names, ",")
}

// MeshName returns the object name of a mesh asset path: its file name
// up to the first dot.
func MeshName(assetPath string) string {
	return encoding.Stem(assetPath)
}

// MaterialName returns the texture name of scene material id, or
// NoTexture when id is NoMaterial or unknown.
func MaterialName(s *scene.Scene, id int) string {
	tex, ok := s.MaterialTexture(id)
	if !ok {
		return NoTexture
	}
	return TexName(tex)
}

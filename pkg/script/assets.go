package script

import "strings"

const (
	backgroundDir = "bg"
	spriteDir     = "ch"
)

var imageExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}

// BackgroundPath maps a background key to an asset path relative to the
// assets directory. A key that already looks like a path (contains a
// separator or a known image extension) is used verbatim; everything else
// becomes bg/<key>.png.
func BackgroundPath(key string) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	key = strings.ReplaceAll(key, "\\", "/")
	if strings.Contains(key, "/") || hasImageExtension(key) {
		return key
	}
	return backgroundDir + "/" + key + ".png"
}

// SpritePath maps a character name and expression to ch/<name>/<expr>.png.
func SpritePath(name, expression string) string {
	if expression == "" {
		expression = "normal"
	}
	return spriteDir + "/" + name + "/" + expression + ".png"
}

func hasImageExtension(path string) bool {
	lower := strings.ToLower(path)
	for _, ext := range imageExtensions {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

package constants

import "strings"

// UploadsURLPrefix is the public path prefix under which stored documents are served.
const UploadsURLPrefix = "/static/uploads/"

// AllowedExtensions holds the document extensions accepted for upload.
var AllowedExtensions = map[string]struct{}{
	"pdf": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

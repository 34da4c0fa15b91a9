package staging

import (
	"path/filepath"
	"regexp"
	"strings"
)

// FallbackStem replaces a file stem that has no usable characters left.
const FallbackStem = "uploaded_document"

var (
	unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)
	extChars    = regexp.MustCompile(`[^A-Za-z0-9.]`)
)

// SafeFilename reduces a client supplied name to a plain ASCII base name with no
// path components. The extension is kept even when the stem sanitizes away, in
// which case the stem becomes FallbackStem. It returns "" when nothing usable remains.
func SafeFilename(name string) string {
	base := baseName(name)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	stem = strings.Join(strings.Fields(stem), "_")
	stem = unsafeChars.ReplaceAllString(stem, "")
	stem = strings.Trim(stem, "._")

	ext := Suffix(name)
	if stem == "" {
		if ext == "" {
			return ""
		}
		return FallbackStem + ext
	}
	return stem + ext
}

// Suffix returns the extension of the client supplied name including the dot,
// reduced to ASCII letters and digits. Case is preserved so extension-based MIME
// detection still sees it.
func Suffix(name string) string {
	ext := extChars.ReplaceAllString(filepath.Ext(baseName(name)), "")
	if ext == "." {
		return ""
	}
	return ext
}

func baseName(name string) string {
	return filepath.Base(strings.ReplaceAll(name, "\\", "/"))
}

package fileutils

import (
	"regexp"
	"strings"
)

var (
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	whitespaceRun        = regexp.MustCompile(`\s+`)
)

// maxFilenameLength keeps names well under the common 255 byte limit so an
// extension can still be appended.
const maxFilenameLength = 200

// SanitizeFilename removes characters that aren't safe in a filename on any
// common filesystem, collapses whitespace and trims trailing dots. The result
// may be empty.
func SanitizeFilename(name string) string {
	name = strings.NewReplacer("“", `"`, "”", `"`, "‘", "'", "’", "'").Replace(name)
	name = invalidFilenameChars.ReplaceAllString(name, "")
	name = whitespaceRun.ReplaceAllString(name, " ")

	// Windows doesn't like trailing dots.
	name = strings.Trim(name, " .")

	if len(name) > maxFilenameLength {
		name = strings.Trim(truncateUTF8(name, maxFilenameLength), " .")
	}

	return name
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

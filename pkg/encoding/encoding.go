// Package encoding provides text encoding utilities for the km2B container
// and for asset path handling.
package encoding

import (
	"fmt"
	"path"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// UTF8ToWindows1252 converts a UTF-8 string to Windows-1252 bytes.
// Plain ASCII passes through unchanged. Runes without a Windows-1252
// mapping are reported as an error.
func UTF8ToWindows1252(s string) ([]byte, error) {
	if isASCII(s) {
		return []byte(s), nil
	}
	result, _, err := transform.Bytes(charmap.Windows1252.NewEncoder(), []byte(s))
	if err != nil {
		return nil, fmt.Errorf("encoding %q: %w", s, err)
	}
	return result, nil
}

// Windows1252ToUTF8 converts Windows-1252 bytes to a UTF-8 string.
// Returns the original bytes as a string if conversion fails.
func Windows1252ToUTF8(data []byte) string {
	if isASCII(string(data)) {
		return string(data)
	}
	result, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(result)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// NormalizePath converts backslashes to forward slashes.
// Scene paths are authored on Windows and may use either separator.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// BaseName returns the last element of an asset path.
func BaseName(p string) string {
	return path.Base(NormalizePath(p))
}

// Stem returns the last element of an asset path without any extension.
// "city/meshes/lamp.pkg.json" yields "lamp".
func Stem(p string) string {
	base := BaseName(p)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		return base[:i]
	}
	return base
}

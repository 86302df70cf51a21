// Package util provides filename helpers shared by the editor front-ends.
package util

import (
	"errors"
	"strings"
)

// DefaultName is offered when prompting for a save name.
const DefaultName = "fretboard"

// File extensions written by the editor.
const (
	JSONExt = ".fbjson"
	SVGExt  = ".svg"
	MIDIExt = ".mid"
	GzipExt = ".gz"
)

// ErrEmptyFilename is returned for a blank name. Callers treat it as a
// cancelled save.
var ErrEmptyFilename = errors.New("empty filename")

// TrimQuotes removes leading and trailing double quotes from a string.
func TrimQuotes(s string) string {
	return strings.Trim(s, `"`)
}

// JSONFilename drops one trailing extension from name and appends .fbjson.
func JSONFilename(name string) (string, error) {
	return withExt(trimExt(name), JSONExt)
}

// SVGFilename removes the first '*' and the first ".svg" from name and
// appends .svg.
func SVGFilename(name string) (string, error) {
	name = strings.Replace(name, "*", "", 1)
	name = strings.Replace(name, SVGExt, "", 1)
	return withExt(name, SVGExt)
}

// MIDIFilename drops one trailing extension from name and appends .mid.
func MIDIFilename(name string) (string, error) {
	return withExt(trimExt(name), MIDIExt)
}

func trimExt(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[:i]
	}
	return name
}

func withExt(name, ext string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyFilename
	}
	return name + ext, nil
}

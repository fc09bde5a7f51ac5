// Package assets picks banner images and author profiles for posts.
//
// Selection is a pure function of the post title and an ordered candidate
// list: the same title always maps to the same entry, so a post keeps its
// image without anything being persisted.
package assets

import (
	"errors"
	"strings"
	"unicode/utf16"
)

// ErrNoCandidates is returned when a selection is made from an empty list.
var ErrNoCandidates = errors.New("assets: no candidates")

// DefaultAuthorName is the display name used when neither the entry nor the
// caller supplies one.
const DefaultAuthorName = "Author"

// Entry is one selectable asset. Name and Designation are only meaningful
// for author profiles.
type Entry struct {
	Path        string `yaml:"path"`
	Name        string `yaml:"name,omitempty"`
	Designation string `yaml:"designation,omitempty"`
}

// Profile is the author block rendered next to a post.
// ImagePath is empty when the catalog has no author images.
type Profile struct {
	ImagePath   string
	DisplayName string
	Designation string
}

// HasImage reports whether the profile carries an image.
func (p Profile) HasImage() bool {
	return p.ImagePath != ""
}

// isBlank reports whether r is trimmed from a seed: the ECMAScript white
// space and line terminator set. U+0085 is not part of it.
func isBlank(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ',
		'\u00A0', '\u1680', '\u2028', '\u2029', '\u202F', '\u205F', '\u3000', '\uFEFF':
		return true
	}
	return r >= '\u2000' && r <= '\u200A'
}

func trimSeed(seed string) string {
	return strings.TrimFunc(seed, isBlank)
}

// Hash returns the 32-bit polynomial hash (acc*31 + c) of the trimmed seed,
// computed over UTF-16 code units with unsigned wraparound.
func Hash(seed string) uint32 {
	var acc uint32
	for _, c := range utf16.Encode([]rune(trimSeed(seed))) {
		acc = acc<<5 - acc + uint32(c)
	}
	return acc
}

// Index maps seed onto [0, n). A blank seed always maps to 0.
func Index(seed string, n int) (int, error) {
	if n <= 0 {
		return 0, ErrNoCandidates
	}
	if trimSeed(seed) == "" {
		return 0, nil
	}
	return int(Hash(seed) % uint32(n)), nil
}

// Select returns the candidate assigned to seed.
func Select(seed string, candidates []Entry) (Entry, error) {
	i, err := Index(seed, len(candidates))
	if err != nil {
		return Entry{}, err
	}
	return candidates[i], nil
}

// SelectOrDefault returns override when it has any non-blank text, otherwise
// the path of the candidate assigned to seed.
func SelectOrDefault(seed string, candidates []Entry, override string) (string, error) {
	if trimSeed(override) != "" {
		return override, nil
	}
	e, err := Select(seed, candidates)
	if err != nil {
		return "", err
	}
	return e.Path, nil
}

// Paths builds an entry list from bare paths.
func Paths(paths ...string) []Entry {
	out := make([]Entry, len(paths))
	for i, p := range paths {
		out[i] = Entry{Path: p}
	}
	return out
}

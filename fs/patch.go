package fs

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrAnchorNotFound is returned when none of an insertion's anchors occur in the file.
var ErrAnchorNotFound = errors.New("patch anchor not found")

// Insertion places Text immediately after the first occurrence of Anchor.
// If Anchor is missing the Fallback insertion is tried instead.
type Insertion struct {
	Anchor   string
	Text     string
	Fallback *Insertion
}

// PatchRule describes an idempotent textual edit of a single file. Marker is
// the text whose presence means the rule has already been applied; it should
// be contained in one of the inserted texts.
type PatchRule struct {
	Path       string
	Marker     string
	Insertions []Insertion
}

// Apply returns content with every insertion applied, in order. It does not
// consult Marker.
func (r PatchRule) Apply(content string) (string, error) {
	for _, ins := range r.Insertions {
		next, err := ins.apply(content)
		if err != nil {
			return "", err
		}
		content = next
	}
	return content, nil
}

func (ins Insertion) apply(content string) (string, error) {
	var tried []string
	for cur := &ins; cur != nil; cur = cur.Fallback {
		if i := strings.Index(content, cur.Anchor); i >= 0 {
			at := i + len(cur.Anchor)
			return content[:at] + cur.Text + content[at:], nil
		}
		tried = append(tried, cur.Anchor)
	}
	return "", fmt.Errorf("%w: tried %q", ErrAnchorNotFound, tried)
}

// PatchFile applies rule to its file. It reports false without touching the
// file when the rule's marker is already present. The rewrite is atomic, so a
// crash mid-write never leaves a truncated file behind.
func (fs *FileSystem) PatchFile(rule PatchRule) (bool, error) {
	info, err := fs.Fs.Stat(rule.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, fmt.Errorf("%w: %s", ErrNotFound, rule.Path)
		}
		return false, fmt.Errorf("error checking %s: %w", rule.Path, err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("%w: %s is a directory", ErrPathConflict, rule.Path)
	}

	content, err := fs.ReadFile(rule.Path)
	if err != nil {
		return false, err
	}
	if rule.Marker != "" && strings.Contains(content, rule.Marker) {
		return false, nil
	}

	patched, err := rule.Apply(content)
	if err != nil {
		return false, fmt.Errorf("error patching %s: %w", rule.Path, err)
	}

	if err := fs.writeAtomic(rule.Path, []byte(patched), info.Mode().Perm()); err != nil {
		return false, err
	}
	return true, nil
}

// Package filename parses transport filenames and composes canonical ones.
//
// Transport grammar:  <marker>-<date>-<sequence>.<ext>
// Canonical grammar:  <prefix>[-<code>]-<type>-<date>-<sequence>.<ext>
//
// Downstream consumers split canonical names positionally, so the order of
// components and the separator are fixed.
package filename

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/edisort/internal/core/domain"
)

// Separator joins filename components.
const Separator = "-"

// Positions of the transport filename components.
const (
	markerIndex = iota
	dateIndex
	sequenceIndex
	minComponents
)

// Parse splits a transport filename into its tokens.
//
// It fails with domain.ErrNotApplicable, which callers treat as "no match",
// when the first component is not tr.Marker, when tr.Extension is set and
// the extension differs (case-insensitively), or when fewer than three
// non-empty components remain after the extension is removed. Components
// after the sequence are ignored.
func Parse(name string, tr domain.Transport) (domain.FilenameTokens, error) {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	if tr.Extension != "" && !strings.EqualFold(ext, tr.Extension) {
		return domain.FilenameTokens{}, fmt.Errorf("%w: %s: extension %q", domain.ErrNotApplicable, base, ext)
	}

	parts := strings.Split(stem, Separator)
	if len(parts) < minComponents {
		return domain.FilenameTokens{}, fmt.Errorf("%w: %s: expected %d components", domain.ErrNotApplicable, base, minComponents)
	}
	if parts[markerIndex] != tr.Marker {
		return domain.FilenameTokens{}, fmt.Errorf("%w: %s: marker %q", domain.ErrNotApplicable, base, parts[markerIndex])
	}
	if parts[dateIndex] == "" || parts[sequenceIndex] == "" {
		return domain.FilenameTokens{}, fmt.Errorf("%w: %s: empty date or sequence", domain.ErrNotApplicable, base)
	}

	return domain.FilenameTokens{
		Marker:    parts[markerIndex],
		Date:      parts[dateIndex],
		Sequence:  parts[sequenceIndex],
		Extension: ext,
	}, nil
}

// Compose builds the canonical filename. code is omitted when empty.
func Compose(prefix, code, messageType string, tokens domain.FilenameTokens) string {
	parts := make([]string, 0, 5)
	parts = append(parts, prefix)
	if code != "" {
		parts = append(parts, code)
	}
	parts = append(parts, messageType, tokens.Date, tokens.Sequence)
	return strings.Join(parts, Separator) + tokens.Extension
}

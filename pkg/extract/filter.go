// pkg/extract/filter.go
package extract

import (
	ignore "github.com/sabhiram/go-gitignore"
)

// patternFilter selects archive entries with gitignore-style patterns.
// A nil filter selects everything.
type patternFilter struct {
	include *ignore.GitIgnore // nil when every path is included
	exclude *ignore.GitIgnore
}

// newPatternFilter compiles include and exclude patterns. Exclude
// patterns may also come from a file. Returns nil when nothing filters.
func newPatternFilter(include, exclude []string, excludeFrom string) (*patternFilter, error) {
	f := &patternFilter{}
	if len(include) > 0 {
		f.include = ignore.CompileIgnoreLines(include...)
	}

	switch {
	case excludeFrom != "":
		m, err := ignore.CompileIgnoreFileAndLines(excludeFrom, exclude...)
		if err != nil {
			return nil, err
		}
		f.exclude = m
	case len(exclude) > 0:
		f.exclude = ignore.CompileIgnoreLines(exclude...)
	}

	if f.include == nil && f.exclude == nil {
		return nil, nil
	}
	return f, nil
}

// Selected reports whether a file at archive path p is extracted.
// Patterns matching a parent directory apply to everything below it.
func (f *patternFilter) Selected(p string) bool {
	if f == nil {
		return true
	}
	if f.include != nil && !f.include.MatchesPath(p) {
		return false
	}
	if f.exclude != nil && f.exclude.MatchesPath(p) {
		return false
	}
	return true
}

// SelectedDir reports whether an explicit directory entry is recreated.
// Directory-only patterns like "build/" need the trailing slash.
func (f *patternFilter) SelectedDir(p string) bool {
	if f == nil {
		return true
	}
	if f.exclude != nil && (f.exclude.MatchesPath(p+"/") || f.exclude.MatchesPath(p)) {
		return false
	}
	// Include patterns name files; directories come along with them.
	return f.include == nil
}

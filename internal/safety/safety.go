// Package safety classifies filesystem paths as protected from deletion.
package safety

import (
	"path/filepath"
	"strings"
)

// DefaultProtected lists path prefixes that must never be removed
var DefaultProtected = []string{
	"/bin",
	"/boot",
	"/dev",
	"/etc",
	"/lib",
	"/proc",
	"/sbin",
	"/sys",
	"/usr",
	"/var/db",
	"/System",
	"/Library",
	"/Applications",
	"/private/var/db",
}

// trash internals are shown but never deletable through us
var protectedNames = map[string]bool{
	".Trash":                    true,
	".Trashes":                  true,
	"$Recycle.Bin":              true,
	"System Volume Information": true,
	"lost+found":                true,
}

// Policy decides whether a path may be scanned-into for deletion or removed.
// It is pure once built: IsProtected never returns an error and touches the
// filesystem only to resolve symlinks to a canonical path.
type Policy struct {
	root     string // canonical root; anything outside it is protected
	prefixes []string
}

// NewPolicy builds a policy confining deletions to root. Extra prefixes are
// added on top of the defaults.
func NewPolicy(root string, extra []string) (*Policy, error) {
	canonical, err := canonicalize(root)
	if err != nil {
		return nil, err
	}

	prefixes := make([]string, 0, len(DefaultProtected)+len(extra))
	prefixes = append(prefixes, DefaultProtected...)
	for _, p := range extra {
		if p == "" {
			continue
		}
		// Prefixes compare against canonicalized candidates, so they must
		// be canonical themselves or symlinked components never match.
		c, err := canonicalize(p)
		if err != nil {
			c = filepath.Clean(p)
		}
		prefixes = append(prefixes, c)
	}

	return &Policy{root: canonical, prefixes: prefixes}, nil
}

// Root returns the canonical root the policy confines deletions to
func (p *Policy) Root() string {
	return p.root
}

// IsProtected reports whether path must not be removed. Protected paths are
// still navigable read-only; they are only excluded from the deletable set.
func (p *Policy) IsProtected(path string) bool {
	canonical, err := canonicalize(path)
	if err != nil {
		// Unresolvable paths fall back to a lexical check so the
		// predicate stays total.
		canonical = filepath.Clean(path)
		if !filepath.IsAbs(canonical) {
			return true
		}
	}

	if canonical == "/" || canonical == p.root {
		return true
	}

	// Never reach outside the configured root, even via symlinks.
	if !isWithin(p.root, canonical) {
		return true
	}

	for _, prefix := range p.prefixes {
		if canonical == prefix || isWithin(prefix, canonical) {
			return true
		}
	}

	for _, part := range strings.Split(canonical, string(filepath.Separator)) {
		if protectedNames[part] {
			return true
		}
	}

	return false
}

// canonicalize resolves symlinks where possible. A path whose tail does not
// exist resolves its deepest existing ancestor so a freshly deleted path still
// canonicalizes consistently.
func canonicalize(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}

	dir, base := filepath.Split(abs)
	dir = strings.TrimSuffix(dir, string(filepath.Separator))
	if dir == "" || dir == abs {
		return abs, nil
	}
	parent, perr := canonicalize(dir)
	if perr != nil {
		return abs, nil
	}
	return filepath.Join(parent, base), nil
}

// isWithin reports whether path is strictly under base
func isWithin(base, path string) bool {
	if base == "/" {
		return true
	}
	return strings.HasPrefix(path, base+string(filepath.Separator))
}

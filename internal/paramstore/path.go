// Package paramstore implements the dotted-namespace parameter store:
// a nested mapping whose keys are dotted paths anchored at a typed
// namespace root, with per-leaf dirty tracking and namespace-ordered
// flush.
package paramstore

import (
	"fmt"
	"strings"
)

// Namespace is one of the closed set of top-level path roots.
type Namespace string

const (
	NamespaceTask    Namespace = "task"
	NamespaceAgent   Namespace = "agent"
	NamespaceFolder  Namespace = "folder"
	NamespaceSystem  Namespace = "system"
	NamespaceSession Namespace = "session"
)

// FlushOrder is the fixed namespace order writers are invoked in so that
// cross-namespace consistency (agents referenced by tasks) is preserved.
var FlushOrder = []Namespace{
	NamespaceSystem, NamespaceFolder, NamespaceAgent, NamespaceTask, NamespaceSession,
}

func validNamespace(s string) bool {
	switch Namespace(s) {
	case NamespaceTask, NamespaceAgent, NamespaceFolder, NamespaceSystem, NamespaceSession:
		return true
	default:
		return false
	}
}

// Wildcard matches exactly one path segment.
const Wildcard = "*"

// Path is a parsed, non-empty dotted path anchored at a namespace.
type Path struct {
	Namespace Namespace
	Segments  []string // segments after the namespace, may be empty
}

// ParsePath parses a dotted path string. The first segment must name a
// known namespace; unknown namespaces fail with ErrUnknownNamespace.
func ParsePath(raw string) (Path, error) {
	if raw == "" {
		return Path{}, fmt.Errorf("paramstore: empty path")
	}
	parts := strings.Split(raw, ".")
	if !validNamespace(parts[0]) {
		return Path{}, fmt.Errorf("%w: %q", ErrUnknownNamespace, parts[0])
	}
	return Path{Namespace: Namespace(parts[0]), Segments: parts[1:]}, nil
}

// String renders the path back to its dotted form.
func (p Path) String() string {
	if len(p.Segments) == 0 {
		return string(p.Namespace)
	}
	return string(p.Namespace) + "." + strings.Join(p.Segments, ".")
}

// Ancestors returns every proper prefix of the path, from the immediate
// parent up to (and including) the bare namespace root, used to
// propagate dirty bits upward. The root path's ancestor list is empty.
func (p Path) Ancestors() []Path {
	var out []Path
	for i := len(p.Segments) - 1; i >= 0; i-- {
		out = append(out, Path{Namespace: p.Namespace, Segments: append([]string{}, p.Segments[:i]...)})
	}
	return out
}

// matchesSegment reports whether a pattern segment matches a concrete
// segment: an exact literal match, or the wildcard matching any single
// segment.
func matchesSegment(pattern, segment string) bool {
	return pattern == Wildcard || pattern == segment
}

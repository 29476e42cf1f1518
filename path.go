package tdms

import (
	"strings"

	"github.com/cespare/xxhash/v2"
)

// objectID is a dense integer identifier assigned to each distinct object
// path the registry has interned, starting at 0 and incrementing. Object ids
// are never reused and never reordered: this is what lets per-object state
// (§3/§4.4) live in plain slices instead of maps.
type objectID int

const rootID objectID = 0

// pathKind distinguishes the three shapes a canonical object path can take.
type pathKind int

const (
	pathRoot pathKind = iota
	pathGroup
	pathChannel
)

// parsedPath is the decomposed form of a canonical object path string.
type parsedPath struct {
	kind    pathKind
	group   string
	channel string
}

// pathRegistry parses and interns object path strings, assigning each
// distinct path a dense object id and maintaining the bidirectional lookup
// the rest of the engine needs. It is append-only for the life of the
// reader: once assigned, an id's path never changes.
//
// Lookup is accelerated with a 64-bit xxhash of the canonical path string,
// the same technique arloliu/mebo uses to key its time-series store by
// series identity. The hash only narrows the search to a bucket; a stored
// equality check against the canonical string is what actually decides
// identity, so a hash collision can only cost time, never correctness.
type pathRegistry struct {
	// buckets maps path hash -> candidate ids sharing that hash.
	buckets map[uint64][]objectID

	paths  []string     // objectID -> canonical path string
	parsed []parsedPath // objectID -> decomposed form
}

func newPathRegistry() *pathRegistry {
	r := &pathRegistry{
		buckets: make(map[uint64][]objectID),
	}
	// The root path is always id 0.
	r.paths = append(r.paths, "/")
	r.parsed = append(r.parsed, parsedPath{kind: pathRoot})
	r.buckets[xxhash.Sum64String("/")] = []objectID{rootID}
	return r
}

// idOf returns the id already assigned to path s, if any.
func (r *pathRegistry) idOf(s string) (objectID, bool) {
	h := xxhash.Sum64String(s)
	for _, id := range r.buckets[h] {
		if r.paths[id] == s {
			return id, true
		}
	}
	return 0, false
}

// pathOf returns the canonical path string for id.
func (r *pathRegistry) pathOf(id objectID) string {
	return r.paths[id]
}

// parsedOf returns the decomposed form for id.
func (r *pathRegistry) parsedOf(id objectID) parsedPath {
	return r.parsed[id]
}

// intern parses s if it hasn't been seen before, assigns it the next dense
// id, and returns that id. Interning a channel path implicitly interns its
// parent group path first, if absent.
func (r *pathRegistry) intern(s string) (objectID, error) {
	if id, ok := r.idOf(s); ok {
		return id, nil
	}

	parsed, err := parseObjectPath(s)
	if err != nil {
		return 0, err
	}

	if parsed.kind == pathChannel {
		groupPath := canonicalizeGroup(parsed.group)
		if _, err := r.intern(groupPath); err != nil {
			return 0, err
		}
	}

	id := objectID(len(r.paths))
	r.paths = append(r.paths, s)
	r.parsed = append(r.parsed, parsed)

	h := xxhash.Sum64String(s)
	r.buckets[h] = append(r.buckets[h], id)

	return id, nil
}

func (r *pathRegistry) len() int {
	return len(r.paths)
}

// canonicalizeGroup returns the canonical textual form of a group path.
func canonicalizeGroup(group string) string {
	return "/'" + escapeComponent(group) + "'"
}

// canonicalizeChannel returns the canonical textual form of a channel path.
func canonicalizeChannel(group, channel string) string {
	return "/'" + escapeComponent(group) + "'/'" + escapeComponent(channel) + "'"
}

func escapeComponent(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

// parseObjectPath parses a canonical path string of the form `/`,
// `/'Group'`, or `/'Group'/'Channel'`. An escaped quote inside a component is
// written as `''`. A path with more than two components is an error, as is
// any path that is not well-formed.
func parseObjectPath(s string) (parsedPath, error) {
	if len(s) == 0 || s[0] != '/' {
		return parsedPath{}, pathErrorf("object path %q does not start with '/'", s)
	}

	if len(s) == 1 {
		return parsedPath{kind: pathRoot}, nil
	}

	components := make([]string, 0, 2)
	i := 1

	for i < len(s) {
		if s[i] != '\'' {
			return parsedPath{}, pathErrorf("object path %q: expected quoted component", s)
		}
		i++

		var b strings.Builder
		closed := false
		for i < len(s) {
			if s[i] == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					b.WriteByte('\'')
					i += 2
					continue
				}
				i++
				closed = true
				break
			}
			b.WriteByte(s[i])
			i++
		}

		if !closed {
			return parsedPath{}, pathErrorf("object path %q: unterminated component", s)
		}

		components = append(components, b.String())
		if len(components) > 2 {
			return parsedPath{}, pathErrorf("object path %q: more than two components", s)
		}

		if i < len(s) {
			if s[i] != '/' {
				return parsedPath{}, pathErrorf("object path %q: expected '/' between components", s)
			}
			i++
		}
	}

	switch len(components) {
	case 1:
		return parsedPath{kind: pathGroup, group: components[0]}, nil
	case 2:
		return parsedPath{kind: pathChannel, group: components[0], channel: components[1]}, nil
	default:
		return parsedPath{}, pathErrorf("object path %q: unexpected number of components", s)
	}
}

// Package browse implements the external file-browser/permission
// collaborator spec.md §6 treats as opaque: directory listing, extended
// file info, and a permission policy the session dispatcher consults
// before OPEN_FILE/FILE_LIST_REQUEST/FILE_INFO_REQUEST proceed. It backs
// the session.Browser interface.
package browse

import "strings"

// PermissionPolicy decides whether a directory or entry is visible to
// an api key. The default implementation restores the parent-directory
// walk from original_source/Session.cc's checkPermissionForDirectory:
// trim the path, look it up, and on a miss strip the last path segment
// and retry until the root is reached.
type PermissionPolicy interface {
	IsDirectoryReadable(apiKey, prefix string) bool
	IsEntryReadable(apiKey, entry string) bool
}

// StaticPermissionPolicy is the in-memory default: a map from path
// prefix to the set of api keys (or "*" for any key) allowed to read
// it, disabled entirely when Enabled is false (spec.md §6 treats
// permission checks as optional policy).
type StaticPermissionPolicy struct {
	Enabled bool
	Allowed map[string][]string
}

// NewStaticPermissionPolicy builds a disabled-by-default policy; set
// Enabled and populate Allowed to turn on checks.
func NewStaticPermissionPolicy() *StaticPermissionPolicy {
	return &StaticPermissionPolicy{Allowed: make(map[string][]string)}
}

func (p *StaticPermissionPolicy) IsEntryReadable(apiKey, entry string) bool {
	if !p.Enabled {
		return true
	}
	keys, ok := p.Allowed[entry]
	if !ok {
		return false
	}
	for _, k := range keys {
		if k == "*" || k == apiKey {
			return true
		}
	}
	return false
}

// IsDirectoryReadable walks prefix up toward the root, checking each
// ancestor against Allowed, mirroring Session::checkPermissionForDirectory.
func (p *StaticPermissionPolicy) IsDirectoryReadable(apiKey, prefix string) bool {
	if !p.Enabled {
		return true
	}
	if prefix == "" || prefix == "/" {
		if _, ok := p.Allowed["/"]; ok {
			return p.IsEntryReadable(apiKey, "/")
		}
		return false
	}
	trimmed := strings.Trim(prefix, "/")
	for trimmed != "" {
		if _, ok := p.Allowed[trimmed]; ok {
			return p.IsEntryReadable(apiKey, trimmed)
		}
		lastSlash := strings.LastIndex(trimmed, "/")
		if lastSlash < 0 {
			break
		}
		trimmed = trimmed[:lastSlash]
	}
	if _, ok := p.Allowed["/"]; ok {
		return p.IsEntryReadable(apiKey, "/")
	}
	return false
}

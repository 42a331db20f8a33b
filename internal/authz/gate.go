package authz

import (
	"sort"
	"strings"
)

// PermissionSet is an operator's resolved capability set. Unknown capability
// names may be present but grant no access.
type PermissionSet map[Capability]struct{}

// NewPermissionSet builds a set from raw permission names. Malformed input
// (empty or whitespace-only entries) is dropped rather than treated as an
// error, so broken permission data degrades to "no permissions".
func NewPermissionSet(names []string) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		set[Capability(trimmed)] = struct{}{}
	}
	return set
}

// Has reports capability membership.
func (s PermissionSet) Has(cap Capability) bool {
	_, ok := s[cap]
	return ok
}

// Canonicalize deduplicates, trims and lexicographically sorts permission
// names so the same logical set always serializes identically.
func Canonicalize(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	result := make([]string, 0, len(names))
	for _, name := range names {
		trimmed := strings.TrimSpace(name)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		result = append(result, trimmed)
	}
	sort.Strings(result)
	return result
}

// CanEnter reports whether the permission set allows entering a view. Unknown
// views and unknown capabilities are both inert.
func CanEnter(view View, perms PermissionSet) bool {
	required, ok := RequiredCapability(view)
	if !ok {
		return false
	}
	return perms.Has(required)
}

// AvailableViews resolves the navigable views for a permission set, in stable
// catalog order. An empty set yields no views at all.
func AvailableViews(perms PermissionSet) []View {
	views := make([]View, 0, len(catalogOrder))
	for _, entry := range catalogOrder {
		if perms.Has(entry.cap) {
			views = append(views, entry.view)
		}
	}
	return views
}

// SafeNavigate returns the requested view when the permission set allows it,
// otherwise the first available view in catalog order, otherwise the
// access-denied pseudo-view. Revoking a capability mid-session can therefore
// never leave a caller pointed at a view it may no longer use.
func SafeNavigate(requested View, perms PermissionSet) View {
	if CanEnter(requested, perms) {
		return requested
	}
	if available := AvailableViews(perms); len(available) > 0 {
		return available[0]
	}
	return ViewAccessDenied
}

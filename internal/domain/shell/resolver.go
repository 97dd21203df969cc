package shell

// IsActive reports whether item is the active destination for currentPath.
// Matching is exact: nested paths and trailing slashes never activate a parent.
func IsActive(currentPath string, item NavigationItem) bool {
	return currentPath == item.TargetPath
}

// ActiveTitle returns the title of the active item, or "" when none matches.
func (m Menu) ActiveTitle(currentPath string) string {
	if it, ok := m.Lookup(currentPath); ok {
		return it.Title
	}
	return ""
}

package extractor

// HierarchyDepth is the number of category levels in a record
const HierarchyDepth = 5

// Hierarchy is the fixed-width projection of a breadcrumb trail
type Hierarchy [HierarchyDepth]string

// BuildHierarchy fills levels left to right from breadcrumb. Missing levels
// stay empty and labels beyond the last level are dropped.
func BuildHierarchy(breadcrumb []string) Hierarchy {
	var h Hierarchy
	copy(h[:], breadcrumb)
	return h
}

// Level returns the 1-indexed level, or "" when i is out of range
func (h Hierarchy) Level(i int) string {
	if i < 1 || i > HierarchyDepth {
		return ""
	}
	return h[i-1]
}

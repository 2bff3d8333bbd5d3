package engine

import (
	"fmt"
	"strings"
)

// Category is a list filter over mod states.
type Category int

const (
	CategoryEnabled Category = iota
	CategoryDisabled
	CategoryCached
	CategoryUncached
	CategoryManaged
	CategoryUnmanaged
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryEnabled,
	CategoryDisabled,
	CategoryCached,
	CategoryUncached,
	CategoryManaged,
	CategoryUnmanaged,
}

// String returns the category keyword.
func (c Category) String() string {
	switch c {
	case CategoryEnabled:
		return "enabled"
	case CategoryDisabled:
		return "disabled"
	case CategoryCached:
		return "cached"
	case CategoryUncached:
		return "uncached"
	case CategoryManaged:
		return "managed"
	case CategoryUnmanaged:
		return "unmanaged"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory parses a category keyword.
func ParseCategory(s string) (Category, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for _, c := range Categories {
		if c.String() == name {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want one of %s)", ErrInvalidFilter, s, CategoryNames())
}

// ParseCategories parses a list of category keywords, dropping duplicates.
func ParseCategories(names []string) ([]Category, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no categories given", ErrInvalidFilter)
	}

	seen := make(map[Category]bool, len(names))
	out := make([]Category, 0, len(names))
	for _, name := range names {
		c, err := ParseCategory(name)
		if err != nil {
			return nil, err
		}
		if !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}
	return out, nil
}

// CategoryNames returns the accepted keywords, comma separated.
func CategoryNames() string {
	names := make([]string, len(Categories))
	for i, c := range Categories {
		names[i] = c.String()
	}
	return strings.Join(names, ", ")
}

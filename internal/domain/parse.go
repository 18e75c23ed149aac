package domain

import "strings"

// ParseProjectType normalizes a user-entered project type.
func ParseProjectType(s string) (ProjectType, bool) {
	t := ProjectType(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeHouse, TypeBuilding, TypeOther:
		return t, true
	}
	return "", false
}

// ParseSizeClass normalizes a user-entered size class.
func ParseSizeClass(s string) (SizeClass, bool) {
	c := SizeClass(strings.ToLower(strings.TrimSpace(s)))
	switch c {
	case SizeLarge, SizeMedium, SizeSmall:
		return c, true
	}
	return "", false
}

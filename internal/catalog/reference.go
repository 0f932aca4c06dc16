package catalog

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// IDFromReferenceURL returns the entity id encoded as the last path segment
// of a cross-reference URL, e.g. https://host/api/location/3 -> 3.
func IDFromReferenceURL(raw string) (int, error) {
	segments, err := pathSegments(raw)
	if err != nil {
		return 0, err
	}
	return parseID(segments[len(segments)-1], raw)
}

// ParseReference splits a cross-reference URL into its category and id. The
// category is the path segment preceding the id.
func ParseReference(raw string) (Category, int, error) {
	segments, err := pathSegments(raw)
	if err != nil {
		return "", 0, err
	}
	if len(segments) < 2 {
		return "", 0, fmt.Errorf("reference %q has no category segment", raw)
	}
	id, err := parseID(segments[len(segments)-1], raw)
	if err != nil {
		return "", 0, err
	}
	category, err := ParseCategory(segments[len(segments)-2])
	if err != nil {
		return "", 0, fmt.Errorf("reference %q: %w", raw, err)
	}
	return category, id, nil
}

// IDsFromReferenceURLs extracts ids from a list of references, skipping
// entries that do not end in an id.
func IDsFromReferenceURLs(urls []string) []int {
	ids := make([]int, 0, len(urls))
	for _, u := range urls {
		if id, err := IDFromReferenceURL(u); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

func pathSegments(raw string) ([]string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("reference url is empty")
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse reference %q: %w", raw, err)
	}
	clean := strings.Trim(path.Clean("/"+u.Path), "/")
	if clean == "" {
		return nil, fmt.Errorf("reference %q has no path", raw)
	}
	return strings.Split(clean, "/"), nil
}

func parseID(segment, raw string) (int, error) {
	id, err := strconv.Atoi(segment)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("reference %q does not end in an entity id", raw)
	}
	return id, nil
}

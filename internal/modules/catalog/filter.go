package catalog

import (
	"strings"

	"github.com/indiestorelabs/indiestore-backend/internal/docstore"
)

// BuildFilter composes the catalog list parameters into a store filter.
//
// Policy:
//   - q matches name or description as a case-insensitive substring
//   - category narrows to products carrying exactly that category
//   - categories is comma separated and matches any of the listed values
//   - category wins when both category and categories are supplied
//   - the text and category dimensions AND together
//   - no parameters means match everything
func BuildFilter(q, category, categories string) docstore.Filter {
	var f docstore.Filter

	if needle := strings.TrimSpace(q); needle != "" {
		f = f.Contains(needle, "name", "description")
	}

	switch {
	case strings.TrimSpace(category) != "":
		f = f.In("categories", strings.TrimSpace(category))
	case strings.TrimSpace(categories) != "":
		if values := splitList(categories); len(values) > 0 {
			f = f.In("categories", values...)
		}
	}

	return f
}

// splitList splits a comma-separated parameter, dropping blank segments.
func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}

package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Genres is the ordered list of category tags attached to a venue or an
// artist.  It is persisted as a JSON array in a single column so that no
// delimiter parsing is needed when reading it back.
type Genres []string

// NormalizeGenres trims every tag, drops empty ones and removes duplicates
// while keeping the first occurrence order.
func NormalizeGenres(in []string) Genres {
	trimmed := lo.Map(in, func(g string, _ int) string { return strings.TrimSpace(g) })
	return Genres(lo.Uniq(lo.Compact(trimmed)))
}

// Value implements driver.Valuer.  A nil list is written as "[]" so the
// column never holds NULL for rows written by this application.
func (g Genres) Value() (driver.Value, error) {
	if g == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(g))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.  NULL, an empty string and "[]" all decode to
// an empty (non-nil) list.
func (g *Genres) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*g = Genres{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("genres: unsupported column type %T", src)
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		*g = Genres{}
		return nil
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("genres: %w", err)
	}
	if out == nil {
		out = []string{}
	}
	*g = Genres(out)
	return nil
}

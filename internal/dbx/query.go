package dbx

import (
	"database/sql"
	"strconv"
	"strings"
	"time"
)

// InList returns "$start, $start+1, ..." for n positional parameters and the
// values converted to []any, ready to append to a query's args.
//
//	ph, args := dbx.InList(2, ids)
//	q := "SELECT ... WHERE owner_id = $1 AND id IN (" + ph + ")"
//	rows, err := db.QueryContext(ctx, q, append([]any{owner}, args...)...)
func InList(start int, values []string) (string, []any) {
	var b strings.Builder
	args := make([]any, 0, len(values))
	for i, v := range values {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(start + i))
		args = append(args, v)
	}
	return b.String(), args
}

// LikePattern escapes s for use in an ILIKE '%s%' search.
func LikePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.TrimSpace(s)) + "%"
}

// NullString maps "" to SQL NULL.
func NullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullStringPtr maps a nil pointer to SQL NULL.
func NullStringPtr(s *string) any {
	if s == nil {
		return nil
	}
	return *s
}

// StringPtr converts a scanned nullable column back to *string.
func StringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

// NullTime maps a nil pointer to SQL NULL.
func NullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// Scanner is implemented by *sql.Row and *sql.Rows.
type Scanner interface {
	Scan(dest ...any) error
}

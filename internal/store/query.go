package store

import (
	"fmt"
	"strings"
)

// filter renders QueryOpts as a WHERE clause (possibly empty) and LIMIT
// suffix with their positional arguments.
func (o QueryOpts) filter(extra ...string) (where, limit string, args []any) {
	conds := append([]string(nil), extra...)
	if o.After > 0 {
		conds = append(conds, "sequence > ?")
		args = append(args, o.After)
	}
	if o.Before > 0 {
		conds = append(conds, "sequence < ?")
		args = append(args, o.Before)
	}
	if !o.From.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, o.From.UnixMilli())
	}
	if !o.To.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, o.To.UnixMilli())
	}
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}
	if o.Limit > 0 {
		limit = fmt.Sprintf(" LIMIT %d", o.Limit)
	}
	return where, limit, args
}

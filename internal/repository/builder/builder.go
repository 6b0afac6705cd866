package builder

import (
	"fmt"
	"strings"
)

// SQLBuilder helps construct PostgreSQL queries dynamically. Conditions use
// "?" markers which Build rewrites to numbered "$n" placeholders.
type SQLBuilder struct {
	table     string
	columns   []string
	values    []interface{}
	setCols   []string
	setArgs   []interface{}
	where     []string
	whereArgs []interface{}
	groupBy   []string
	orderBy   []string
	returning []string
	limit     int
	offset    int
	isInsert  bool
	isUpdate  bool
	isDelete  bool
	isSelect  bool
}

// NewSQLBuilder creates a new instance of SQLBuilder.
func NewSQLBuilder() *SQLBuilder {
	return &SQLBuilder{}
}

// Select specifies the columns to retrieve.
func (b *SQLBuilder) Select(cols ...string) *SQLBuilder {
	b.isSelect = true
	b.columns = cols
	return b
}

// Insert specifies the table and columns for insertion.
func (b *SQLBuilder) Insert(table string, cols ...string) *SQLBuilder {
	b.isInsert = true
	b.table = table
	b.columns = cols
	return b
}

// Update specifies the table to update.
func (b *SQLBuilder) Update(table string) *SQLBuilder {
	b.isUpdate = true
	b.table = table
	return b
}

// Delete specifies the table to delete from.
func (b *SQLBuilder) Delete(table string) *SQLBuilder {
	b.isDelete = true
	b.table = table
	return b
}

// From specifies the table to select from.
func (b *SQLBuilder) From(table string) *SQLBuilder {
	b.table = table
	return b
}

// Set adds a column assignment to an UPDATE.
func (b *SQLBuilder) Set(col string, val interface{}) *SQLBuilder {
	b.setCols = append(b.setCols, col)
	b.setArgs = append(b.setArgs, val)
	return b
}

// Values specifies the values for insertion.
func (b *SQLBuilder) Values(vals ...interface{}) *SQLBuilder {
	b.values = vals
	return b
}

// Where adds a condition; multiple conditions are joined with AND.
func (b *SQLBuilder) Where(condition string, args ...interface{}) *SQLBuilder {
	b.where = append(b.where, condition)
	b.whereArgs = append(b.whereArgs, args...)
	return b
}

// GroupBy adds GROUP BY columns.
func (b *SQLBuilder) GroupBy(cols ...string) *SQLBuilder {
	b.groupBy = append(b.groupBy, cols...)
	return b
}

// OrderBy adds ORDER BY terms.
func (b *SQLBuilder) OrderBy(order ...string) *SQLBuilder {
	b.orderBy = append(b.orderBy, order...)
	return b
}

// Limit adds a LIMIT clause. Zero means no limit.
func (b *SQLBuilder) Limit(limit int) *SQLBuilder {
	b.limit = limit
	return b
}

// Offset adds an OFFSET clause. Zero means no offset.
func (b *SQLBuilder) Offset(offset int) *SQLBuilder {
	b.offset = offset
	return b
}

// Returning adds a RETURNING clause to INSERT, UPDATE or DELETE.
func (b *SQLBuilder) Returning(cols ...string) *SQLBuilder {
	b.returning = cols
	return b
}

// Build constructs the final SQL string and arguments.
func (b *SQLBuilder) Build() (string, []interface{}) {
	var sb strings.Builder
	var args []interface{}
	next := func() string {
		return fmt.Sprintf("$%d", len(args))
	}

	switch {
	case b.isSelect:
		sb.WriteString("SELECT ")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(" FROM ")
		sb.WriteString(b.table)
	case b.isInsert:
		sb.WriteString("INSERT INTO ")
		sb.WriteString(b.table)
		sb.WriteString(" (")
		sb.WriteString(strings.Join(b.columns, ", "))
		sb.WriteString(") VALUES (")
		placeholders := make([]string, len(b.values))
		for i, v := range b.values {
			args = append(args, v)
			placeholders[i] = next()
		}
		sb.WriteString(strings.Join(placeholders, ", "))
		sb.WriteString(")")
	case b.isUpdate:
		sb.WriteString("UPDATE ")
		sb.WriteString(b.table)
		sb.WriteString(" SET ")
		setClauses := make([]string, len(b.setCols))
		for i, col := range b.setCols {
			args = append(args, b.setArgs[i])
			setClauses[i] = fmt.Sprintf("%s = %s", col, next())
		}
		sb.WriteString(strings.Join(setClauses, ", "))
	case b.isDelete:
		sb.WriteString("DELETE FROM ")
		sb.WriteString(b.table)
	}

	if len(b.where) > 0 {
		sb.WriteString(" WHERE ")
		parts := strings.Split(strings.Join(b.where, " AND "), "?")
		argIdx := 0
		for i, part := range parts {
			sb.WriteString(part)
			if i == len(parts)-1 {
				break
			}
			if argIdx >= len(b.whereArgs) {
				// more markers than arguments: leave the marker for the driver to reject
				sb.WriteString("?")
				continue
			}
			args = append(args, b.whereArgs[argIdx])
			argIdx++
			sb.WriteString(next())
		}
	}

	if len(b.groupBy) > 0 {
		sb.WriteString(" GROUP BY ")
		sb.WriteString(strings.Join(b.groupBy, ", "))
	}

	if len(b.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(b.orderBy, ", "))
	}

	if b.limit > 0 {
		sb.WriteString(fmt.Sprintf(" LIMIT %d", b.limit))
	}

	if b.offset > 0 {
		sb.WriteString(fmt.Sprintf(" OFFSET %d", b.offset))
	}

	if len(b.returning) > 0 && !b.isSelect {
		sb.WriteString(" RETURNING ")
		sb.WriteString(strings.Join(b.returning, ", "))
	}

	return sb.String(), args
}

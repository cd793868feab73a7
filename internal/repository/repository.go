package repository

import "strings"

// prefixColumns qualifies each column in a comma-separated list with a
// table alias, for queries that join against other tables.
func prefixColumns(alias, columns string) string {
	parts := strings.Split(columns, ",")
	for i, part := range parts {
		parts[i] = alias + "." + strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

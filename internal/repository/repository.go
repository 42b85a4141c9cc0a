// Package repository holds the Postgres implementations of the domain
// repository interfaces, plus read-through cache decorators for each.
package repository

import (
	"fmt"

	"github.com/clinica-io/clinica-api/internal/domain"
)

// orderClause builds a safe ORDER BY from a caller-supplied sort field.
// Unknown fields fall back to the entity default so user input never reaches
// the SQL string.
func orderClause(allowed map[string]string, page domain.PageRequest, fallback string) string {
	column, ok := allowed[page.SortBy]
	if !ok {
		column = fallback
	}
	direction := "ASC"
	if page.SortOrder == "desc" {
		direction = "DESC"
	}
	return fmt.Sprintf("%s %s", column, direction)
}

func totalPages(total int64, size int) int {
	if size <= 0 {
		return 0
	}
	pages := int(total) / size
	if int(total)%size != 0 {
		pages++
	}
	return pages
}

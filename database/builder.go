package database

import (
	"github.com/Masterminds/squirrel"
)

// Builder returns a statement builder configured for the legacy '?'
// placeholder convention consumed by the executor. Dynamic SQL built with it
// flows through TranslateQuery like any hand-written statement.
func Builder() squirrel.StatementBuilderType {
	return squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)
}

// ILike builds a case-insensitive pattern match condition.
func ILike(column, pattern string) squirrel.Sqlizer {
	return squirrel.ILike{column: pattern}
}

package bd

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"autoshop-system/pkg/types"
)

// Psql: построитель запросов с плейсхолдерами $1, $2...
var Psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ApplyListParams применяет filter[...], sort[...] и пагинацию.
// Ключи, которых нет в allowedMap, игнорируются.
func ApplyListParams(builder sq.SelectBuilder, filter types.Filter, allowedMap map[string]string) sq.SelectBuilder {
	for jsonField, val := range filter.Filter {
		dbCol, ok := allowedMap[jsonField]
		if !ok {
			continue
		}

		if s, ok := val.(string); ok && strings.Contains(s, ",") {
			builder = builder.Where(sq.Eq{dbCol: strings.Split(s, ",")})
		} else {
			builder = builder.Where(sq.Eq{dbCol: val})
		}
	}

	for jsonField, dir := range filter.Sort {
		dbCol, ok := allowedMap[jsonField]
		if !ok {
			continue
		}
		sqlDir := "ASC"
		if strings.ToLower(dir) == "desc" {
			sqlDir = "DESC"
		}
		builder = builder.OrderBy(fmt.Sprintf("%s %s", dbCol, sqlDir))
	}

	if filter.WithPagination {
		if filter.Limit > 0 {
			builder = builder.Limit(uint64(filter.Limit))
		}
		if filter.Offset > 0 {
			builder = builder.Offset(uint64(filter.Offset))
		}
	}

	return builder
}

// CountFilter возвращает копию фильтра для COUNT(*) без сортировки и пагинации.
func CountFilter(filter types.Filter) types.Filter {
	filter.WithPagination = false
	filter.Sort = nil
	return filter
}

// ApplySearch добавляет ILIKE по нескольким колонкам через OR.
func ApplySearch(builder sq.SelectBuilder, search string, columns ...string) sq.SelectBuilder {
	search = strings.TrimSpace(search)
	if search == "" || len(columns) == 0 {
		return builder
	}
	pattern := "%" + search + "%"
	or := make(sq.Or, 0, len(columns))
	for _, col := range columns {
		or = append(or, sq.ILike{col: pattern})
	}
	return builder.Where(or)
}

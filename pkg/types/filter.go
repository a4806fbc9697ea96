package types

import (
	"strconv"
	"strings"
)

// Filter: параметры списка из query-строки.
// Пример: /api/repairs?search=ABC&sort[intake_at]=desc&filter[status]=pending,in_progress&limit=10&page=2
type Filter struct {
	Search         string                 `json:"search,omitempty"`
	Sort           map[string]string      `json:"sort,omitempty"`
	Filter         map[string]interface{} `json:"filter,omitempty"`
	Limit          int                    `json:"limit"`
	Offset         int                    `json:"offset"`
	Page           int                    `json:"page"`
	WithPagination bool                   `json:"with_pagination"`
}

// Uint64 читает filter[key] как число.
func (f Filter) Uint64(key string) (uint64, bool) {
	raw, ok := f.Filter[key]
	if !ok {
		return 0, false
	}
	switch v := raw.(type) {
	case uint64:
		return v, true
	case string:
		id, err := strconv.ParseUint(strings.TrimSpace(v), 10, 64)
		return id, err == nil
	}
	return 0, false
}

// String читает filter[key] как строку.
func (f Filter) String(key string) (string, bool) {
	raw, ok := f.Filter[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok && s != ""
}

// Set возвращает копию фильтра с заданным значением.
func (f Filter) Set(key string, value interface{}) Filter {
	next := make(map[string]interface{}, len(f.Filter)+1)
	for k, v := range f.Filter {
		next[k] = v
	}
	next[key] = value
	f.Filter = next
	return f
}

type Pagination struct {
	TotalCount uint64 `json:"total_count"`
	Page       int    `json:"page"`
	Limit      int    `json:"limit"`
	TotalPages int    `json:"total_pages"`
}

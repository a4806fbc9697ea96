package utils

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"autoshop-system/pkg/constants"
	apperrors "autoshop-system/pkg/errors"
	"autoshop-system/pkg/types"

	"github.com/labstack/echo/v4"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// ParseFilterFromQuery разбирает ?search=&sort[f]=&filter[f]=&limit=&page=&offset=&withPagination=.
func ParseFilterFromQuery(values url.Values) types.Filter {
	filterReq := types.Filter{
		Sort:   make(map[string]string),
		Filter: make(map[string]interface{}),
		Limit:  DefaultLimit,
		Page:   1,
	}

	if limitStr := values.Get("limit"); limitStr != "" {
		if l, err := strconv.Atoi(limitStr); err == nil && l > 0 {
			filterReq.Limit = min(l, MaxLimit)
		}
	}

	if pageStr := values.Get("page"); pageStr != "" {
		if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
			filterReq.Page = p
		}
	}

	if offsetStr := values.Get("offset"); offsetStr != "" {
		if o, err := strconv.Atoi(offsetStr); err == nil && o >= 0 {
			filterReq.Offset = o
		}
	} else {
		filterReq.Offset = (filterReq.Page - 1) * filterReq.Limit
	}

	filterReq.WithPagination = values.Get("withPagination") != "false"

	for key, vals := range values {
		if len(vals) == 0 || vals[0] == "" {
			continue
		}

		if key == "search" {
			filterReq.Search = vals[0]
			continue
		}

		if strings.HasPrefix(key, "sort[") && strings.HasSuffix(key, "]") {
			field := key[5 : len(key)-1]
			direction := strings.ToLower(vals[0])
			if direction == "asc" || direction == "desc" {
				filterReq.Sort[field] = direction
			}
			continue
		}

		if strings.HasPrefix(key, "filter[") && strings.HasSuffix(key, "]") {
			field := key[7 : len(key)-1]
			filterReq.Filter[field] = strings.Join(vals, ",")
		}
	}

	return filterReq
}

func ParseIDParam(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperrors.NewInvalidInputError("неверный идентификатор '%s'", c.Param(name))
	}
	return id, nil
}

// ParseDate разбирает дату YYYY-MM-DD как полночь в часовом поясе мастерской.
func ParseDate(raw string, loc *time.Location) (time.Time, error) {
	date, err := time.ParseInLocation(constants.DateLayout, raw, loc)
	if err != nil {
		return time.Time{}, apperrors.NewValidationError(apperrors.KindInvalidInput, "date", "неверный формат даты '%s', ожидается ГГГГ-ММ-ДД", raw)
	}
	return date, nil
}

// ParseOptionalDate: то же, что ParseDate, но пустая строка даёт nil.
func ParseOptionalDate(raw string, loc *time.Location) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	date, err := ParseDate(raw, loc)
	if err != nil {
		return nil, err
	}
	return &date, nil
}

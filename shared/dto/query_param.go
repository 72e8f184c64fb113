package dto

import (
	"net/http"
	"strconv"
	"strings"

	"taskboard/shared/constant"
)

const (
	SortDirAsc  = "ASC"
	SortDirDesc = "DESC"
)

// QueryParams describes the window over a filtered, sorted result set.
// The sequencing contract is filter, then order, then offset, then
// limit; Skip and Limit are applied by the repository only after the
// WHERE and ORDER BY clauses.
type QueryParams struct {
	Skip    int    `json:"skip"     validate:"omitempty,gte=0"`
	Limit   int    `json:"limit"    validate:"omitempty,gte=0"`
	SortBy  string `json:"sort_by"  validate:"omitempty"`
	SortDir string `json:"sort_dir" validate:"omitempty,oneof=ASC DESC"`
}

// FromRequest populates QueryParams from the HTTP request query string.
// A `skip` parameter wins over `page`; `page` is converted into an
// offset using the effective limit. With `defaultRequest` set, missing
// values fall back to the package defaults (newest first, limit 100).
func (q *QueryParams) FromRequest(r *http.Request, defaultRequest bool) {
	queryParams := r.URL.Query()

	if limit := queryParams.Get(constant.RequestParamLimit); limit != "" {
		if limitInt, err := strconv.Atoi(limit); err == nil && limitInt > 0 {
			q.Limit = limitInt
		}
	}

	if defaultRequest && q.Limit == 0 {
		q.Limit = constant.DefaultValueLimit
	}

	if skip := queryParams.Get(constant.RequestParamSkip); skip != "" {
		if skipInt, err := strconv.Atoi(skip); err == nil && skipInt > 0 {
			q.Skip = skipInt
		}
	} else if page := queryParams.Get(constant.RequestParamPage); page != "" {
		if pageInt, err := strconv.Atoi(page); err == nil && pageInt > 1 {
			q.Skip = (pageInt - 1) * q.Limit
		}
	}

	if sortBy := queryParams.Get(constant.RequestParamSortBy); sortBy != "" {
		q.SortBy = sortBy
	}

	if sortDir := queryParams.Get(constant.RequestParamSortDir); strings.ToUpper(sortDir) == SortDirAsc || strings.ToUpper(sortDir) == SortDirDesc {
		q.SortDir = strings.ToUpper(sortDir)
	}

	if defaultRequest {
		if q.SortBy == "" {
			q.SortBy = constant.DefaultValueSortBy
		}

		if q.SortDir == "" {
			q.SortDir = constant.DefaultValueSortDir
		}
	}
}

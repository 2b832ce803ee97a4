package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/testdeckhq/testdeck/pkg/response"
)

// Release formats differ between create and update on purpose: create
// accepts a month-level release, update demands a full date.
var (
	releaseCreateRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])(-(0[1-9]|[12][0-9]|3[01]))?$`)
	releaseUpdateRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// ValidateID coerces a path or body id to a positive integer.
func ValidateID(raw string, field string) (uint, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return 0, response.NewBadRequest(fmt.Sprintf("%s must be a positive integer", field))
	}
	return uint(n), nil
}

// ValidateEnum checks case-sensitive membership in allowed, reporting the
// allowed set verbatim on failure.
func ValidateEnum(value, field string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return response.NewBadRequest(fmt.Sprintf("%s must be one of: %s", field, strings.Join(allowed, ", ")))
}

// ValidatePagination applies defaults (page 1, pageSize 20) and rejects an
// explicitly requested pageSize above the hard cap of 100.
func ValidatePagination(pageRaw, pageSizeRaw string) (int, int, error) {
	page := defaultPage
	pageSize := defaultPageSize

	if pageRaw != "" {
		n, err := strconv.Atoi(pageRaw)
		if err != nil || n <= 0 {
			return 0, 0, response.NewBadRequest("page must be a positive integer")
		}
		page = n
	}
	if pageSizeRaw != "" {
		n, err := strconv.Atoi(pageSizeRaw)
		if err != nil || n <= 0 {
			return 0, 0, response.NewBadRequest("pageSize must be a positive integer")
		}
		if n > maxPageSize {
			return 0, 0, response.NewBadRequest(fmt.Sprintf("pageSize cannot exceed %d", maxPageSize))
		}
		pageSize = n
	}
	return page, pageSize, nil
}

// ValidateReleaseCreate accepts YYYY-MM or YYYY-MM-DD.
func ValidateReleaseCreate(release string) error {
	if !releaseCreateRe.MatchString(release) {
		return response.NewBadRequest("release must be in YYYY-MM or YYYY-MM-DD format")
	}
	return nil
}

// ValidateReleaseUpdate accepts YYYY-MM-DD only.
func ValidateReleaseUpdate(release string) error {
	if !releaseUpdateRe.MatchString(release) {
		return response.NewBadRequest("release must be in YYYY-MM-DD format")
	}
	return nil
}

package server

import (
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/goodenergy/backend/internal/apperr"
	"github.com/goodenergy/backend/pkg/db/pagination"
)

func parseSnowflakeID(value string) (snowflake.ID, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, errors.New("empty id")
	}
	id, err := snowflake.ParseString(trimmed)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func pathID(c *gin.Context, name string) (snowflake.ID, bool) {
	id, err := parseSnowflakeID(c.Param(name))
	if err != nil {
		AbortWithError(c, apperr.Validation("invalid %s", name))
		return 0, false
	}
	return id, true
}

func parseOptionalTime(value string) (*time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil, nil
	}
	if parsed, err := time.Parse(time.RFC3339, trimmed); err == nil {
		return &parsed, nil
	}
	if parsed, err := time.Parse(time.DateOnly, trimmed); err == nil {
		return &parsed, nil
	}
	return nil, errors.New("invalid time")
}

// bindPage reads page_size/page_token query params. Token cursors carry
// the last returned id.
func bindPage(c *gin.Context) (pagination.Pagination, *pagination.Cursor, error) {
	var page pagination.Pagination
	if err := c.ShouldBindQuery(&page); err != nil {
		return page, nil, apperr.Validation("invalid pagination params")
	}
	if page.PageSize <= 0 {
		page.PageSize = 10
	}
	if page.PageToken == "" {
		return page, nil, nil
	}
	cursor, err := pagination.DecodeCursor(page.PageToken)
	if err != nil {
		return page, nil, apperr.Validation("invalid page token")
	}
	return page, cursor, nil
}

// paginate slices items after the cursor position and builds page info.
// Lists are already ordered by the repositories.
func paginate[T any](items []T, page pagination.Pagination, cursor *pagination.Cursor, idOf func(T) string) ([]T, *pagination.PageInfo) {
	start := 0
	if cursor != nil && cursor.ID != "" {
		for i, item := range items {
			if idOf(item) == cursor.ID {
				start = i + 1
				break
			}
		}
	}
	rest := items[start:]

	info := &pagination.PageInfo{}
	if len(rest) > page.PageSize {
		rest = rest[:page.PageSize]
		info.HasMore = true
		token, _ := pagination.EncodeCursor(pagination.Cursor{ID: idOf(rest[len(rest)-1])})
		info.NextPageToken = token
	}
	return rest, info
}

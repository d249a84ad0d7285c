package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
)

const maxPageSize = 200

func parseLimitOffset(c *fiber.Ctx, defLimit int) (limit, offset int) {
	limit = defLimit
	offset = 0
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= maxPageSize {
			limit = n
		}
	}
	if v := strings.TrimSpace(c.Query("offset")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			offset = n
		}
	}
	return limit, offset
}

// page slices items by limit/offset; an offset past the end gives an empty page.
func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

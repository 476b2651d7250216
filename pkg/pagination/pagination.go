package pagination

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// Clamp bounds n to [1, max]. Non-positive n yields def.
func Clamp(n, def, max int) int {
	if n <= 0 {
		n = def
	}
	if n > max {
		n = max
	}
	if n < 1 {
		n = 1
	}
	return n
}

// Limit reads the "limit" query parameter and clamps it with Clamp.
// Missing or malformed values yield def.
func Limit(c echo.Context, def, max int) int {
	n, _ := strconv.Atoi(c.QueryParam("limit"))
	return Clamp(n, def, max)
}

// internal/app/system/paging/paging.go
package paging

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
)

// DefaultLimit is the page size used when the caller does not send one.
const DefaultLimit = 25

// ValidLimits are the only page sizes a caller may request.
var ValidLimits = []int{25, 50, 100}

var (
	// ErrInvalidLimit is returned for a limit outside ValidLimits.
	ErrInvalidLimit = errors.New("invalid limit")
	// ErrInvalidPage is returned for a negative or non-numeric page.
	ErrInvalidPage = errors.New("invalid page")
)

// Window is a validated offset page.
type Window struct {
	Page  int
	Limit int
}

// maxSkip bounds Skip well below the int64 range so skip plus limit
// cannot overflow on the server.
const maxSkip = math.MaxInt64 / 2

// Skip is the number of rows before this page. Pages far past any real
// result saturate at maxSkip and read as empty.
func (w Window) Skip() int64 {
	page, limit := int64(w.Page-1), int64(w.Limit)
	if page <= 0 || limit <= 0 {
		return 0
	}
	if page > maxSkip/limit {
		return maxSkip
	}
	return page * limit
}

// Limit64 returns Limit for options.Find().SetLimit.
func (w Window) Limit64() int64 { return int64(w.Limit) }

// NewWindow validates page and limit. Zero means "not sent" and picks the
// default. Limits are never clamped: anything not in ValidLimits fails.
func NewWindow(page, limit int) (Window, error) {
	if page < 0 {
		return Window{}, ErrInvalidPage
	}
	if page == 0 {
		page = 1
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if !IsValidLimit(limit) {
		return Window{}, ErrInvalidLimit
	}
	return Window{Page: page, Limit: limit}, nil
}

// IsValidLimit reports whether n is one of ValidLimits.
func IsValidLimit(n int) bool {
	for _, v := range ValidLimits {
		if v == n {
			return true
		}
	}
	return false
}

// TotalPages returns ceil(total/limit), and 0 when there are no rows.
func TotalPages(total int64, limit int) int64 {
	if total <= 0 || limit <= 0 {
		return 0
	}
	l := int64(limit)
	return (total + l - 1) / l
}

// ParseInt reads an integer query parameter. Absent means 0. A value that
// is present but not an integer returns ok=false.
func ParseInt(r *http.Request, key string) (n int, ok bool) {
	s := query.Get(r, key)
	if s == "" {
		return 0, true
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

package pagination

import (
	"math"
	"net/http"
	"strconv"

	apperrors "github.com/utafrali/EcoTrail/pkg/errors"
	"github.com/utafrali/EcoTrail/pkg/httputil"
)

// Listing defaults applied when the request omits page or page_size.
const (
	DefaultPage     = 1
	DefaultPageSize = 12
)

// Params holds the requested page. Values are not clamped: callers get
// exactly what the client sent so the store sees the same window.
type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"page_size"`
}

// Window is the offset/limit pair handed to a store.
type Window struct {
	Offset int
	Limit  int
}

// DefaultParams returns the listing defaults.
func DefaultParams() Params {
	return Params{Page: DefaultPage, PageSize: DefaultPageSize}
}

// FromRequest extracts page and page_size from an HTTP request. A value
// that is not an integer, or a page whose window bounds do not fit in an
// int, yields an INVALID_PARAMETER error. Other values pass through
// unclamped.
func FromRequest(r *http.Request) (Params, error) {
	page, err := httputil.QueryInt(r, "page", DefaultPage)
	if err != nil {
		return Params{}, err
	}
	size, err := httputil.QueryInt(r, "page_size", DefaultPageSize)
	if err != nil {
		return Params{}, err
	}
	p := Params{Page: page, PageSize: size}
	if !p.representable() {
		return Params{}, apperrors.InvalidParameter("page_size", strconv.Itoa(size),
			"window for page "+strconv.Itoa(page)+" is out of range")
	}
	return p, nil
}

// representable reports whether both window bounds, (page-1)*page_size and
// page*page_size, can be computed without wrapping.
func (p Params) representable() bool {
	if p.Page == math.MinInt {
		return false
	}
	_, startOK := mulInt(p.Page-1, p.PageSize)
	_, endOK := mulInt(p.Page, p.PageSize)
	return startOK && endOK
}

func mulInt(a, b int) (int, bool) {
	if a == 0 || b == 0 {
		return 0, true
	}
	if (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
		return 0, false
	}
	c := a * b
	return c, c/b == a
}

// Offset is (page-1)*page_size.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Window returns the [offset, offset+page_size) window for the page.
func (p Params) Window() Window {
	return Window{Offset: p.Offset(), Limit: p.PageSize}
}

// Slice applies the page window to an in-memory list with half-open slice
// semantics: negative bounds count from the end of the list and all bounds
// are clipped to [0, len(items)]. The returned slice never aliases items.
func Slice[T any](items []T, p Params) []T {
	w := p.Window()
	n := len(items)
	start := clip(w.Offset, n)
	end := clip(w.Offset+w.Limit, n)
	if start >= end {
		return []T{}
	}
	out := make([]T, end-start)
	copy(out, items[start:end])
	return out
}

func clip(i, n int) int {
	if i < 0 {
		i += n
		if i < 0 {
			return 0
		}
	}
	if i > n {
		return n
	}
	return i
}

// ExpectedLen is the number of items a page holds for a result set of total
// documents when page >= 1 and page_size >= 0.
func ExpectedLen(total int, p Params) int {
	rest := total - p.Offset()
	if rest < 0 {
		rest = 0
	}
	if p.PageSize < rest {
		return p.PageSize
	}
	return rest
}

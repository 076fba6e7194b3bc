package pagination

import (
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/utafrali/EcoTrail/pkg/errors"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 12, p.PageSize)
	assert.Equal(t, 0, p.Offset())
}

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	p, err := FromRequest(req)

	require.NoError(t, err)
	assert.Equal(t, DefaultParams(), p)
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products?page=3&page_size=50", nil)
	p, err := FromRequest(req)

	require.NoError(t, err)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 50, p.PageSize)
	assert.Equal(t, Window{Offset: 100, Limit: 50}, p.Window())
}

func TestFromRequest_NonPositiveValuesPassThrough(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products?page=0&page_size=-5", nil)
	p, err := FromRequest(req)

	require.NoError(t, err)
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, -5, p.PageSize)
	assert.Equal(t, Window{Offset: 5, Limit: -5}, p.Window())
}

func TestFromRequest_NotANumber(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/products?page=abc", nil)
	_, err := FromRequest(req)
	assert.Error(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/products?page_size=1.5", nil)
	_, err = FromRequest(req)
	assert.Error(t, err)
}

func TestFromRequest_WindowOverflow(t *testing.T) {
	maxInt := strconv.Itoa(math.MaxInt)
	minInt := strconv.Itoa(math.MinInt)

	tests := []struct {
		name  string
		query string
		ok    bool
	}{
		{"first page of max size", "page=1&page_size=" + maxInt, true},
		{"second page of max size", "page=2&page_size=" + maxInt, false},
		{"huge page", "page=" + maxInt + "&page_size=12", false},
		{"min page", "page=" + minInt + "&page_size=1", false},
		{"min page size", "page=1&page_size=" + minInt, true},
		{"min page size on page two", "page=2&page_size=" + minInt, false},
		{"zero size on huge page", "page=" + maxInt + "&page_size=0", true},
		{"negative page in range", "page=-3&page_size=10", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/products?"+tt.query, nil)
			p, err := FromRequest(req)
			if tt.ok {
				require.NoError(t, err)
				w := p.Window()
				assert.Equal(t, (p.Page-1)*p.PageSize, w.Offset)
				return
			}
			var appErr *apperrors.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, apperrors.CodeInvalidParameter, appErr.Code)
		})
	}
}

func TestSlice(t *testing.T) {
	items := []string{"a", "b", "c"}

	tests := []struct {
		name string
		p    Params
		want []string
	}{
		{"first page holds everything", Params{Page: 1, PageSize: 12}, []string{"a", "b", "c"}},
		{"exact window", Params{Page: 2, PageSize: 1}, []string{"b"}},
		{"partial last page", Params{Page: 2, PageSize: 2}, []string{"c"}},
		{"past the end", Params{Page: 3, PageSize: 12}, []string{}},
		{"zero page size", Params{Page: 1, PageSize: 0}, []string{}},
		// page 0 with size 1 is the window [-1, 0), which is empty.
		{"page zero", Params{Page: 0, PageSize: 1}, []string{}},
		// page 0 with size 2 is [-2, 0); the end clips to 0 so nothing is returned.
		{"page zero wider", Params{Page: 0, PageSize: 2}, []string{}},
		// page -1 with size 1 is [-2, -1), i.e. the second-to-last item.
		{"negative page counts from end", Params{Page: -1, PageSize: 1}, []string{"b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Slice(items, tt.p))
		})
	}
}

func TestSlice_DoesNotAlias(t *testing.T) {
	items := []int{1, 2, 3}
	out := Slice(items, Params{Page: 1, PageSize: 2})
	out[0] = 99
	assert.Equal(t, 1, items[0])
}

func TestProperty_SliceLengthMatchesFormula(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	properties.Property("len(page) = min(s, max(0, N-(p-1)s))", prop.ForAll(
		func(total, page, size int) bool {
			items := make([]int, total)
			p := Params{Page: page, PageSize: size}
			return len(Slice(items, p)) == ExpectedLen(total, p)
		},
		gen.IntRange(0, 60),
		gen.IntRange(1, 12),
		gen.IntRange(0, 15),
	))

	properties.Property("pages partition the list in order", prop.ForAll(
		func(total, size int) bool {
			items := make([]int, total)
			for i := range items {
				items[i] = i
			}
			var seen []int
			for page := 1; page <= total/size+1; page++ {
				seen = append(seen, Slice(items, Params{Page: page, PageSize: size})...)
			}
			if len(seen) != total {
				return false
			}
			for i, v := range seen {
				if v != i {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 60),
		gen.IntRange(1, 15),
	))

	properties.TestingRun(t)
}

package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaginate(t *testing.T) {
	tests := []struct {
		name          string
		offset        int
		limit         int
		totalItems    int
		selectedCount int
		wantLimit     int
		wantNext      *int
		wantPrevious  *int
	}{
		{
			name:   "first page of many",
			offset: 0, limit: 10, totalItems: 25, selectedCount: 10,
			wantLimit: 10, wantNext: intPtr(10), wantPrevious: nil,
		},
		{
			name:   "middle page",
			offset: 10, limit: 10, totalItems: 25, selectedCount: 10,
			wantLimit: 10, wantNext: intPtr(20), wantPrevious: intPtr(0),
		},
		{
			name:   "short final page",
			offset: 20, limit: 10, totalItems: 25, selectedCount: 5,
			wantLimit: 5, wantNext: nil, wantPrevious: intPtr(10),
		},
		{
			name:   "empty result set",
			offset: 0, limit: 10, totalItems: 0, selectedCount: 0,
			wantLimit: 0, wantNext: nil, wantPrevious: nil,
		},
		{
			name:   "single exact page",
			offset: 0, limit: 10, totalItems: 10, selectedCount: 10,
			wantLimit: 10, wantNext: nil, wantPrevious: nil,
		},
		{
			name:   "offset beyond the end",
			offset: 40, limit: 10, totalItems: 25, selectedCount: 0,
			wantLimit: 0, wantNext: nil, wantPrevious: intPtr(15),
		},
		{
			name:   "offset smaller than limit",
			offset: 3, limit: 10, totalItems: 25, selectedCount: 10,
			wantLimit: 10, wantNext: intPtr(13), wantPrevious: intPtr(0),
		},
		{
			name:   "total smaller than limit with positive offset",
			offset: 2, limit: 10, totalItems: 5, selectedCount: 3,
			wantLimit: 3, wantNext: nil, wantPrevious: intPtr(0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Paginate(tt.offset, tt.limit, tt.totalItems, tt.selectedCount)

			assert.Equal(t, tt.wantLimit, page.Limit)
			assertCursor(t, tt.wantNext, page.Next, "next")
			assertCursor(t, tt.wantPrevious, page.Previous, "previous")
		})
	}
}

func assertCursor(t *testing.T, want, got *int, field string) {
	t.Helper()
	if want == nil {
		assert.Nil(t, got, "expected no %s cursor", field)
		return
	}
	require.NotNil(t, got, "expected a %s cursor", field)
	assert.Equal(t, *want, *got, "%s cursor", field)
}

func intPtr(v int) *int { return &v }

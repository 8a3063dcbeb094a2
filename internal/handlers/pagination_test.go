package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func testContext(t *testing.T, rawQuery string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	req, err := http.NewRequest(http.MethodGet, "/api/attendees?"+rawQuery, nil)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	c.Request = req
	return c
}

func TestPageParamsBounds(t *testing.T) {
	cases := []struct {
		name         string
		query        string
		wantPage     int
		wantPageSize int
	}{
		{"defaults", "", 1, DefaultPageSize},
		{"explicit values", "page=3&pageSize=50", 3, 50},
		{"zero and negative fall back", "page=0&pageSize=-5", 1, DefaultPageSize},
		{"page size is capped", "page=2&pageSize=100000", 2, MaxPageSize},
		{"garbage falls back", "page=abc&pageSize=xyz", 1, DefaultPageSize},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page, pageSize := pageParams(testContext(t, tc.query))
			if page != tc.wantPage || pageSize != tc.wantPageSize {
				t.Errorf("pageParams(%q) = (%d, %d), want (%d, %d)",
					tc.query, page, pageSize, tc.wantPage, tc.wantPageSize)
			}
		})
	}
}

func TestCreatePaginatedResponseTotals(t *testing.T) {
	c := testContext(t, "page=2&pageSize=10")
	resp := CreatePaginatedResponse(c, []string{}, 25)
	if resp.TotalPages != 3 || resp.CurrentPage != 2 || resp.PageSize != 10 {
		t.Errorf("unexpected envelope: %+v", resp)
	}

	empty := CreatePaginatedResponse(testContext(t, ""), []string{}, 0)
	if empty.TotalPages != 0 {
		t.Errorf("zero rows must give zero pages, got %d", empty.TotalPages)
	}
}

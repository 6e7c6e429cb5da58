package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?"+query, nil)
	c := e.NewContext(req, httptest.NewRecorder())
	return FromContext(c)
}

func TestFromContext(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  Params
	}{
		{"defaults", "", Params{Limit: DefaultLimit, Skip: 0}},
		{"explicit", "limit=10&skip=20", Params{Limit: 10, Skip: 20}},
		{"limit clamped", "limit=500", Params{Limit: MaxLimit, Skip: 0}},
		{"negative skip", "skip=-5", Params{Limit: DefaultLimit, Skip: 0}},
		{"zero limit", "limit=0", Params{Limit: DefaultLimit, Skip: 0}},
		{"garbage", "limit=abc&skip=xyz", Params{Limit: DefaultLimit, Skip: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := paramsFor(t, tt.query); got != tt.want {
				t.Errorf("FromContext(%q) = %+v, want %+v", tt.query, got, tt.want)
			}
		})
	}
}

func TestNewResponseHasMore(t *testing.T) {
	r := NewResponse(nil, 100, Params{Limit: 50, Skip: 0})
	if !r.HasMore {
		t.Error("expected has_more with 50 of 100")
	}
	r = NewResponse(nil, 100, Params{Limit: 50, Skip: 50})
	if r.HasMore {
		t.Error("expected no more past the last page")
	}
}

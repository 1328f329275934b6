package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func paramsFor(t *testing.T, query string) Params {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest("GET", "/?"+query, nil)
	rec := httptest.NewRecorder()
	return FromContext(e.NewContext(req, rec))
}

func TestFromContext_Defaults(t *testing.T) {
	p := paramsFor(t, "")
	if p.Limit != DefaultLimit {
		t.Errorf("expected default limit %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected offset 0, got %d", p.Offset)
	}
}

func TestFromContext_ExplicitValues(t *testing.T) {
	p := paramsFor(t, "limit=50&offset=10")
	if p.Limit != 50 || p.Offset != 10 {
		t.Errorf("expected limit=50 offset=10, got limit=%d offset=%d", p.Limit, p.Offset)
	}
}

func TestFromContext_ClampsAndSanitizes(t *testing.T) {
	p := paramsFor(t, "limit=5000")
	if p.Limit != MaxLimit {
		t.Errorf("expected limit clamped to %d, got %d", MaxLimit, p.Limit)
	}

	p = paramsFor(t, "limit=-3&offset=-7")
	if p.Limit != DefaultLimit {
		t.Errorf("expected negative limit to fall back to %d, got %d", DefaultLimit, p.Limit)
	}
	if p.Offset != 0 {
		t.Errorf("expected negative offset to clamp to 0, got %d", p.Offset)
	}

	p = paramsFor(t, "limit=abc&offset=xyz")
	if p.Limit != DefaultLimit || p.Offset != 0 {
		t.Errorf("expected garbage params to fall back to defaults, got limit=%d offset=%d", p.Limit, p.Offset)
	}
}

func TestNewResponse_HasMore(t *testing.T) {
	resp := NewResponse([]string{"a", "b"}, 10, 2, 0)
	if !resp.HasMore {
		t.Error("expected HasMore with more rows remaining")
	}

	resp = NewResponse([]string{"a", "b"}, 10, 2, 8)
	if resp.HasMore {
		t.Error("expected HasMore false on the last page")
	}
}

func TestParams_NextOffset(t *testing.T) {
	p := Params{Limit: 20, Offset: 40}
	if got := p.NextOffset(); got != 60 {
		t.Errorf("expected next offset 60, got %d", got)
	}
	if !p.HasNext(100) {
		t.Error("expected HasNext true with 100 total")
	}
	if p.HasNext(60) {
		t.Error("expected HasNext false at the end")
	}
}

package user

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/klinik/klinik/internal/platform/auth"
)

func TestMeReturnsPrincipal(t *testing.T) {
	repo := newMemRepo()
	h := NewHandler(NewService(repo, zerolog.Nop()))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	p := &auth.Principal{
		ID:         uuid.New(),
		ExternalID: "auth0|abc",
		Email:      "a@x.com",
		Role:       auth.RoleDoctor,
	}
	req = req.WithContext(auth.WithPrincipal(req.Context(), p))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Me(c); err != nil {
		t.Fatalf("Me: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	var got auth.Principal
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ExternalID != "auth0|abc" || got.Role != auth.RoleDoctor {
		t.Errorf("body = %+v", got)
	}
}

func TestMeWithoutPrincipal(t *testing.T) {
	h := NewHandler(NewService(newMemRepo(), zerolog.Nop()))

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Me(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
}

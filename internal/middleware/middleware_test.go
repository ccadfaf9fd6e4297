package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/crmweb/internal/middleware"
	"winsbygroup.com/crmweb/internal/version"
)

// Helper to create echo context with request/response
func newContext(method, path string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestTheme(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		want   string
	}{
		{"no cookie", "", "light"},
		{"dark", "dark", "dark"},
		{"light", "light", "light"},
		{"unknown value falls back", "neon", "light"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newContext(http.MethodGet, "/")
			if tt.cookie != "" {
				c.Request().AddCookie(&http.Cookie{Name: middleware.ThemeCookieName, Value: tt.cookie})
			}

			var got string
			handler := middleware.Theme()(func(c echo.Context) error {
				got = middleware.GetTheme(c.Request().Context())
				return nil
			})
			if err := handler(c); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if got != tt.want {
				t.Errorf("theme = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVersion(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/")

	var got string
	handler := middleware.Version()(func(c echo.Context) error {
		got = middleware.GetVersion(c.Request().Context())
		return nil
	})
	if err := handler(c); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got != version.Version {
		t.Errorf("version = %q, want %q", got, version.Version)
	}
}

func TestCSRF(t *testing.T) {
	t.Run("copies the echo token into the request context", func(t *testing.T) {
		e := echo.New()
		e.Use(middleware.CSRFProtect(false, nil))
		e.Use(middleware.CSRF())

		var token string
		e.GET("/", func(c echo.Context) error {
			token = middleware.GetCSRF(c.Request().Context())
			return c.NoContent(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rec.Code)
		}
		if token == "" {
			t.Error("expected a CSRF token in the request context")
		}

		var cookie *http.Cookie
		for _, c := range rec.Result().Cookies() {
			if c.Name == middleware.CSRFCookieName {
				cookie = c
			}
		}
		if cookie == nil || cookie.Value != token {
			t.Errorf("expected %s cookie to carry the token, got %+v", middleware.CSRFCookieName, cookie)
		}
	})

	t.Run("rejects a post without the token", func(t *testing.T) {
		e := echo.New()
		e.Use(middleware.CSRFProtect(false, nil))
		e.POST("/", func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})

		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("empty without echo's middleware", func(t *testing.T) {
		c, _ := newContext(http.MethodGet, "/")

		token := "unset"
		handler := middleware.CSRF()(func(c echo.Context) error {
			token = middleware.GetCSRF(c.Request().Context())
			return nil
		})
		if err := handler(c); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if token != "" {
			t.Errorf("expected empty token, got %q", token)
		}
	})
}

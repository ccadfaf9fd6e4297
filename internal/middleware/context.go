// Package middleware puts per-request layout values (theme, version, CSRF
// token) into the request context where the page templates read them.
package middleware

import (
	"context"

	"github.com/labstack/echo/v4"

	"winsbygroup.com/crmweb/internal/version"
)

// ThemeCookieName is written by app.js when the theme toggle is clicked
const ThemeCookieName = "theme"

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

type (
	themeKey   struct{}
	versionKey struct{}
)

// withValue stores val in the request context under key
func withValue(c echo.Context, key, val any) {
	c.SetRequest(c.Request().WithContext(context.WithValue(c.Request().Context(), key, val)))
}

// Theme reads the theme cookie. Missing or unknown values mean ThemeLight.
func Theme() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			theme := ThemeLight
			if cookie, err := c.Cookie(ThemeCookieName); err == nil && cookie.Value == ThemeDark {
				theme = ThemeDark
			}
			withValue(c, themeKey{}, theme)
			return next(c)
		}
	}
}

func GetTheme(ctx context.Context) string {
	if theme, ok := ctx.Value(themeKey{}).(string); ok {
		return theme
	}
	return ThemeLight
}

// Version records the build version shown in the page footer
func Version() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			withValue(c, versionKey{}, version.Version)
			return next(c)
		}
	}
}

func GetVersion(ctx context.Context) string {
	if v, ok := ctx.Value(versionKey{}).(string); ok {
		return v
	}
	return version.Version
}

// GetRepoURL is the footer link target
func GetRepoURL() string {
	return version.RepoURL
}

package middleware

import (
	"net/http"
	"sort"
	"strings"
	"time"

	"checky/internal/common"

	"github.com/labstack/echo/v4"
)

const HeaderAPIVersion = "X-API-Version"

// APIVersion describes one published version of the API
type APIVersion struct {
	Version    string     `json:"version"`
	Status     string     `json:"status"` // "active", "deprecated"
	SunsetDate *time.Time `json:"sunset_date,omitempty"`
	Message    string     `json:"message,omitempty"`
}

type VersionMiddleware struct {
	supportedVersions map[string]APIVersion
	defaultVersion    string
}

func NewVersionMiddleware() *VersionMiddleware {
	return &VersionMiddleware{
		supportedVersions: map[string]APIVersion{
			"v1": {Version: "v1", Status: "active", Message: "Current stable API version"},
		},
		defaultVersion: "v1",
	}
}

// APIVersionResolver honours a requested X-API-Version and stamps the served
// version on every response. Unknown versions are rejected.
func (vm *VersionMiddleware) APIVersionResolver() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			version := strings.ToLower(strings.TrimSpace(c.Request().Header.Get(HeaderAPIVersion)))
			if version == "" {
				version = vm.defaultVersion
			}
			ver, ok := vm.supportedVersions[version]
			c.Response().Header().Set(HeaderAPIVersion, vm.defaultVersion)
			if !ok {
				return c.JSON(http.StatusBadRequest, common.CreateErrorResponse("UNSUPPORTED_API_VERSION",
					"Unsupported API version", map[string]string{"supported_versions": strings.Join(vm.SupportedVersions(), ", ")}))
			}

			c.Response().Header().Set(HeaderAPIVersion, ver.Version)
			if ver.Status == "deprecated" {
				c.Response().Header().Set("X-API-Deprecated", "true")
				if ver.SunsetDate != nil {
					c.Response().Header().Set("X-API-Sunset", ver.SunsetDate.Format(time.RFC3339))
				}
			}
			c.Set("api_version", ver.Version)
			return next(c)
		}
	}
}

// SupportedVersions lists active and deprecated versions in order.
func (vm *VersionMiddleware) SupportedVersions() []string {
	versions := make([]string, 0, len(vm.supportedVersions))
	for version, info := range vm.supportedVersions {
		if info.Status == "active" || info.Status == "deprecated" {
			versions = append(versions, version)
		}
	}
	sort.Strings(versions)
	return versions
}

func (vm *VersionMiddleware) CurrentVersion() string {
	return vm.defaultVersion
}

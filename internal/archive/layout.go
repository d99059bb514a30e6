package archive

import (
	"fmt"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"
)

// Layout addresses the manifests of one camera:
// <Origin>/<YYYY>/<MM>/<DD>/<Camera>.json
type Layout struct {
	Origin string // scheme, host and optional base path
	Camera string
}

const manifestExt = ".json"

// ManifestURL returns the manifest URL for the calendar day of date. Only
// the year, month and day of date are used.
func (l Layout) ManifestURL(date time.Time) string {
	y, m, d := date.Date()
	return fmt.Sprintf("%s/%04d/%02d/%02d/%s%s",
		strings.TrimRight(strings.TrimSpace(l.Origin), "/"), y, int(m), d, l.Camera, manifestExt)
}

// IsZero reports whether the layout is missing an origin or camera.
func (l Layout) IsZero() bool {
	return strings.TrimSpace(l.Origin) == "" || strings.TrimSpace(l.Camera) == ""
}

// ParseManifestURL recovers the layout and calendar day from a manifest URL.
// The day is returned as midnight UTC.
func ParseManifestURL(raw string) (Layout, time.Time, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return Layout{}, time.Time{}, fmt.Errorf("parse manifest url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return Layout{}, time.Time{}, fmt.Errorf("manifest url %q is not absolute", raw)
	}

	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 4 {
		return Layout{}, time.Time{}, fmt.Errorf("manifest url %q: want .../YYYY/MM/DD/<camera>.json", raw)
	}
	tail := parts[len(parts)-4:]
	year, errY := strconv.Atoi(tail[0])
	month, errM := strconv.Atoi(tail[1])
	day, errD := strconv.Atoi(tail[2])
	if errY != nil || errM != nil || errD != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return Layout{}, time.Time{}, fmt.Errorf("manifest url %q: invalid date segments", raw)
	}

	base := &url.URL{Scheme: u.Scheme, Host: u.Host, User: u.User}
	origin := base.String()
	if prefix := parts[:len(parts)-4]; len(prefix) > 0 {
		origin += "/" + strings.Join(prefix, "/")
	}

	layout := Layout{Origin: origin, Camera: strings.TrimSuffix(tail[3], manifestExt)}
	return layout, time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC), nil
}

// CameraName returns the manifest file's basename without its extension.
func CameraName(manifestURL string) string {
	u, err := url.Parse(manifestURL)
	if err != nil {
		return ""
	}
	return strings.TrimSuffix(path.Base(u.Path), manifestExt)
}

package timeline

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/five82/lookout/internal/archive"
)

// Descriptor is a snapshot entry tagged with the manifest it was loaded from.
// The manifest fields are assigned by the store, never by the manifest itself.
type Descriptor struct {
	archive.Image
	ManifestURL   string
	ManifestLabel string
	ManifestDate  string // YYYY-MM-DD
}

// Tag attaches the owning manifest's url, label and date to each image.
func Tag(images []archive.Image, manifestURL, label, date string) []Descriptor {
	if len(images) == 0 {
		return nil
	}
	out := make([]Descriptor, len(images))
	for i, img := range images {
		out[i] = Descriptor{
			Image:         img,
			ManifestURL:   manifestURL,
			ManifestLabel: label,
			ManifestDate:  date,
		}
	}
	return out
}

var (
	hourPattern = regexp.MustCompile(`^[0-9]{3,4}$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

const dateLayout = "2006-01-02"

// ParseTime combines the manifest date and HHMM hour into a local datetime.
// A malformed hour reads as 0000; a missing or malformed date fails.
func ParseTime(d Descriptor, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.Local
	}
	if !datePattern.MatchString(d.ManifestDate) {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(dateLayout, d.ManifestDate, loc)
	if err != nil {
		return time.Time{}, false
	}

	hour := padHour(d.Hour.String())
	if hour == "" || !hourPattern.MatchString(hour) {
		hour = "0000"
	}
	hh, _ := strconv.Atoi(hour[:2])
	mm, _ := strconv.Atoi(hour[2:])

	y, m, dd := day.Date()
	return time.Date(y, m, dd, hh, mm, 0, 0, loc), true
}

// DisplayHour formats an HHMM hour as HH:MM, leaving anything else untouched.
func (d Descriptor) DisplayHour() string {
	raw := d.Hour.String()
	if !hourPattern.MatchString(raw) {
		return raw
	}
	hour := padHour(raw)
	return hour[:2] + ":" + hour[2:]
}

// Weekday returns the three letter weekday of the manifest date, or "".
func (d Descriptor) Weekday() string {
	if !datePattern.MatchString(d.ManifestDate) {
		return ""
	}
	day, err := time.Parse(dateLayout, d.ManifestDate)
	if err != nil {
		return ""
	}
	return day.Weekday().String()[:3]
}

// Caption is the human label shown for a frame: weekday, label and HH:MM.
func (d Descriptor) Caption() string {
	var b strings.Builder
	if wd := d.Weekday(); wd != "" {
		b.WriteString(wd)
		b.WriteByte(' ')
	}
	b.WriteString(d.ManifestLabel)
	b.WriteString(" — ")
	b.WriteString(d.DisplayHour())
	return b.String()
}

func padHour(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	for len(raw) < 4 {
		raw = "0" + raw
	}
	return raw
}

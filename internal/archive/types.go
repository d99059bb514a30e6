package archive

import (
	"bytes"
	"strconv"
	"strings"
)

// Size variants understood by Image.Path.
const (
	VariantSource = "src"
	Variant1080   = "src_1080"
)

// Manifest mirrors a daily manifest document. Only the first entry is used.
type Manifest []Day

// First returns the first day entry, or an empty Day when the manifest has none.
func (m Manifest) First() Day {
	if len(m) == 0 {
		return Day{}
	}
	return m[0]
}

// Day is one day entry of a manifest.
type Day struct {
	Label  string  `json:"label"`
	Date   string  `json:"date"`
	Images []Image `json:"images"`
}

// Image is a raw snapshot entry as published in the manifest.
type Image struct {
	Hour       Text   `json:"hour"`
	Src        string `json:"src"`
	Src1080    string `json:"src_1080"`
	HourFolder Text   `json:"hour_folder"`
}

// Path returns the raw value for a size variant. Unknown variants fall back
// to the source size.
func (i Image) Path(variant string) string {
	switch variant {
	case Variant1080:
		return i.Src1080
	default:
		return i.Src
	}
}

// Text is a manifest field that archives publish either as a JSON string or
// as a bare number ("hour": "0705" and "hour": 705 both occur).
type Text string

// UnmarshalJSON accepts strings, numbers and null.
func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}
	if data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*t = Text(strings.TrimSpace(s))
		return nil
	}
	if _, err := strconv.ParseFloat(string(data), 64); err != nil {
		return err
	}
	*t = Text(data)
	return nil
}

// String returns the raw text.
func (t Text) String() string {
	return string(t)
}

package logtail

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// Prefix is the tag written in front of every log line.
const Prefix = "lookout"

const stampLayout = "2006/01/02 15:04:05"

// Entry is one parsed log line.
type Entry struct {
	Time    time.Time // zero when the line carries no timestamp
	Message string
	Problem bool // a failure worth highlighting
}

var problemWords = []string{"failed", "error", "skipped", "unavailable"}

// Parse splits a line written by the standard logger with Prefix into its
// timestamp and message. Lines in other formats are kept whole.
func Parse(line string, loc *time.Location) Entry {
	if loc == nil {
		loc = time.Local
	}
	rest := strings.TrimPrefix(line, Prefix+" ")
	e := Entry{Message: rest}
	if len(rest) > len(stampLayout) {
		if t, err := time.ParseInLocation(stampLayout, rest[:len(stampLayout)], loc); err == nil {
			e.Time = t
			e.Message = strings.TrimSpace(rest[len(stampLayout):])
		}
	}
	lower := strings.ToLower(e.Message)
	for _, w := range problemWords {
		if strings.Contains(lower, w) {
			e.Problem = true
			break
		}
	}
	return e
}

// Read returns at most maxLines parsed entries from the end of the file at
// path. A missing file yields no entries.
func Read(path string, maxLines int) ([]Entry, error) {
	if maxLines <= 0 || path == "" {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		ring[idx] = line
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	entries := make([]Entry, count)
	start := 0
	if count == maxLines {
		start = idx
	}
	for i := 0; i < count; i++ {
		entries[i] = Parse(ring[(start+i)%maxLines], time.Local)
	}
	return entries, nil
}

// Package pins implements the modification-point codec: the Arabic prose
// template embedded in chat messages, and the JSON pin lists stored on
// revision requests. Decoding is best-effort; anything that does not match
// degrades to plain text or an empty list, never an error.
package pins

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// NoNotePlaceholder is substituted when a modification point carries no note.
const NoNotePlaceholder = "بدون ملاحظة"

var (
	indexRe    = regexp.MustCompile(`نقطة التعديل\s*#(\d+)`)
	locationRe = regexp.MustCompile(`الموقع:\s*\(([^)]*)\)`)
)

// Pin is one stored modification point on a revision request.
type Pin struct {
	Index    int    `json:"index"`
	Location string `json:"location"`
	Note     string `json:"note"`
}

// ModificationPoint is a structured point recovered from message prose.
type ModificationPoint struct {
	PinIndex   int    `json:"pin_index"`
	Location   string `json:"location"`
	Note       string `json:"note"`
	RawContent string `json:"raw_content"`
}

// Encode renders a modification point in the prose template. An empty note
// is rendered with the placeholder so Parse round-trips.
func Encode(pinIndex int, location, note string) string {
	note = strings.TrimSpace(note)
	if note == "" {
		note = NoNotePlaceholder
	}
	return fmt.Sprintf("نقطة التعديل #%d\nالموقع: (%s)\nالملاحظة: %s", pinIndex, location, note)
}

// Parse extracts a modification point from message content. It returns nil
// when the index or location marker is missing: the message is ordinary chat
// text and must render as such.
func Parse(content string) *ModificationPoint {
	idx := indexRe.FindStringSubmatch(content)
	loc := locationRe.FindStringSubmatch(content)
	if idx == nil || loc == nil {
		return nil
	}

	pinIndex, err := strconv.Atoi(idx[1])
	if err != nil {
		return nil
	}

	return &ModificationPoint{
		PinIndex:   pinIndex,
		Location:   loc[1],
		Note:       parseNote(content),
		RawContent: content,
	}
}

// parseNote captures the text after the note marker, stopping at the first
// blank line or a line starting with "هل". Absent or empty notes yield the
// placeholder.
func parseNote(content string) string {
	_, after, found := strings.Cut(content, "الملاحظة:")
	if !found {
		return NoNotePlaceholder
	}

	var kept []string
	for i, line := range strings.Split(after, "\n") {
		trimmed := strings.TrimSpace(line)
		if i > 0 && (trimmed == "" || strings.HasPrefix(trimmed, "هل")) {
			break
		}
		kept = append(kept, line)
	}

	note := strings.TrimSpace(strings.Join(kept, "\n"))
	if note == "" {
		return NoNotePlaceholder
	}
	return note
}

// DecodePins parses a JSON-encoded pin list. Invalid JSON or a non-array
// payload yields an empty list; callers never see a parse error.
func DecodePins(raw string) []Pin {
	var out []Pin
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return []Pin{}
	}
	if out == nil {
		return []Pin{}
	}
	return out
}

// EncodePins serializes a pin list for storage. A nil list encodes as [].
func EncodePins(list []Pin) string {
	if list == nil {
		list = []Pin{}
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

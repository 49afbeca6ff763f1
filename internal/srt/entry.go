package srt

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"dialogger/internal/transcribe"
)

// Entry is one numbered SRT cue.
type Entry struct {
	Index int
	Start string
	End   string
	Text  string
}

// NewEntry derives the cue for a segment.
func NewEntry(index int, seg transcribe.Segment) (Entry, error) {
	if index < 1 {
		return Entry{}, fmt.Errorf("srt entry: index must start at 1, got %d", index)
	}
	start, err := FormatTimestamp(seg.Start)
	if err != nil {
		return Entry{}, fmt.Errorf("srt entry %d start: %w", index, err)
	}
	end, err := FormatTimestamp(seg.End)
	if err != nil {
		return Entry{}, fmt.Errorf("srt entry %d end: %w", index, err)
	}
	return Entry{
		Index: index,
		Start: start,
		End:   end,
		Text:  cleanText(seg.Text),
	}, nil
}

// String renders the cue including its trailing blank line.
func (e Entry) String() string {
	var b strings.Builder
	b.Grow(len(e.Text) + 40)
	e.writeTo(&b)
	return b.String()
}

func (e Entry) writeTo(b *strings.Builder) {
	b.WriteString(strconv.Itoa(e.Index))
	b.WriteByte('\n')
	b.WriteString(e.Start)
	b.WriteString(" --> ")
	b.WriteString(e.End)
	b.WriteByte('\n')
	b.WriteString(e.Text)
	b.WriteString("\n\n")
}

// Entries numbers segments from 1 in input order.
func Entries(segments []transcribe.Segment) ([]Entry, error) {
	entries := make([]Entry, 0, len(segments))
	for i, seg := range segments {
		entry, err := NewEntry(i+1, seg)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func cleanText(text string) string {
	text = strings.ToValidUTF8(strings.TrimSpace(text), "\uFFFD")
	return norm.NFC.String(text)
}

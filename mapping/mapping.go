// Package mapping reads and writes the flat text files shared by the two commands:
// the participant list and the name,formId interchange file.
package mapping

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/Jumpaku/go-evalforms/errors"
)

const separator = ","

// Entry pairs a participant with the id of the form created for them.
type Entry struct {
	Name   string
	FormID string
}

func (e Entry) String() string {
	return e.Name + separator + e.FormID
}

// Line is one non-blank line of the interchange file split on commas.
// The fields are not validated; a name containing a comma yields more than two fields.
type Line struct {
	Number int
	Fields []string
}

// Label names the line in messages: its first field.
func (l Line) Label() string {
	if len(l.Fields) == 0 {
		return ""
	}
	return l.Fields[0]
}

// Entry returns the line as an Entry, or errors.ErrMalformedLine unless it has exactly two fields.
func (l Line) Entry() (Entry, error) {
	if len(l.Fields) != 2 {
		return Entry{}, fmt.Errorf("line %d: want 2 comma-separated fields, got %d: %w", l.Number, len(l.Fields), errors.ErrMalformedLine)
	}
	return Entry{Name: l.Fields[0], FormID: l.Fields[1]}, nil
}

// ReadParticipants returns the trimmed non-blank lines of the file at path, in order.
func ReadParticipants(path string) (names []string, err error) {
	err = eachLine(path, func(_ int, line string) {
		names = append(names, line)
	})
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("participants file %s: %w", path, errors.ErrEmptyInput)
	}
	return names, nil
}

// ReadEntries returns the trimmed non-blank lines of the interchange file at path, split on commas.
func ReadEntries(path string) (lines []Line, err error) {
	err = eachLine(path, func(number int, line string) {
		lines = append(lines, Line{Number: number, Fields: strings.Split(line, separator)})
	})
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("forms file %s: %w", path, errors.ErrEmptyInput)
	}
	return lines, nil
}

// WriteEntries overwrites the file at path with one entry per line.
func WriteEntries(path string, entries []Entry) error {
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		lines = append(lines, e.String())
	}
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return errors.NewIOError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}

var lineBreaks = strings.NewReplacer("\r\n", "\n", "\r", "\n")

// eachLine calls f for every non-blank line of path. "\r\n", "\r" and "\n" all end a line.
func eachLine(path string, f func(number int, line string)) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("file %s: %w", path, errors.ErrNotFound)
		}
		return errors.NewIOError(fmt.Sprintf("failed to read %s", path), err)
	}
	for i, line := range strings.Split(lineBreaks.Replace(string(data)), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		f(i+1, line)
	}
	return nil
}

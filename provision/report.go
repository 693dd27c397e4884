package provision

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/Jumpaku/go-evalforms/errors"
	"github.com/Jumpaku/go-evalforms/mapping"
)

// Stage names the step at which provisioning a participant failed.
type Stage string

const (
	StageCreate    Stage = "create"
	StageQuestions Stage = "questions"
	StagePublish   Stage = "publish"
	StageMove      Stage = "move"
	StageRename    Stage = "rename"
	StageShare     Stage = "share"
)

type Outcome struct {
	Participant  string
	Title        string
	FormID       string
	ResponderURI string
	// Recorded reports whether the form was created with its questions and belongs in the mapping file.
	Recorded bool
	Stage    Stage
	Err      error
}

type Report struct {
	Outcomes []Outcome
}

func (r *Report) Failed() int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Err != nil {
			n++
		}
	}
	return n
}

// WriteTo writes one console line per participant.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, o := range r.Outcomes {
		var n int
		var err error
		if o.Err != nil {
			n, err = fmt.Fprintf(w, "Ошибка при создании формы для %s: %v\n", o.Participant, o.Err)
		} else {
			n, err = fmt.Fprintf(w, "Создана форма для %s: link=%s\n", o.Participant, o.ResponderURI)
		}
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// Save overwrites the file at path with the recorded entries and reports the result on w.
// The write error is returned for logging only; it has already been reported on w.
func (r *Report) Save(w io.Writer, path string) error {
	if err := mapping.WriteEntries(path, r.Entries()); err != nil {
		fmt.Fprintf(w, "Ошибка при обновлении файла %s: %v\n", path, err)
		return err
	}
	fmt.Fprintf(w, "Файл '%s' обновлен в формате ФИО,formId.\n", path)
	return nil
}

// InputMessage returns the console message for a failure to read the participants file.
func InputMessage(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrNotFound):
		return "Файл с участниками не найден!"
	case stderrors.Is(err, errors.ErrEmptyInput):
		return "Файл пуст или содержит только пробелы."
	default:
		return fmt.Sprintf("Ошибка при чтении файла с участниками: %v", err)
	}
}

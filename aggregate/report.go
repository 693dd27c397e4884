package aggregate

import (
	stderrors "errors"
	"fmt"
	"io"

	"github.com/Jumpaku/go-evalforms/errors"
	"github.com/goccy/go-json"
)

// Entry is the outcome for one line of the interchange file.
type Entry struct {
	Line   int
	Name   string
	FormID string
	Result Result
	Err    error
}

type Report struct {
	// Expected is the number of responses each form must have.
	Expected int
	Entries  []Entry
}

func (r *Report) Failed() int {
	n := 0
	for _, e := range r.Entries {
		if e.Err != nil {
			n++
		}
	}
	return n
}

// String returns the console line of e.
func (e Entry) String() string {
	if e.Err != nil {
		return fmt.Sprintf("Ошибка при обработке формы для %s: %v", e.Name, e.Err)
	}
	switch e.Result.Verdict {
	case VerdictTooMany:
		return fmt.Sprintf("%s: Фальсификация данных. Голосов больше чем участников голосования.", e.Name)
	case VerdictTooFew:
		return fmt.Sprintf("%s: Фальсификация данных. Голосов меньше чем участников голосования.", e.Name)
	case VerdictScored:
		return fmt.Sprintf("%s %.2f", e.Name, e.Result.Overall)
	default:
		return fmt.Sprintf("%s: Нет данных для подсчета среднего балла.", e.Name)
	}
}

// WriteTo writes one console line per entry.
func (r *Report) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, e := range r.Entries {
		n, err := fmt.Fprintln(w, e.String())
		total += int64(n)
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type jsonEntry struct {
	Line        int       `json:"line"`
	Name        string    `json:"name"`
	FormID      string    `json:"form_id,omitempty"`
	Verdict     Verdict   `json:"verdict,omitempty"`
	Responses   int       `json:"responses"`
	PerQuestion []float64 `json:"per_question,omitempty"`
	Overall     *float64  `json:"overall,omitempty"`
	Error       string    `json:"error,omitempty"`
}

type jsonReport struct {
	Expected int         `json:"expected"`
	Entries  []jsonEntry `json:"entries"`
}

// WriteJSON writes the report as a single JSON document.
func (r *Report) WriteJSON(w io.Writer) error {
	out := jsonReport{Expected: r.Expected, Entries: []jsonEntry{}}
	for _, e := range r.Entries {
		je := jsonEntry{Line: e.Line, Name: e.Name, FormID: e.FormID}
		if e.Err != nil {
			je.Error = e.Err.Error()
		} else {
			je.Verdict = e.Result.Verdict
			je.Responses = e.Result.Responses
			if e.Result.Verdict == VerdictScored {
				overall := e.Result.Overall
				je.PerQuestion = e.Result.PerQuestion
				je.Overall = &overall
			}
		}
		out.Entries = append(out.Entries, je)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return errors.NewIOError("failed to write report", err)
	}
	return nil
}

// InputMessage returns the console message for a failure to read the interchange file.
func InputMessage(err error) string {
	switch {
	case stderrors.Is(err, errors.ErrNotFound):
		return "Файл с информацией о формах не найден!"
	case stderrors.Is(err, errors.ErrEmptyInput):
		return "Файл пуст или содержит некорректные данные."
	default:
		return fmt.Sprintf("Ошибка при чтении файла с информацией о формах: %v", err)
	}
}

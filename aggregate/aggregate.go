// Package aggregate scores the responses collected by the forms listed in the interchange file.
package aggregate

import (
	"context"

	evalforms "github.com/Jumpaku/go-evalforms"
	"github.com/Jumpaku/go-evalforms/logging"
	"github.com/Jumpaku/go-evalforms/mapping"
	"go.uber.org/zap"
)

type Aggregator struct {
	service evalforms.Service
	logger  *zap.Logger
}

func New(service evalforms.Service, logger *zap.Logger) *Aggregator {
	return &Aggregator{service: service, logger: logging.OrNop(logger)}
}

// Run evaluates every line in order. Every form is expected to have one response per line of
// the file, malformed lines included. A failure for one line is recorded in its Entry and does
// not stop the others.
func (a *Aggregator) Run(ctx context.Context, lines []mapping.Line) *Report {
	report := &Report{Expected: len(lines)}
	for _, line := range lines {
		e := a.evaluate(ctx, line, report.Expected)
		if e.Err != nil {
			a.logger.Error("failed to evaluate form",
				zap.Int("line", line.Number),
				zap.String("participant", e.Name),
				zap.String("form_id", e.FormID),
				zap.Error(e.Err))
		} else {
			a.logger.Info("evaluated form",
				zap.String("participant", e.Name),
				zap.String("form_id", e.FormID),
				zap.String("verdict", string(e.Result.Verdict)),
				zap.Int("responses", e.Result.Responses))
		}
		report.Entries = append(report.Entries, e)
	}
	return report
}

func (a *Aggregator) evaluate(ctx context.Context, line mapping.Line, expected int) Entry {
	e := Entry{Line: line.Number, Name: line.Label()}
	entry, err := line.Entry()
	if err != nil {
		e.Err = err
		return e
	}
	e.FormID = entry.FormID

	responses, err := a.service.ListResponses(ctx, entry.FormID)
	if err != nil {
		e.Err = err
		return e
	}
	e.Result = Evaluate(responses, expected)
	return e
}

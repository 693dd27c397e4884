package aggregate

import (
	"slices"
	"strconv"
	"strings"

	"github.com/Jumpaku/go-evalforms/form"
)

// Verdict classifies the responses of one form.
type Verdict string

const (
	// VerdictTooMany means the form has more responses than there are participants.
	VerdictTooMany Verdict = "1"
	// VerdictTooFew means the form has fewer responses than there are participants.
	VerdictTooFew Verdict = "2"
	VerdictScored Verdict = "scored"
	VerdictNoData Verdict = "no_data"
)

type Result struct {
	Verdict   Verdict
	Responses int
	Expected  int
	// PerQuestion holds the mean score of each answer position. Only set for VerdictScored.
	PerQuestion []float64
	// Overall is the mean of every collected score. Only set for VerdictScored.
	Overall float64
}

// Collect extracts the integer scores of every response. Answers of a response are visited in
// question id order; answers that are missing or not an integer are skipped, and responses
// without any score are dropped.
func Collect(responses []form.Response) [][]int {
	scores := [][]int{}
	for _, response := range responses {
		ids := make([]form.QuestionID, 0, len(response.Answers))
		for id := range response.Answers {
			ids = append(ids, id)
		}
		slices.Sort(ids)

		values := []int{}
		for _, id := range ids {
			texts := response.Answers[id]
			if len(texts) == 0 {
				continue
			}
			score, err := strconv.Atoi(strings.TrimSpace(texts[0]))
			if err != nil {
				continue
			}
			values = append(values, score)
		}
		if len(values) > 0 {
			scores = append(scores, values)
		}
	}
	return scores
}

// Evaluate classifies responses against the expected number of votes and scores them when
// the count matches exactly. The count is checked before the scores.
func Evaluate(responses []form.Response, expected int) Result {
	r := Result{Responses: len(responses), Expected: expected}
	switch {
	case len(responses) > expected:
		r.Verdict = VerdictTooMany
		return r
	case len(responses) < expected:
		r.Verdict = VerdictTooFew
		return r
	}

	scores := Collect(responses)
	if len(scores) == 0 {
		r.Verdict = VerdictNoData
		return r
	}
	r.Verdict = VerdictScored
	r.PerQuestion, r.Overall = means(scores)
	return r
}

// means averages position i over the score lists long enough to have it.
func means(scores [][]int) (perQuestion []float64, overall float64) {
	var sums []float64
	var counts []int
	var total float64
	var n int
	for _, values := range scores {
		for i, v := range values {
			if i == len(sums) {
				sums = append(sums, 0)
				counts = append(counts, 0)
			}
			sums[i] += float64(v)
			counts[i]++
			total += float64(v)
			n++
		}
	}
	perQuestion = make([]float64, len(sums))
	for i := range sums {
		perQuestion[i] = sums[i] / float64(counts[i])
	}
	return perQuestion, total / float64(n)
}

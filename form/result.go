package form

import "time"

type QuestionID = string

// Response is one submitted response to a form.
// Answers holds the text values of every answered question; a question answered
// without text values (e.g. a file upload) maps to an empty slice.
type Response struct {
	ResponseID        string
	RespondentEmail   string
	CreateTime        time.Time
	LastSubmittedTime time.Time
	Answers           map[QuestionID][]string
}

package form

import (
	"strconv"

	"google.golang.org/api/forms/v1"
)

const choiceTypeRadio = "RADIO"

// Item is a form item to be inserted by an Edit.
type Item struct {
	infoTitle    string
	questionItem *forms.QuestionItem
}

// ChoiceQuestion returns a required single-choice (radio) item with the given options in order, unshuffled.
func ChoiceQuestion(title string, options []string) Item {
	opts := make([]*forms.Option, 0, len(options))
	for _, o := range options {
		opts = append(opts, &forms.Option{Value: o})
	}
	return Item{
		infoTitle: title,
		questionItem: &forms.QuestionItem{
			Question: &forms.Question{
				Required: true,
				ChoiceQuestion: &forms.ChoiceQuestion{
					Type:            choiceTypeRadio,
					Options:         opts,
					Shuffle:         false,
					ForceSendFields: []string{"Shuffle"},
				},
			},
		},
	}
}

// NumberedOptions returns the option labels "1".."n".
func NumberedOptions(n int) []string {
	options := make([]string, 0, n)
	for i := 1; i <= n; i++ {
		options = append(options, strconv.Itoa(i))
	}
	return options
}

// InfoTitle returns the question text.
func (i Item) InfoTitle() string { return i.infoTitle }

func (i Item) toAPI() *forms.Item {
	return &forms.Item{
		Title:        i.infoTitle,
		QuestionItem: i.questionItem,
	}
}

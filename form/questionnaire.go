package form

// Questionnaire is the fixed set of scored questions put on every evaluation form.
type Questionnaire struct {
	Questions []string
	Options   int
}

// Edit builds the batch update that adds the questionnaire to an empty form.
// Every question is inserted at index 0, so the questions appear on the form
// in reverse authoring order.
func (q Questionnaire) Edit() *Edit {
	options := NumberedOptions(q.Options)
	edit := NewEdit()
	for _, question := range q.Questions {
		edit.CreateItem(0, ChoiceQuestion(question, options))
	}
	return edit
}

package form

import (
	"google.golang.org/api/forms/v1"
)

// Form is a created remote form.
type Form struct {
	ID           string
	Title        string
	ResponderURI string
}

// Edit collects item changes to be sent in a single batch update.
// It mirrors the resulting item order so callers can inspect it before sending.
type Edit struct {
	items          []Item
	updateRequests []*forms.Request
}

func NewEdit() *Edit {
	return &Edit{}
}

// Items returns the items in the order they will appear on the form,
// assuming the form had no items before the edit.
func (e *Edit) Items() (items []Item) {
	return append([]Item{}, e.items...)
}

// Requests returns the batch update requests in the order they were added.
func (e *Edit) Requests() []*forms.Request {
	return append([]*forms.Request{}, e.updateRequests...)
}

func (e *Edit) Len() int {
	return len(e.updateRequests)
}

// CreateItem inserts the item at index.
func (e *Edit) CreateItem(index int, item Item) *Edit {
	old := e.items
	e.items = append(append(append([]Item{}, old[:index]...), item), old[index:]...)

	e.updateRequests = append(e.updateRequests, &forms.Request{
		CreateItem: &forms.CreateItemRequest{
			Item: item.toAPI(),
			Location: &forms.Location{
				Index:           int64(index),
				ForceSendFields: []string{"Index"},
			},
		},
	})

	return e
}

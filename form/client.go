package form

import (
	"context"
	"time"

	"github.com/Jumpaku/go-evalforms/errors"
	"google.golang.org/api/forms/v1"
)

type Client struct {
	service *forms.Service
}

func New(service *forms.Service) *Client {
	return &Client{service: service}
}

// Create creates an empty form with the given title.
func (c *Client) Create(ctx context.Context, title string) (form Form, err error) {
	f, err := c.service.Forms.Create(&forms.Form{
		Info: &forms.Info{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return Form{}, errors.NewAPIError("failed to create form", err)
	}
	form = Form{ID: f.FormId, ResponderURI: f.ResponderUri, Title: title}
	if f.Info != nil && f.Info.Title != "" {
		form.Title = f.Info.Title
	}
	return form, nil
}

// BatchUpdate sends all requests of the edit in one batch update call.
func (c *Client) BatchUpdate(ctx context.Context, formID string, edit *Edit) (err error) {
	_, err = c.service.Forms.BatchUpdate(formID, &forms.BatchUpdateFormRequest{
		Requests: edit.Requests(),
	}).Context(ctx).Do()
	if err != nil {
		return errors.NewAPIError("failed to update form", err)
	}
	return nil
}

// SetPublishState publishes or unpublishes the form and controls whether it accepts responses.
func (c *Client) SetPublishState(ctx context.Context, formID string, state PublishState) (err error) {
	_, err = c.service.Forms.SetPublishSettings(formID, &forms.SetPublishSettingsRequest{
		PublishSettings: &forms.PublishSettings{
			PublishState: &forms.PublishState{
				IsAcceptingResponses: state == PublishStateAccepting,
				IsPublished:          state != PublishStateUnpublished,
				ForceSendFields:      []string{"IsAcceptingResponses", "IsPublished"},
			},
		},
		UpdateMask: "publish_state",
	}).Context(ctx).Do()
	if err != nil {
		return errors.NewAPIError("failed to change publish state", err)
	}
	return nil
}

// Responses lists every submitted response of the form, following all pages.
func (c *Client) Responses(ctx context.Context, formID string) (responses []Response, err error) {
	var raw []*forms.FormResponse
	err = c.service.Forms.Responses.
		List(formID).
		Pages(ctx, func(resp *forms.ListFormResponsesResponse) error {
			raw = append(raw, resp.Responses...)
			return nil
		})
	if err != nil {
		return nil, errors.NewAPIError("failed to list responses", err)
	}

	for _, response := range raw {
		responses = append(responses, newResponse(response))
	}
	return responses, nil
}

func newResponse(response *forms.FormResponse) Response {
	createTime, _ := time.Parse(time.RFC3339Nano, response.CreateTime)
	lastSubmittedTime, _ := time.Parse(time.RFC3339Nano, response.LastSubmittedTime)
	r := Response{
		ResponseID:        response.ResponseId,
		RespondentEmail:   response.RespondentEmail,
		CreateTime:        createTime,
		LastSubmittedTime: lastSubmittedTime,
		Answers:           map[QuestionID][]string{},
	}
	for questionID, answer := range response.Answers {
		texts := []string{}
		if answer.TextAnswers != nil {
			for _, textAnswer := range answer.TextAnswers.Answers {
				if textAnswer == nil {
					continue
				}
				texts = append(texts, textAnswer.Value)
			}
		}
		r.Answers[questionID] = texts
	}
	return r
}

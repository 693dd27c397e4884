// Package evalformstest provides an in-memory evalforms.Service for tests.
package evalformstest

import (
	"context"
	"fmt"
	"slices"

	evalforms "github.com/Jumpaku/go-evalforms"
	"github.com/Jumpaku/go-evalforms/drive"
	"github.com/Jumpaku/go-evalforms/errors"
	"github.com/Jumpaku/go-evalforms/form"
)

type Op string

const (
	OpCreateForm     Op = "create_form"
	OpBatchUpdate    Op = "batch_update"
	OpPublish        Op = "publish"
	OpListResponses  Op = "list_responses"
	OpParents        Op = "parents"
	OpUpdateMetadata Op = "update_metadata"
	OpEnsureFolder   Op = "ensure_folder"
	OpShare          Op = "share"
)

// Call records one operation. Key is the form title for OpCreateForm,
// the folder path for OpEnsureFolder and the form or file id otherwise.
type Call struct {
	Op  Op
	Key string
}

// FakeForm is the remote state of a form created through the fake.
type FakeForm struct {
	ID           string
	Title        string
	Name         string
	Parents      []drive.FileID
	Items        []form.Item
	Requests     int
	Permissions  []drive.Permission
	PublishState form.PublishState
}

// Fake implements evalforms.Service in memory. It is not safe for concurrent use.
type Fake struct {
	// RootFolderID is the parent of newly created forms.
	RootFolderID drive.FileID
	Forms        map[string]*FakeForm
	// Responses are returned by ListResponses, keyed by form id.
	Responses map[string][]form.Response
	Folders   map[drive.Path]drive.FileID
	// Errors makes the matching call fail with the given error.
	Errors map[Call]error
	Calls  []Call

	nextID int
}

var _ evalforms.Service = (*Fake)(nil)

func NewFake() *Fake {
	return &Fake{
		RootFolderID: "root",
		Forms:        map[string]*FakeForm{},
		Responses:    map[string][]form.Response{},
		Folders:      map[drive.Path]drive.FileID{},
		Errors:       map[Call]error{},
	}
}

// FailOn makes the call identified by op and key return err.
func (f *Fake) FailOn(op Op, key string, err error) *Fake {
	f.Errors[Call{Op: op, Key: key}] = err
	return f
}

// CallsOf returns the keys of the recorded calls of op, in order.
func (f *Fake) CallsOf(op Op) []string {
	keys := []string{}
	for _, c := range f.Calls {
		if c.Op == op {
			keys = append(keys, c.Key)
		}
	}
	return keys
}

func (f *Fake) record(ctx context.Context, op Op, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	call := Call{Op: op, Key: key}
	f.Calls = append(f.Calls, call)
	if err, ok := f.Errors[call]; ok {
		return errors.NewAPIError(fmt.Sprintf("fake %s %s", op, key), err)
	}
	return nil
}

func (f *Fake) CreateForm(ctx context.Context, title string) (form.Form, error) {
	if err := f.record(ctx, OpCreateForm, title); err != nil {
		return form.Form{}, err
	}
	f.nextID++
	id := fmt.Sprintf("form-%d", f.nextID)
	f.Forms[id] = &FakeForm{
		ID:           id,
		Title:        title,
		Name:         "Untitled form",
		Parents:      []drive.FileID{f.RootFolderID},
		PublishState: form.PublishStateUnpublished,
	}
	return form.Form{ID: id, Title: title, ResponderURI: "https://forms.example/" + id + "/viewform"}, nil
}

func (f *Fake) BatchUpdate(ctx context.Context, formID string, edit *form.Edit) error {
	if err := f.record(ctx, OpBatchUpdate, formID); err != nil {
		return err
	}
	ff, ok := f.Forms[formID]
	if !ok {
		return errors.NewAPIError("fake batch update", errors.ErrNotFound)
	}
	ff.Items = append(edit.Items(), ff.Items...)
	ff.Requests += edit.Len()
	return nil
}

func (f *Fake) Publish(ctx context.Context, formID string, state form.PublishState) error {
	if err := f.record(ctx, OpPublish, formID); err != nil {
		return err
	}
	ff, ok := f.Forms[formID]
	if !ok {
		return errors.NewAPIError("fake publish", errors.ErrNotFound)
	}
	ff.PublishState = state
	return nil
}

func (f *Fake) ListResponses(ctx context.Context, formID string) ([]form.Response, error) {
	if err := f.record(ctx, OpListResponses, formID); err != nil {
		return nil, err
	}
	return slices.Clone(f.Responses[formID]), nil
}

func (f *Fake) Parents(ctx context.Context, fileID drive.FileID) ([]drive.FileID, error) {
	if err := f.record(ctx, OpParents, string(fileID)); err != nil {
		return nil, err
	}
	ff, ok := f.Forms[string(fileID)]
	if !ok {
		return nil, errors.NewAPIError("fake parents", errors.ErrNotFound)
	}
	return slices.Clone(ff.Parents), nil
}

func (f *Fake) UpdateMetadata(ctx context.Context, fileID drive.FileID, meta drive.Metadata) error {
	if err := f.record(ctx, OpUpdateMetadata, string(fileID)); err != nil {
		return err
	}
	ff, ok := f.Forms[string(fileID)]
	if !ok {
		return errors.NewAPIError("fake update metadata", errors.ErrNotFound)
	}
	if meta.Name != "" {
		ff.Name = meta.Name
	}
	parents := slices.DeleteFunc(slices.Clone(ff.Parents), func(p drive.FileID) bool {
		return slices.Contains(meta.RemoveParents, p)
	})
	ff.Parents = append(parents, meta.AddParents...)
	return nil
}

func (f *Fake) EnsureFolder(ctx context.Context, rootID drive.FileID, path drive.Path) (drive.FileID, error) {
	if err := f.record(ctx, OpEnsureFolder, string(path)); err != nil {
		return "", err
	}
	if id, ok := f.Folders[path]; ok {
		return id, nil
	}
	f.nextID++
	id := drive.FileID(fmt.Sprintf("folder-%d", f.nextID))
	f.Folders[path] = id
	return id, nil
}

func (f *Fake) Share(ctx context.Context, fileID drive.FileID, permission drive.Permission) error {
	if err := f.record(ctx, OpShare, string(fileID)); err != nil {
		return err
	}
	ff, ok := f.Forms[string(fileID)]
	if !ok {
		return errors.NewAPIError("fake share", errors.ErrNotFound)
	}
	ff.Permissions = append(ff.Permissions, permission)
	return nil
}

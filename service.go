package evalforms

import (
	"context"

	"github.com/Jumpaku/go-evalforms/drive"
	"github.com/Jumpaku/go-evalforms/form"
)

// Service is the set of remote operations used by the provisioner and the aggregator.
type Service interface {
	// CreateForm creates an empty form titled title.
	CreateForm(ctx context.Context, title string) (form.Form, error)
	// BatchUpdate applies every request of edit to the form in one call.
	BatchUpdate(ctx context.Context, formID string, edit *form.Edit) error
	// Publish changes whether the form is published and accepting responses.
	Publish(ctx context.Context, formID string, state form.PublishState) error
	// ListResponses returns all submitted responses of the form.
	ListResponses(ctx context.Context, formID string) ([]form.Response, error)
	// Parents returns the folders currently containing the resource.
	Parents(ctx context.Context, fileID drive.FileID) ([]drive.FileID, error)
	// UpdateMetadata renames the resource and/or changes its parents.
	UpdateMetadata(ctx context.Context, fileID drive.FileID, meta drive.Metadata) error
	// EnsureFolder resolves path below rootID, creating missing folders, and returns the last folder id.
	EnsureFolder(ctx context.Context, rootID drive.FileID, path drive.Path) (drive.FileID, error)
	// Share grants permission on the resource.
	Share(ctx context.Context, fileID drive.FileID, permission drive.Permission) error
}

package evalforms

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/Jumpaku/go-evalforms/drive"
	"github.com/Jumpaku/go-evalforms/errors"
	"github.com/Jumpaku/go-evalforms/form"
	"golang.org/x/oauth2/google"
	"golang.org/x/time/rate"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/forms/v1"
	"google.golang.org/api/option"
)

// Google implements Service with the Google Forms and Google Drive APIs.
// Either client may be nil; operations needing a missing client fail with errors.ErrUnsupported.
type Google struct {
	forms   *form.Client
	drive   *drive.DriveFS
	limiter *rate.Limiter
}

var _ Service = (*Google)(nil)

type Option func(*Google)

// WithRequestsPerMinute paces remote calls to at most n per minute. n <= 0 disables pacing.
func WithRequestsPerMinute(n int) Option {
	return func(g *Google) {
		if n <= 0 {
			g.limiter = rate.NewLimiter(rate.Inf, 0)
			return
		}
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

func NewGoogle(formsClient *form.Client, driveFS *drive.DriveFS, opts ...Option) *Google {
	g := &Google{
		forms:   formsClient,
		drive:   driveFS,
		limiter: rate.NewLimiter(rate.Inf, 0),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Dial connects to the APIs allowed by scopes, authenticating with the service-account key at
// credentialsFile, or with Application Default Credentials when credentialsFile is empty.
// The Drive client is only created when scopes grant Drive access.
func Dial(ctx context.Context, credentialsFile string, scopes []string, opts ...Option) (*Google, error) {
	client, err := httpClient(ctx, credentialsFile, scopes)
	if err != nil {
		return nil, err
	}

	formsService, err := forms.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, errors.NewAPIError("failed to create forms service", err)
	}

	var driveFS *drive.DriveFS
	if slices.Contains(scopes, driveapi.DriveScope) || slices.Contains(scopes, driveapi.DriveFileScope) {
		driveService, err := driveapi.NewService(ctx, option.WithHTTPClient(client))
		if err != nil {
			return nil, errors.NewAPIError("failed to create drive service", err)
		}
		driveFS = drive.New(driveService)
	}

	return NewGoogle(form.New(formsService), driveFS, opts...), nil
}

func httpClient(ctx context.Context, credentialsFile string, scopes []string) (*http.Client, error) {
	if credentialsFile == "" {
		client, err := google.DefaultClient(ctx, scopes...)
		if err != nil {
			return nil, fmt.Errorf("failed to find default credentials: %w", err)
		}
		return client, nil
	}
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, errors.NewIOError(fmt.Sprintf("failed to read credentials %s", credentialsFile), err)
	}
	cfg, err := google.JWTConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, fmt.Errorf("failed to parse credentials %s: %w", credentialsFile, err)
	}
	return cfg.Client(ctx), nil
}

func (g *Google) CreateForm(ctx context.Context, title string) (form.Form, error) {
	if err := g.ready(ctx, g.forms != nil); err != nil {
		return form.Form{}, err
	}
	return g.forms.Create(ctx, title)
}

func (g *Google) BatchUpdate(ctx context.Context, formID string, edit *form.Edit) error {
	if err := g.ready(ctx, g.forms != nil); err != nil {
		return err
	}
	return g.forms.BatchUpdate(ctx, formID, edit)
}

func (g *Google) Publish(ctx context.Context, formID string, state form.PublishState) error {
	if err := g.ready(ctx, g.forms != nil); err != nil {
		return err
	}
	return g.forms.SetPublishState(ctx, formID, state)
}

func (g *Google) ListResponses(ctx context.Context, formID string) ([]form.Response, error) {
	if err := g.ready(ctx, g.forms != nil); err != nil {
		return nil, err
	}
	return g.forms.Responses(ctx, formID)
}

func (g *Google) Parents(ctx context.Context, fileID drive.FileID) ([]drive.FileID, error) {
	if err := g.ready(ctx, g.drive != nil); err != nil {
		return nil, err
	}
	return g.drive.Parents(ctx, fileID)
}

func (g *Google) UpdateMetadata(ctx context.Context, fileID drive.FileID, meta drive.Metadata) error {
	if err := g.ready(ctx, g.drive != nil); err != nil {
		return err
	}
	_, err := g.drive.Update(ctx, fileID, meta)
	return err
}

func (g *Google) EnsureFolder(ctx context.Context, rootID drive.FileID, path drive.Path) (drive.FileID, error) {
	if err := g.ready(ctx, g.drive != nil); err != nil {
		return "", err
	}
	info, err := g.drive.MkdirAll(ctx, rootID, path)
	if err != nil {
		return "", err
	}
	return info.ID, nil
}

func (g *Google) Share(ctx context.Context, fileID drive.FileID, permission drive.Permission) error {
	if err := g.ready(ctx, g.drive != nil); err != nil {
		return err
	}
	_, err := g.drive.PermSet(ctx, fileID, permission)
	return err
}

func (g *Google) ready(ctx context.Context, available bool) error {
	if !available {
		return fmt.Errorf("client not configured for this operation: %w", errors.ErrUnsupported)
	}
	if err := g.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for rate limiter: %w", err)
	}
	return nil
}

package drive

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	evalerrors "github.com/Jumpaku/go-evalforms/errors"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
)

// DriveFS provides the Drive operations needed to file created forms:
// reading parents, moving and renaming resources, creating folders and sharing.
type DriveFS struct {
	service *drive.Service
}

// New creates a new DriveFS instance with the given drive.Service.
func New(service *drive.Service) *DriveFS {
	return &DriveFS{service: service}
}

// Info returns the FileInfo for the resource with the given fileID.
func (s *DriveFS) Info(ctx context.Context, fileID FileID) (info FileInfo, err error) {
	f, found, err := findByID(ctx, s.service, string(fileID))
	if err != nil {
		return FileInfo{}, fmt.Errorf("failed to get file info '%s': %w", fileID, err)
	}
	if !found {
		return FileInfo{}, fmt.Errorf("file not found: %s: %w", fileID, evalerrors.ErrNotFound)
	}
	return newFileInfo(f), nil
}

// Parents returns the ids of the folders that currently contain the resource.
func (s *DriveFS) Parents(ctx context.Context, fileID FileID) (parents []FileID, err error) {
	f, err := s.service.Files.Get(string(fileID)).
		SupportsAllDrives(true).
		Fields("parents").
		Context(ctx).
		Do()
	if err != nil {
		return nil, evalerrors.NewAPIError("failed to get parents", err)
	}
	return toFileIDs(f.Parents), nil
}

// Update applies the given metadata change to the resource with the given fileID and returns its new state.
// An empty change sends no update.
func (s *DriveFS) Update(ctx context.Context, fileID FileID, meta Metadata) (info FileInfo, err error) {
	if meta.IsEmpty() {
		return s.Info(ctx, fileID)
	}
	call := s.service.Files.Update(string(fileID), &drive.File{Name: meta.Name}).
		SupportsAllDrives(true).
		Fields(driveFileFields).
		Context(ctx)
	if len(meta.AddParents) > 0 {
		call = call.AddParents(joinFileIDs(meta.AddParents))
	}
	if len(meta.RemoveParents) > 0 {
		call = call.RemoveParents(joinFileIDs(meta.RemoveParents))
	}
	f, err := call.Do()
	if err != nil {
		return FileInfo{}, evalerrors.NewAPIError("failed to update file", err)
	}
	return newFileInfo(f), nil
}

// MkdirAll creates all folders along the given path below rootID if they do not already exist
// and returns the FileInfo of the last folder. rootID must be a folder.
func (s *DriveFS) MkdirAll(ctx context.Context, rootID FileID, path Path) (info FileInfo, err error) {
	parts, err := validateAndSplitPath(string(path))
	if err != nil {
		return FileInfo{}, fmt.Errorf("path validation failed: %w", err)
	}
	info, err = s.Info(ctx, rootID)
	if err != nil {
		return FileInfo{}, err
	}
	if !info.IsFolder() {
		return FileInfo{}, fmt.Errorf("root is not a folder: %s (%s): %w", rootID, info.Mime, evalerrors.ErrInvalidPath)
	}
	currentID := string(rootID)
	for _, p := range parts {
		files, err := findFoldersByNameIn(ctx, s.service, currentID, p)
		if err != nil {
			return FileInfo{}, fmt.Errorf("failed to find folder '%s' in '%s': %w", p, currentID, err)
		}
		if len(files) > 1 {
			return FileInfo{}, fmt.Errorf("multiple folders '%s' already exist in '%s': %w", p, currentID, evalerrors.ErrAlreadyExists)
		}
		var file *drive.File
		if len(files) == 1 {
			file = files[0]
		} else if file, err = createFolderIn(ctx, s.service, currentID, p); err != nil {
			return FileInfo{}, fmt.Errorf("failed to create folder '%s' in '%s': %w", p, currentID, err)
		}
		info = newFileInfo(file)
		currentID = file.Id
	}
	return info, nil
}

// PermSet grants the permission on the resource with the given fileID.
// Existing permissions of the same grantee are updated in place, otherwise a new one is created.
func (s *DriveFS) PermSet(ctx context.Context, fileID FileID, permission Permission) (permissions []Permission, err error) {
	perms, err := listPermissions(ctx, s.service, string(fileID))
	if err != nil {
		return nil, fmt.Errorf("failed to set permissions: %w", err)
	}

	var updated bool
	for _, perm := range perms {
		if granteeMatch(perm, permission.Grantee()) {
			updated = true
			perm.AllowFileDiscovery = permission.AllowFileDiscovery()
			perm.Role = string(permission.Role())
			if err := updatePermission(ctx, s.service, string(fileID), perm); err != nil {
				return nil, err
			}
		}
	}

	if !updated {
		perm, err := createPermission(ctx, s.service, string(fileID), toDrivePermission(permission))
		if err != nil {
			return nil, err
		}
		perms = append(perms, perm)
	}

	return newPermissions(perms), nil
}

func validateAndSplitPath(path string) (parts []string, err error) {
	if path == "" {
		return nil, fmt.Errorf("empty path: %w", evalerrors.ErrInvalidPath)
	}
	if !strings.HasPrefix(path, "/") {
		return nil, fmt.Errorf("path must be absolute and start with '/': %w", evalerrors.ErrInvalidPath)
	}

	for _, p := range strings.Split(path, "/") {
		if p == "." || p == ".." {
			return nil, fmt.Errorf("relative path components are not allowed: %w", evalerrors.ErrInvalidPath)
		}
		if p == "" {
			continue
		}
		parts = append(parts, p)
	}

	return parts, nil
}

func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return s
}

const (
	driveFileFields        = "parents,id,name,mimeType,modifiedTime,webViewLink"
	driveFilesFields       = "nextPageToken,files(parents,id,name,mimeType,modifiedTime,webViewLink)"
	drivePermissionFields  = "id,type,emailAddress,domain,role,allowFileDiscovery"
	drivePermissionsFields = "nextPageToken,permissions(id,type,emailAddress,domain,role,allowFileDiscovery)"
)

func newFileInfo(f *drive.File) FileInfo {
	modTime, _ := time.Parse(time.RFC3339, f.ModifiedTime)
	return FileInfo{
		Name:        f.Name,
		ID:          FileID(f.Id),
		Mime:        f.MimeType,
		Parents:     toFileIDs(f.Parents),
		ModTime:     modTime,
		WebViewLink: f.WebViewLink,
	}
}

func toFileIDs(ids []string) []FileID {
	out := make([]FileID, 0, len(ids))
	for _, id := range ids {
		out = append(out, FileID(id))
	}
	return out
}

func joinFileIDs(ids []FileID) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, string(id))
	}
	return strings.Join(parts, ",")
}

func findByID(ctx context.Context, s *drive.Service, fileID string) (file *drive.File, found bool, err error) {
	file, err = s.Files.Get(fileID).
		SupportsAllDrives(true).
		Fields(driveFileFields).
		Context(ctx).
		Do()
	if err != nil {
		var gErr *googleapi.Error
		if errors.As(err, &gErr) && gErr.Code == http.StatusNotFound {
			return nil, false, nil
		}
		return nil, false, evalerrors.NewAPIError("failed to get file", err)
	}
	return file, true, nil
}

func findFoldersByNameIn(ctx context.Context, s *drive.Service, parentID, name string) (files []*drive.File, err error) {
	q := fmt.Sprintf("name = '%s' and '%s' in parents and mimeType = '%s' and trashed = false",
		escapeQuery(name), escapeQuery(parentID), mimeTypeGoogleAppFolder)
	err = s.Files.List().
		SupportsAllDrives(true).
		IncludeItemsFromAllDrives(true).
		Q(q).
		Fields(driveFilesFields).
		Pages(ctx, func(list *drive.FileList) error {
			files = append(files, list.Files...)
			return nil
		})
	if err != nil {
		return nil, evalerrors.NewAPIError("failed to query files", err)
	}
	return files, nil
}

func createFolderIn(ctx context.Context, s *drive.Service, parentID, name string) (file *drive.File, err error) {
	file, err = s.Files.Create(&drive.File{
		Name:     name,
		MimeType: mimeTypeGoogleAppFolder,
		Parents:  []string{parentID},
	}).
		SupportsAllDrives(true).
		Fields(driveFileFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, evalerrors.NewAPIError("failed to create folder", err)
	}
	return file, nil
}

func toDrivePermission(permission Permission) *drive.Permission {
	var email, domain, granteeType string
	switch grantee := permission.Grantee().(type) {
	case GranteeUser:
		email, granteeType = grantee.Email, granteeTypeUser
	case GranteeGroup:
		email, granteeType = grantee.Email, granteeTypeGroup
	case GranteeDomain:
		domain, granteeType = grantee.Domain, granteeTypeDomain
	case GranteeAnyone:
		granteeType = granteeTypeAnyone
	}
	return &drive.Permission{
		AllowFileDiscovery: permission.AllowFileDiscovery(),
		EmailAddress:       email,
		Domain:             domain,
		Role:               string(permission.Role()),
		Type:               granteeType,
	}
}

func newPermissions(perms []*drive.Permission) (permissions []Permission) {
	for _, perm := range perms {
		var grantee Grantee
		switch perm.Type {
		case granteeTypeUser:
			grantee = User(perm.EmailAddress)
		case granteeTypeGroup:
			grantee = Group(perm.EmailAddress)
		case granteeTypeDomain:
			grantee = Domain(perm.Domain)
		case granteeTypeAnyone:
			grantee = Anyone()
		}
		permissions = append(permissions, permission{
			grantee:            grantee,
			role:               Role(perm.Role),
			id:                 PermissionID(perm.Id),
			allowFileDiscovery: perm.AllowFileDiscovery,
		})
	}
	return permissions
}

func granteeMatch(perm *drive.Permission, grantee Grantee) bool {
	switch grantee := grantee.(type) {
	case GranteeUser:
		return perm.Type == granteeTypeUser && perm.EmailAddress == grantee.Email
	case GranteeGroup:
		return perm.Type == granteeTypeGroup && perm.EmailAddress == grantee.Email
	case GranteeDomain:
		return perm.Type == granteeTypeDomain && perm.Domain == grantee.Domain
	case GranteeAnyone:
		return perm.Type == granteeTypeAnyone
	}
	return false
}

func listPermissions(ctx context.Context, s *drive.Service, fileID string) ([]*drive.Permission, error) {
	var permissions []*drive.Permission
	err := s.Permissions.List(fileID).
		SupportsAllDrives(true).
		Fields(drivePermissionsFields).
		Pages(ctx, func(list *drive.PermissionList) error {
			permissions = append(permissions, list.Permissions...)
			return nil
		})
	if err != nil {
		return nil, evalerrors.NewAPIError("failed to list permissions", err)
	}
	return permissions, nil
}

func updatePermission(ctx context.Context, s *drive.Service, fileID string, perm *drive.Permission) (err error) {
	_, err = s.Permissions.Update(fileID, perm.Id, &drive.Permission{
		Role:               perm.Role,
		AllowFileDiscovery: perm.AllowFileDiscovery,
	}).
		SupportsAllDrives(true).
		Fields(drivePermissionFields).
		Context(ctx).
		Do()
	if err != nil {
		return evalerrors.NewAPIError("failed to update permission", err)
	}
	return nil
}

func createPermission(ctx context.Context, s *drive.Service, fileID string, perm *drive.Permission) (permission *drive.Permission, err error) {
	permission, err = s.Permissions.Create(fileID, perm).
		SupportsAllDrives(true).
		SendNotificationEmail(false).
		Fields(drivePermissionFields).
		Context(ctx).
		Do()
	if err != nil {
		return nil, evalerrors.NewAPIError("failed to create permission", err)
	}
	return permission, nil
}

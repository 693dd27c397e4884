package drive

import "time"

const mimeTypeGoogleAppFolder = "application/vnd.google-apps.folder"

// FileID identifies a Drive resource. A Google Form shares its id with the Drive file that backs it.
type FileID string

type FileInfo struct {
	Name        string
	ID          FileID
	Mime        string
	Parents     []FileID
	ModTime     time.Time
	WebViewLink string
}

func (i FileInfo) IsFolder() bool {
	return i.Mime == mimeTypeGoogleAppFolder
}

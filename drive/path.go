package drive

// Path represents an absolute folder path in Google Drive, resolved from a root folder.
// Paths must start with '/' and use forward slashes as separators (e.g., "/2026/jury").
// Relative path components like "." and ".." are not allowed.
type Path string

package model

import (
	"io"
)

// UploadFileData is a blob handed to a mirror Storer.
type UploadFileData struct {
	FileKey     string
	ContentType string
	File        io.ReadSeeker
	Size        int64
}

// Upload is one file part received from a multipart form. Filename is the
// raw client value, directory components included.
type Upload struct {
	Field    string
	Filename string
	Data     []byte
}

// FileResult is the outcome of processing or committing one file.
type FileResult struct {
	// Name is the client supplied filename or the selected path
	Name string `json:"name"`
	// Path of the produced file relative to the application root
	Path string `json:"path,omitempty"`
	Size int64  `json:"size,omitempty"`
	MIME string `json:"mime,omitempty"`
	// URL when the file was mirrored
	URL string `json:"url,omitempty"`
	Err error  `json:"-"`
}

// BatchResult groups per-file outcomes, in submission order.
type BatchResult struct {
	Succeeded []FileResult `json:"succeeded"`
	Failed    []FileResult `json:"failed"`
	Skipped   []FileResult `json:"skipped"`
}

// Add files r under Succeeded or Failed depending on r.Err.
func (b *BatchResult) Add(r FileResult) {
	if r.Err != nil {
		b.Failed = append(b.Failed, r)
		return
	}
	b.Succeeded = append(b.Succeeded, r)
}

// Skip records a file that was deliberately not processed.
func (b *BatchResult) Skip(r FileResult) {
	b.Skipped = append(b.Skipped, r)
}

// Paths returns the paths of the succeeded files.
func (b BatchResult) Paths() []string {
	paths := make([]string, 0, len(b.Succeeded))
	for _, r := range b.Succeeded {
		paths = append(paths, r.Path)
	}
	return paths
}

// FolderResult is a BatchResult for a folder upload.
type FolderResult struct {
	BatchResult
	// Folder is the inferred source folder name
	Folder string `json:"folder"`
	// EditedDir is the name of the output directory, edited_<Folder>
	EditedDir string `json:"editedDir"`
}

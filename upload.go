package imageeditor

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/staticbackendhq/imageeditor/model"
)

// readUploads returns the file parts of r for the given form fields, in
// the order they were sent. The standard multipart form parsing keeps only
// the base name of each file; folder uploads need the full relative path so
// the parts are read here with their raw filename.
func readUploads(r *http.Request, fields ...string) ([]model.Upload, error) {
	mr, err := r.MultipartReader()
	if errors.Is(err, http.ErrNotMultipart) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	want := make(map[string]bool)
	for _, f := range fields {
		want[f] = true
	}

	var uploads []model.Upload
	for {
		p, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			return uploads, err
		}

		filename, ok := rawFilename(p)
		if !ok || !want[p.FormName()] {
			p.Close()
			continue
		}

		data, err := io.ReadAll(p)
		p.Close()
		if err != nil {
			return uploads, err
		}

		uploads = append(uploads, model.Upload{
			Field:    p.FormName(),
			Filename: filename,
			Data:     data,
		})
	}

	return uploads, nil
}

func rawFilename(p *multipart.Part) (string, bool) {
	_, params, err := mime.ParseMediaType(p.Header.Get("Content-Disposition"))
	if err != nil {
		return "", false
	}

	filename, ok := params["filename"]
	return filename, ok
}

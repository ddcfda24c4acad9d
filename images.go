package imageeditor

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path"

	"github.com/staticbackendhq/imageeditor/editor"
	"github.com/staticbackendhq/imageeditor/logger"
	"github.com/staticbackendhq/imageeditor/model"
)

type images struct {
	editor *editor.Editor
	log    *logger.Logger
}

// previewItem is one processed image shown in the selection view.
type previewItem struct {
	Name string
	Path string
	URL  string
	Size int64
}

func (img *images) index(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}

	render(w, r, "index.html", "", nil, img.log)
}

func (img *images) uploadImage(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		render(w, r, "upload_image.html", "Upload an image", nil, img.log)
		return
	}

	uploads, err := readUploads(r, "image")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// one image only, extra parts of the field are ignored
	if len(uploads) > 1 {
		uploads = uploads[:1]
	}

	res := img.editor.ProcessImages(r.Context(), uploads)
	img.renderPreview(w, r, res)
}

func (img *images) uploadImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uploads, err := readUploads(r, "images")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := img.editor.ProcessImages(r.Context(), uploads)
	img.renderPreview(w, r, res)
}

func (img *images) renderPreview(w http.ResponseWriter, r *http.Request, res model.BatchResult) {
	if len(res.Failed) > 0 {
		img.log.Warn().Int("failed", len(res.Failed)).Int("processed", len(res.Succeeded)).Msg("some images could not be processed")
	}

	items := make([]previewItem, 0, len(res.Succeeded))
	for _, f := range res.Succeeded {
		items = append(items, previewItem{
			Name: path.Base(f.Path),
			Path: f.Path,
			URL:  (&url.URL{Path: "/" + f.Path}).String(),
			Size: f.Size,
		})
	}

	render(w, r, "select_images.html", "Select images", items, img.log)
}

func (img *images) uploadFolder(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		render(w, r, "upload_folder.html", "Upload a folder", nil, img.log)
		return
	}

	uploads, err := readUploads(r, "folder")
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if len(uploads) == 0 {
		render(w, r, "upload_folder.html", "Upload a folder", nil, img.log)
		return
	}

	res := img.editor.ProcessFolder(r.Context(), uploads)

	img.log.Info().
		Str("folder", res.EditedDir).
		Int("processed", len(res.Succeeded)).
		Int("failed", len(res.Failed)).
		Int("skipped", len(res.Skipped)).
		Msg("folder processed")

	renderMessage(w, r, fmt.Sprintf("Folder processed and saved to %s!", res.EditedDir), img.log)
}

func (img *images) saveImages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	folder, err := editor.CleanFolder(r.Form.Get("folder_name"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res := img.editor.Commit(r.Context(), folder, r.Form["selected_images"])
	if len(res.Failed) > 0 {
		img.log.Warn().Int("failed", len(res.Failed)).Int("saved", len(res.Succeeded)).Str("folder", folder).Msg("some images could not be saved")
	}

	renderMessage(w, r, fmt.Sprintf("Selected images have been saved to the folder: %s", folder), img.log)
}

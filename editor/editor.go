// Package editor stages uploaded images, flips them and commits the
// selected outputs into destination folders. All filesystem access goes
// through a storage.Root so the whole flow runs against any afero.Fs.
package editor

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/staticbackendhq/imageeditor/logger"
	"github.com/staticbackendhq/imageeditor/model"
	"github.com/staticbackendhq/imageeditor/storage"
	"github.com/staticbackendhq/imageeditor/transform"
)

const (
	// FlippedPrefix is prepended to the base name of every output
	FlippedPrefix = "flipped_"
	// EditedPrefix is prepended to the folder name of folder uploads
	EditedPrefix = "edited_"
	// DefaultFolder is used when no folder name can be determined
	DefaultFolder = "default"
)

// Editor is shared by all handlers, it holds no per-request state.
type Editor struct {
	Root *storage.Root
	Log  *logger.Logger

	// Mirror if set receives a copy of every committed image
	Mirror storage.Storer
	// Ignore doublestar patterns of folder upload entries to skip
	Ignore []string
}

func New(root *storage.Root, log *logger.Logger) *Editor {
	return &Editor{Root: root, Log: log}
}

// ProcessImages stages and flips every upload with a non-empty filename
// into the processed directory.
func (ed *Editor) ProcessImages(ctx context.Context, uploads []model.Upload) model.BatchResult {
	var res model.BatchResult

	for _, up := range uploads {
		if len(up.Filename) == 0 {
			continue
		}

		res.Add(ed.processImage(up))
	}

	return res
}

func (ed *Editor) processImage(up model.Upload) model.FileResult {
	r := model.FileResult{Name: up.Filename}

	name, err := storage.CleanPath(up.Filename)
	if err != nil {
		r.Err = err
		ed.Log.Error().Err(err).Str("file", up.Filename).Msg("rejected upload filename")
		return r
	}

	input := path.Join(storage.ProcessedDir, name)
	if err := ed.Root.Stage(input, up.Data); err != nil {
		r.Err = fmt.Errorf("staging %s: %w", name, err)
		ed.Log.Error().Err(r.Err).Str("file", up.Filename).Msg("error staging image")
		return r
	}

	dir, base := path.Split(name)
	output := path.Join(storage.ProcessedDir, dir, FlippedPrefix+base)

	return ed.flip(r, input, output)
}

func (ed *Editor) flip(r model.FileResult, input, output string) model.FileResult {
	info, err := transform.FlipFile(ed.Root.Fs, input, output)
	r.MIME = info.MIME
	if err != nil {
		r.Err = err
		ed.Log.Error().Err(err).Str("file", r.Name).Msg("error processing image")
		return r
	}

	r.Path = output
	if fi, err := ed.Root.Fs.Stat(output); err == nil {
		r.Size = fi.Size()
	}

	ed.Log.Debug().Str("file", r.Name).Str("output", output).Msg("image flipped")
	return r
}

// FolderName infers the folder of a batch from its first filename: the
// last directory component, or DefaultFolder when there is none.
func FolderName(filename string) string {
	name, err := storage.CleanPath(filename)
	if err != nil {
		return DefaultFolder
	}

	dir := path.Dir(name)
	if dir == "." {
		return DefaultFolder
	}

	return path.Base(dir)
}

// ProcessFolder handles a folder upload. Files are staged in
// uploads/<folder> and flipped into static/processed/edited_<folder>, with
// any nested directories flattened.
func (ed *Editor) ProcessFolder(ctx context.Context, uploads []model.Upload) model.FolderResult {
	var res model.FolderResult
	if len(uploads) == 0 {
		return res
	}

	res.Folder = FolderName(uploads[0].Filename)
	res.EditedDir = EditedPrefix + res.Folder

	editedPath := path.Join(storage.ProcessedDir, res.EditedDir)
	if err := ed.Root.EnsureDir(editedPath); err != nil {
		ed.Log.Error().Err(err).Str("dir", editedPath).Msg("cannot create edited folder")
	}

	tempDir := path.Join(storage.UploadDir, res.Folder)

	for _, up := range uploads {
		if len(up.Filename) == 0 {
			continue
		}

		r := model.FileResult{Name: up.Filename}

		name, err := storage.CleanPath(up.Filename)
		if err != nil {
			r.Err = err
			ed.Log.Error().Err(err).Str("file", up.Filename).Msg("rejected upload filename")
			res.Add(r)
			continue
		}

		if ed.ignored(name) {
			ed.Log.Debug().Str("file", name).Msg("skipping ignored file")
			res.Skip(r)
			continue
		}

		base := path.Base(name)

		input := path.Join(tempDir, base)
		if err := ed.Root.Stage(input, up.Data); err != nil {
			r.Err = fmt.Errorf("staging %s: %w", name, err)
			ed.Log.Error().Err(r.Err).Str("file", up.Filename).Msg("error staging image")
			res.Add(r)
			continue
		}

		output := path.Join(editedPath, FlippedPrefix+base)
		res.Add(ed.flip(r, input, output))
	}

	return res
}

func (ed *Editor) ignored(name string) bool {
	for _, pattern := range ed.Ignore {
		if ok, err := doublestar.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}

// CleanFolder trims folder, defaults it and makes sure it stays inside
// the processed directory.
func CleanFolder(folder string) (string, error) {
	folder = strings.TrimSpace(folder)
	if len(folder) == 0 {
		return DefaultFolder, nil
	}

	return storage.CleanPath(folder)
}

// Commit moves every selected processed image into
// static/processed/<folder>. The folder must already be clean, see
// CleanFolder.
func (ed *Editor) Commit(ctx context.Context, folder string, selected []string) model.BatchResult {
	var res model.BatchResult

	saveDir := path.Join(storage.ProcessedDir, folder)
	if err := ed.Root.EnsureDir(saveDir); err != nil {
		ed.Log.Error().Err(err).Str("dir", saveDir).Msg("cannot create save folder")
	}

	for _, sel := range selected {
		r := ed.commit(ctx, folder, saveDir, sel)
		res.Add(r)
	}

	return res
}

func (ed *Editor) commit(ctx context.Context, folder, saveDir, selected string) model.FileResult {
	r := model.FileResult{Name: selected}

	// previews render paths as /static/processed/..., accept both forms
	src, err := storage.CleanPath(strings.TrimPrefix(strings.TrimSpace(selected), "/"))
	if err == nil {
		err = storage.Within(storage.ProcessedDir, src)
	}
	if err != nil {
		r.Err = err
		ed.Log.Error().Err(err).Str("file", selected).Msg("rejected selected image")
		return r
	}

	base := path.Base(src)
	dst := path.Join(saveDir, base)

	if err := ed.Root.Move(src, dst); err != nil {
		r.Err = fmt.Errorf("saving %s: %w", base, err)
		ed.Log.Error().Err(r.Err).Str("file", base).Msg("error saving image")
		return r
	}

	r.Path = dst
	ed.Log.Info().Str("file", base).Str("folder", saveDir).Msg("image saved")

	if ed.Mirror != nil {
		r.URL = ed.mirror(ctx, path.Join(folder, base), dst)
	}

	return r
}

func (ed *Editor) mirror(ctx context.Context, key, p string) string {
	data, err := ed.Root.ReadFile(p)
	if err != nil {
		ed.Log.Error().Err(err).Str("file", p).Msg("cannot read image to mirror")
		return ""
	}

	url, err := ed.Mirror.Save(ctx, model.UploadFileData{
		FileKey:     key,
		ContentType: transform.Sniff(data),
		File:        bytes.NewReader(data),
		Size:        int64(len(data)),
	})
	if err != nil {
		ed.Log.Error().Err(err).Str("key", key).Msg("error mirroring image")
		return ""
	}

	return url
}

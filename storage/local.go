package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/spf13/afero"
	"github.com/staticbackendhq/imageeditor/model"
)

// Local copies images into Dir.
type Local struct {
	Fs      afero.Fs
	Dir     string
	BaseURL string
}

func (l Local) Save(_ context.Context, data model.UploadFileData) (string, error) {
	key, err := CleanPath(data.FileKey)
	if err != nil {
		return "", err
	}

	filename := path.Join(l.Dir, key)
	if err := l.Fs.MkdirAll(path.Dir(filename), 0755); err != nil {
		return "", err
	}

	b, err := io.ReadAll(data.File)
	if err != nil {
		return "", err
	}

	if err := afero.WriteFile(l.Fs, filename, b, 0644); err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/localfs/%s", l.BaseURL, key)
	return url, nil
}

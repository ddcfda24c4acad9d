package storage

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/staticbackendhq/imageeditor/model"
)

func TestLocalSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	rdr := bytes.NewReader([]byte("unit test"))

	local := Local{Fs: fs, Dir: "/mirror", BaseURL: "http://localhost:5000"}

	data := model.UploadFileData{FileKey: "unit/test/file.txt", File: rdr}
	url, err := local.Save(context.Background(), data)
	if err != nil {
		t.Fatal(err)
	} else if !strings.HasSuffix(url, "/localfs/unit/test/file.txt") {
		t.Errorf("expected url ending with /localfs/unit/test/file.txt got %s", url)
	}

	b, err := afero.ReadFile(fs, "/mirror/unit/test/file.txt")
	if err != nil {
		t.Fatal(err)
	} else if string(b) != "unit test" {
		t.Errorf("expected unit test got %s", string(b))
	}
}

func TestLocalSaveRejectsTraversal(t *testing.T) {
	local := Local{Fs: afero.NewMemMapFs(), Dir: "/mirror"}

	data := model.UploadFileData{FileKey: "../escape.txt", File: bytes.NewReader(nil)}
	if _, err := local.Save(context.Background(), data); err == nil {
		t.Error("expected an error for a key leaving the mirror directory")
	}
}

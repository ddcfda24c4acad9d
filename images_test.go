package imageeditor

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestIndex(t *testing.T) {
	h, _ := newTestServer()

	resp, body := do(h, httptest.NewRequest("GET", "/", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	} else if !strings.Contains(body, `href="/upload_folder"`) {
		t.Errorf("expected links to upload pages got %s", body)
	}

	resp, _ = do(h, httptest.NewRequest("GET", "/nope", nil))
	if resp.Code != http.StatusNotFound {
		t.Errorf("expected 404 got %d", resp.Code)
	}
}

func TestUploadImageForm(t *testing.T) {
	h, _ := newTestServer()

	resp, body := do(h, httptest.NewRequest("GET", "/upload_image", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	} else if !strings.Contains(body, `name="image"`) {
		t.Errorf("expected upload form got %s", body)
	}
}

func TestUploadImage(t *testing.T) {
	h, ed := newTestServer()

	req := multipartReq(t, "/upload_image", []testFile{{"image", "cat.png", pngData(t, 3, 2)}}, nil)

	resp, body := do(h, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, body)
	}

	if n := countSelectable(body); n != 1 {
		t.Errorf("expected 1 image in preview got %d", n)
	}

	if !strings.Contains(body, `value="static/processed/flipped_cat.png"`) {
		t.Errorf("expected output path in preview got %s", body)
	}

	if !ed.Root.Exists("static/processed/flipped_cat.png") {
		t.Error("expected flipped image on disk")
	}
}

func TestUploadImageWithoutFile(t *testing.T) {
	h, _ := newTestServer()

	// multipart body without the image field
	req := multipartReq(t, "/upload_image", nil, map[string][]string{"other": {"x"}})

	resp, body := do(h, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	} else if n := countSelectable(body); n != 0 {
		t.Errorf("expected empty preview got %d entries", n)
	}

	// not even a multipart body
	resp, body = do(h, httptest.NewRequest("POST", "/upload_image", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	} else if n := countSelectable(body); n != 0 {
		t.Errorf("expected empty preview got %d entries", n)
	}
}

func TestUploadImageInvalid(t *testing.T) {
	h, _ := newTestServer()

	req := multipartReq(t, "/upload_image", []testFile{{"image", "fake.png", []byte("not an image")}}, nil)

	resp, body := do(h, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	} else if n := countSelectable(body); n != 0 {
		t.Errorf("expected empty preview got %d entries", n)
	}
}

func TestUploadImages(t *testing.T) {
	h, _ := newTestServer()

	files := []testFile{
		{"images", "one.png", pngData(t, 2, 2)},
		{"images", "broken.png", []byte("garbage")},
		{"images", "two.png", pngData(t, 4, 1)},
		{"images", "../escape.png", pngData(t, 1, 1)},
		{"images", "three.png", pngData(t, 1, 4)},
	}

	resp, body := do(h, multipartReq(t, "/upload_images", files, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	if n := countSelectable(body); n != 3 {
		t.Fatalf("expected 3 images in preview got %d", n)
	}

	one := strings.Index(body, "flipped_one.png")
	two := strings.Index(body, "flipped_two.png")
	three := strings.Index(body, "flipped_three.png")
	if !(one < two && two < three) {
		t.Errorf("expected preview in submission order, got positions %d %d %d", one, two, three)
	}
}

func TestUploadImagesMethod(t *testing.T) {
	h, _ := newTestServer()

	resp, _ := do(h, httptest.NewRequest("GET", "/upload_images", nil))
	if resp.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected 405 got %d", resp.Code)
	}
}

func TestUploadFolder(t *testing.T) {
	h, ed := newTestServer()

	files := []testFile{
		{"folder", "a/x.png", pngData(t, 2, 2)},
		{"folder", "a/sub/y.png", pngData(t, 3, 3)},
		{"folder", "a/.hidden", []byte("skip me")},
	}

	resp, body := do(h, multipartReq(t, "/upload_folder", files, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	if !strings.Contains(body, "Folder processed and saved to edited_a!") {
		t.Errorf("unexpected message %s", body)
	}

	for _, p := range []string{"static/processed/edited_a/flipped_x.png", "static/processed/edited_a/flipped_y.png"} {
		if !ed.Root.Exists(p) {
			t.Errorf("expected %s to exist", p)
		}
	}

	if ed.Root.Exists("static/processed/edited_a/flipped_.hidden") {
		t.Error("expected hidden file to be skipped")
	}
}

func TestUploadFolderEmpty(t *testing.T) {
	h, _ := newTestServer()

	resp, body := do(h, httptest.NewRequest("GET", "/upload_folder", nil))
	if resp.Code != http.StatusOK || !strings.Contains(body, "webkitdirectory") {
		t.Errorf("expected folder form got %d %s", resp.Code, body)
	}

	resp, body = do(h, multipartReq(t, "/upload_folder", nil, nil))
	if resp.Code != http.StatusOK || !strings.Contains(body, "webkitdirectory") {
		t.Errorf("expected folder form again got %d %s", resp.Code, body)
	}
}

func TestSaveImages(t *testing.T) {
	h, ed := newTestServer()

	files := []testFile{
		{"images", "a.png", pngData(t, 2, 2)},
		{"images", "b.png", pngData(t, 2, 2)},
	}
	if resp, _ := do(h, multipartReq(t, "/upload_images", files, nil)); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	form := url.Values{}
	form.Set("folder_name", "  ")
	form.Add("selected_images", "static/processed/flipped_a.png")
	form.Add("selected_images", "static/processed/flipped_b.png")

	req := httptest.NewRequest("POST", "/save_images", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, body := do(h, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	} else if !strings.Contains(body, "Selected images have been saved to the folder: default") {
		t.Errorf("unexpected message %s", body)
	}

	for _, p := range []string{"static/processed/default/flipped_a.png", "static/processed/default/flipped_b.png"} {
		if !ed.Root.Exists(p) {
			t.Errorf("expected %s to exist", p)
		}
	}
}

func TestSaveImagesMissingFile(t *testing.T) {
	h, ed := newTestServer()

	req := multipartReq(t, "/save_images", nil, map[string][]string{
		"folder_name":     {"trip"},
		"selected_images": {"static/processed/flipped_gone.png"},
	})

	resp, body := do(h, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	} else if !strings.Contains(body, "Selected images have been saved to the folder: trip") {
		t.Errorf("unexpected message %s", body)
	}

	if ed.Root.Exists("static/processed/trip/flipped_gone.png") {
		t.Error("nothing should have been saved")
	}
}

func TestSaveImagesUnsafeFolder(t *testing.T) {
	h, _ := newTestServer()

	form := url.Values{}
	form.Set("folder_name", "../../etc")

	req := httptest.NewRequest("POST", "/save_images", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, _ := do(h, req)
	if resp.Code != http.StatusBadRequest {
		t.Errorf("expected 400 got %d", resp.Code)
	}
}

func TestStaticServesProcessed(t *testing.T) {
	h, _ := newTestServer()

	req := multipartReq(t, "/upload_image", []testFile{{"image", "cat.png", pngData(t, 3, 2)}}, nil)
	if resp, _ := do(h, req); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	resp, _ := do(h, httptest.NewRequest("GET", "/static/processed/flipped_cat.png", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	} else if ct := resp.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("expected image/png got %s", ct)
	}
}

func TestUploadImagePreviewURLIsEscaped(t *testing.T) {
	h, _ := newTestServer()

	files := []testFile{{"image", "a#1?.png", pngData(t, 2, 2)}}

	resp, body := do(h, multipartReq(t, "/upload_image", files, nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	src := "/static/processed/flipped_a%231%3F.png"
	if !strings.Contains(body, `src="`+src+`"`) {
		t.Fatalf("expected escaped preview url %s in %s", src, body)
	}

	resp, _ = do(h, httptest.NewRequest("GET", src, nil))
	if resp.Code != http.StatusOK {
		t.Errorf("expected preview url to serve the image got %d", resp.Code)
	}
}

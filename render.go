package imageeditor

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"

	"github.com/dustin/go-humanize"
	"github.com/staticbackendhq/imageeditor/logger"
)

//go:embed templates
var templateFS embed.FS

var (
	views map[string]*template.Template
)

func loadTemplates() error {
	partials, err := fs.Glob(templateFS, "templates/partials/*.html")
	if err != nil {
		return err
	}

	pages, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return err
	}

	funcs := customFuncs()

	loaded := make(map[string]*template.Template)

	for _, page := range pages {
		name := path.Base(page)

		cur := append([]string{page}, partials...)

		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, cur...)
		if err != nil {
			return err
		}

		loaded[name] = t
	}

	views = loaded
	return nil
}

type ViewData struct {
	Title string
	Data  interface{}
}

func render(w http.ResponseWriter, r *http.Request, view, title string, data interface{}, log *logger.Logger) {
	vd := ViewData{
		Title: title,
		Data:  data,
	}

	tmpl, ok := views[view]
	if !ok {
		http.Error(w, fmt.Sprintf(`template "%s" cannot be found`, view), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if err := tmpl.Execute(w, vd); err != nil {
		log.Error().Err(err).Msgf(`error executing template "%s"`, view)

		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func renderMessage(w http.ResponseWriter, r *http.Request, msg string, log *logger.Logger) {
	render(w, r, "message.html", "", msg, log)
}

func customFuncs() template.FuncMap {
	return template.FuncMap{
		"humanBytes": func(size int64) string {
			if size < 0 {
				size = 0
			}
			return humanize.Bytes(uint64(size))
		},
	}
}

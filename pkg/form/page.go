package form

import (
	"bytes"
	"embed"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/*.html
var templateFS embed.FS

// Page is the data handed to the index template.
type Page struct {
	View
	GPS       string
	SoilType  string
	PhotoName string
	// Refresh makes the browser poll while a request is in flight.
	Refresh bool
}

func NewPage(f *Form) Page {
	in := f.Input()
	v := Render(f.State())
	p := Page{View: v, GPS: in.GPS, SoilType: in.SoilType, Refresh: v.ButtonDisabled}
	if in.LeafPhoto != nil {
		p.PhotoName = in.LeafPhoto.Filename
	}
	return p
}

// TemplateRenderer plugs the embedded templates into echo.
type TemplateRenderer struct {
	tmpl *template.Template
}

func NewRenderer() (*TemplateRenderer, error) {
	md := goldmark.New(goldmark.WithRendererOptions(html.WithHardWraps()))
	funcs := template.FuncMap{
		// raw HTML in advice text is escaped by goldmark's default renderer
		"markdown": func(s string) (template.HTML, error) {
			var buf bytes.Buffer
			if err := md.Convert([]byte(s), &buf); err != nil {
				return "", err
			}
			return template.HTML(buf.String()), nil
		},
	}
	t, err := template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &TemplateRenderer{tmpl: t}, nil
}

func (r *TemplateRenderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}

package grid

import (
	"context"
	"io"
	"time"

	"github.com/a-h/templ"
)

// Cell renders one cell's display content according to its column.
func Cell(col Column, value string, loc *time.Location) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var html string
		switch col.Renderer {
		case RenderStatus:
			html = `<span class="` + StatusClass(col.Status, value) + `">` + templ.EscapeString(value) + `</span>`
		case RenderDate:
			html = templ.EscapeString(FormatDate(value, loc))
		case RenderError:
			if value == "" {
				return nil
			}
			html = `<span class="error-cell">` + templ.EscapeString(value) + `</span>`
		default:
			html = templ.EscapeString(value)
		}
		_, err := io.WriteString(w, html)
		return err
	})
}

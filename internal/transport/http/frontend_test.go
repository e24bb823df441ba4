package http

import (
	"io"
	"strings"
	"testing/fstest"

	"mortalitydash/internal/charts"
	"mortalitydash/pkg/contracts/domain"
)

const testPageTemplate = `<!DOCTYPE html>
<html lang="es">
<head><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
{{if .DataNote}}<p class="note">{{.DataNote}}</p>{{end}}
{{range .Panels}}<section data-panel="{{.ID}}"><h2>{{.Heading}}</h2></section>
{{end}}
</body>
</html>`

func testFrontend() fstest.MapFS {
	return fstest.MapFS{
		PageTemplate:    {Data: []byte(testPageTemplate)},
		"dashboard.js":  {Data: []byte("function loadPanels() {}")},
		"dashboard.css": {Data: []byte("body { margin: 0; }")},
	}
}

func emptyFrontend() fstest.MapFS {
	return fstest.MapFS{}
}

func testPanelInfos() []domain.PanelInfo {
	return charts.Infos()
}

func stringReader(s string) io.Reader {
	return strings.NewReader(s)
}

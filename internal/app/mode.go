package app

import (
	"fmt"
	"strconv"

	"github.com/cnergy/webserve/internal/render"
)

// DefaultRoot is where `flutter build web` writes its output.
const DefaultRoot = "build/web"

// ServeInfo is what a mode needs to describe a running server.
type ServeInfo struct {
	Port   int
	Dir    string
	LANURL string
}

// LocalURL is the browser URL for the server on this machine.
func (info ServeInfo) LocalURL() string {
	return "http://localhost:" + strconv.Itoa(info.Port)
}

// Mode is one of the fixed serving configurations.
type Mode struct {
	Name string
	Port int
	Root string

	// ErrorPrefix is prepended to the missing-root diagnostic.
	ErrorPrefix string

	// Pages lists extra paths under the root worth advertising.
	// They are not handled specially by the server.
	Pages []string

	banner func(m Mode, info ServeInfo) []render.Line
	rule   int
}

var (
	// ServeWeb serves the app on port 8000.
	ServeWeb = Mode{
		Name:   "serve_web",
		Port:   8000,
		Root:   DefaultRoot,
		banner: serveWebBanner,
		rule:   50,
	}

	// TestLocal serves on port 8080 and advertises the CSP test page.
	TestLocal = Mode{
		Name:        "test_local",
		Port:        8080,
		Root:        DefaultRoot,
		ErrorPrefix: "❌ ",
		Pages:       []string{"/test_csp.html"},
		banner:      testLocalBanner,
		rule:        60,
	}
)

func (m Mode) ListenAddr() string {
	return ":" + strconv.Itoa(m.Port)
}

// Banner builds the startup banner for info.
func (m Mode) Banner(info ServeInfo) render.Banner {
	build := m.banner
	if build == nil {
		build = serveWebBanner
	}
	lines := build(m, info)
	if info.LANURL != "" {
		lines = append(lines, render.Line{Icon: "📱", Label: "Network:", Value: info.LANURL, Attrs: render.Value})
	}
	return render.Banner{Lines: lines, RuleWidth: m.rule}
}

// MissingRootLines is the diagnostic printed when root does not exist.
func (m Mode) MissingRootLines(root string) []string {
	return []string{
		fmt.Sprintf("%sError: %s does not exist!", m.ErrorPrefix, root),
		"Please run 'flutter build web' first.",
	}
}

func serveWebBanner(_ Mode, info ServeInfo) []render.Line {
	return []render.Line{
		{Icon: "🚀", Label: "Serving CNERGY Flutter Web App at", Value: info.LocalURL(), Attrs: render.Accent},
		{Icon: "📁", Label: "Serving from:", Value: info.Dir, Attrs: render.Value},
		{Icon: "🔧", Label: "CSP is configured to be permissive for development"},
		{Icon: "⏹️ ", Label: "Press Ctrl+C to stop the server"},
	}
}

func testLocalBanner(m Mode, info ServeInfo) []render.Line {
	lines := []render.Line{
		{Icon: "🚀", Label: "Starting Local Test Server (No CSP Conflicts)", Attrs: render.Accent},
		{Icon: "📁", Label: "Serving from:", Value: info.Dir, Attrs: render.Value},
		{Icon: "🌐", Label: "Main app:", Value: info.LocalURL(), Attrs: render.Accent},
	}
	for _, page := range m.Pages {
		lines = append(lines, render.Line{Icon: "🧪", Label: "CSP test:", Value: info.LocalURL() + page, Attrs: render.Value})
	}
	return append(lines, render.Line{Icon: "⏹️ ", Label: "Press Ctrl+C to stop"})
}

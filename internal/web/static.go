package web

import (
	"net/http"
	"os"
	"strings"
)

const indexPage = "/index.html"

// StaticHandler serves files and directory listings from root.
//
// Requests ending in /index.html are answered with the file itself;
// http.FileServer would redirect them to "./" instead.
func StaticHandler(root string) http.Handler {
	if st, err := os.Stat(root); err != nil || !st.IsDir() {
		return http.NotFoundHandler()
	}

	dir := http.Dir(root)
	fileServer := http.FileServer(dir)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, indexPage) && serveFile(w, r, dir) {
			return
		}
		fileServer.ServeHTTP(w, r)
	})
}

// serveFile writes the regular file at r.URL.Path. It reports false without
// writing anything when the path is missing or a directory.
func serveFile(w http.ResponseWriter, r *http.Request, dir http.Dir) bool {
	f, err := dir.Open(r.URL.Path)
	if err != nil {
		return false
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		return false
	}

	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
	return true
}

func unsupportedMethod(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "Unsupported method ('"+r.Method+"')", http.StatusNotImplemented)
}

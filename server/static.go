package server

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
)

// StaticFileServer serves files from dir and answers every other path with
// fallbackPath, so a single-page viewer can own its routes.
func StaticFileServer(dir string, fallbackPath string) (http.Handler, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("static directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("static directory: %s is not a directory", dir)
	}

	fs := http.FileServer(http.Dir(dir))
	fallback := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+fallbackPath)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Join(dir, filepath.FromSlash(path.Clean("/"+r.URL.Path)))
		if st, err := os.Stat(name); err == nil && !st.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, fallback)
	}), nil
}

// Package fs implements host contracts on top of the local filesystem.
package fs

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/anoyetta/specialspelltimer/pkg/host"
)

// PluginRegistry implements host.Registry by listing the plugin binaries in
// a set of directories, in the order the directories were given.
type PluginRegistry struct {
	dirs []string
	ext  string
}

// NewPluginRegistry creates a registry over dirs listing files with ext.
func NewPluginRegistry(ext string, dirs ...string) *PluginRegistry {
	return &PluginRegistry{dirs: dirs, ext: ext}
}

// Plugins returns every matching file. A missing directory contributes nothing.
func (r *PluginRegistry) Plugins() ([]host.PluginFile, error) {
	var files []host.PluginFile
	for _, dir := range r.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}

		names := make([]string, 0, len(entries))
		for _, e := range entries {
			if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), r.ext) {
				continue
			}
			names = append(names, e.Name())
		}
		sort.Strings(names)

		for _, name := range names {
			abs, err := filepath.Abs(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			files = append(files, host.PluginFile{Path: abs})
		}
	}
	return files, nil
}

// Loader implements host.Loader. Resolve asks the handlers in registration
// order and returns the first answer.
type Loader struct {
	handlers []host.ResolveFunc
}

// NewLoader creates a loader with no handlers.
func NewLoader() *Loader {
	return &Loader{}
}

// AddResolveHandler appends fn to the handler chain.
func (l *Loader) AddResolveHandler(fn host.ResolveFunc) {
	l.handlers = append(l.handlers, fn)
}

// Handlers returns the number of registered handlers.
func (l *Loader) Handlers() int {
	return len(l.handlers)
}

// Resolve runs the handler chain for name.
func (l *Loader) Resolve(name string) (string, bool) {
	for _, h := range l.handlers {
		if path, ok := h(name); ok {
			return path, true
		}
	}
	return "", false
}

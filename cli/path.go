package cli

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"

	"github.com/ardnew/minilang/pkg"
)

const (
	baseConfig = "config"
	configExt  = ".yaml"
)

var defaultDirMode os.FileMode = 0o700

var debugBin = regexp.MustCompile(`^__debug_bin\d+$`)

// basePrefix names the per-user configuration and cache directories. It is
// the executable's base name without extension or leading dots, and
// [pkg.Name] for debugger builds.
var basePrefix = sync.OnceValue(
	func() string {
		id := os.Args[0]
		if exe, err := os.Executable(); err == nil {
			id = exe
		}

		id = filepath.Base(id)
		id = strings.TrimSuffix(id, filepath.Ext(id))
		id = strings.TrimLeft(id, ".")

		if id == "" || debugBin.MatchString(id) {
			return pkg.Name
		}

		return id
	},
)

// userDir joins basePrefix to the directory returned by locate, falling back
// to $HOME/hidden and then to the working directory.
func userDir(locate func() (string, error), hidden string) string {
	dir, err := locate()
	if err != nil {
		if home, herr := os.UserHomeDir(); herr == nil {
			dir = filepath.Join(home, hidden)
		} else if dir, err = os.Getwd(); err != nil {
			dir = "."
		}
	}

	return filepath.Join(dir, basePrefix())
}

var configDir = sync.OnceValue(func() string {
	return userDir(os.UserConfigDir, ".config")
})

// cacheDir holds REPL history and profiler output.
var cacheDir = sync.OnceValue(func() string {
	return userDir(os.UserCacheDir, ".cache")
})

// configPath joins elem to the configuration directory.
func configPath(elem ...string) string {
	return filepath.Join(append([]string{configDir()}, elem...)...)
}

func mkdirAllRequired() error {
	for _, dir := range []string{configDir(), cacheDir()} {
		if err := os.MkdirAll(dir, defaultDirMode); err != nil {
			return err
		}
	}

	return nil
}

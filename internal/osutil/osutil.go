// Package osutil resolves tomato's per-user data directory behind a swappable
// provider so path errors can be exercised in tests.
package osutil

import (
	"os"
	"path/filepath"
)

// AppName is the directory name used under the user config dir.
const AppName = "tomato"

// PathProvider abstracts the OS calls needed to locate and create the app dir.
type PathProvider interface {
	UserConfigDir() (string, error)
	MkdirAll(path string, perm os.FileMode) error
}

// DefaultPathProvider uses real OS functions.
type DefaultPathProvider struct{}

// UserConfigDir returns os.UserConfigDir().
func (DefaultPathProvider) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// MkdirAll creates path and any missing parents.
func (DefaultPathProvider) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// Provider is the active provider. Tests replace it with SetProvider.
var Provider PathProvider = DefaultPathProvider{}

// SetProvider swaps the active provider.
func SetProvider(p PathProvider) {
	Provider = p
}

// ResetProvider restores DefaultPathProvider.
func ResetProvider() {
	Provider = DefaultPathProvider{}
}

// AppFile returns the path of name inside the app directory
// (e.g. ~/.config/tomato/name), creating the directory if needed.
func AppFile(name string) (string, error) {
	configDir, err := Provider.UserConfigDir()
	if err != nil {
		return "", err
	}

	appDir := filepath.Join(configDir, AppName)
	if err := Provider.MkdirAll(appDir, 0755); err != nil {
		return "", err
	}

	return filepath.Join(appDir, name), nil
}

package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// EnvDir overrides the runtime directory.
const EnvDir = "GLASSPANE_RUNTIME_DIR"

// Dir returns the runtime directory used for the IPC socket. Priority:
// 1) $GLASSPANE_RUNTIME_DIR (if set)
// 2) on Windows, %LOCALAPPDATA%\glasspane (created)
// 3) XDG_RUNTIME_DIR (if set)
// 4) /run/user/<uid> (if present)
// 5) /tmp/glasspane-runtime-<uid> (created)
func Dir() (string, error) {
	if dir := os.Getenv(EnvDir); dir != "" {
		return dir, nil
	}

	if runtime.GOOS == "windows" {
		base := os.Getenv("LOCALAPPDATA")
		if base == "" {
			cache, err := os.UserCacheDir()
			if err != nil {
				return "", fmt.Errorf("failed to resolve local app data: %w", err)
			}
			base = cache
		}
		dir := filepath.Join(base, "glasspane")
		if err := os.MkdirAll(dir, 0700); err != nil {
			return "", fmt.Errorf("failed to create runtime dir: %w", err)
		}
		return dir, nil
	}

	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/glasspane-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the IPC socket of the running instance.
func SocketPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "glasspane.sock"), nil
}

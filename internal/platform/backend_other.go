//go:build !windows

package platform

// NewBackend returns the backend for the current OS.
func NewBackend() (Backend, error) {
	return nil, ErrUnsupported
}

// NewHostWindow returns the host window of the current process.
func NewHostWindow() (HostWindow, error) {
	return nil, ErrUnsupported
}

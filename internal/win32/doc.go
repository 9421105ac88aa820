// Package win32 wraps the user32, kernel32 and dwmapi calls glasspane needs.
// Every exported function takes fixed-size buffers and returns typed values or
// an error, so callers never handle raw memory.
package win32

package win32

import "unicode/utf16"

// MaxTextLen is the maximum number of UTF-16 code units read from a window
// title, excluding the terminating NUL.
const MaxTextLen = 511

// decodeBuffer decodes the first n code units of buf. n is clamped to the
// buffer and the string stops at the first NUL, so a misreported length from
// the OS can never read past the buffer.
func decodeBuffer(buf []uint16, n int) string {
	if n < 0 {
		n = 0
	}
	if n > len(buf) {
		n = len(buf)
	}
	for i := 0; i < n; i++ {
		if buf[i] == 0 {
			n = i
			break
		}
	}
	return string(utf16.Decode(buf[:n]))
}

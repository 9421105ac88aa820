package discovery

import (
	"fmt"
	"strings"

	"github.com/1broseidon/glasspane/internal/platform"
)

// UnknownExecutable stands in for an executable name that could not be read.
const UnknownExecutable = "Unknown"

// Transparency is a window's observed opacity. Valid is false when the
// window is not layered, which is "not applicable" rather than zero.
type Transparency struct {
	Percent int  `json:"percent" yaml:"percent"`
	Valid   bool `json:"valid" yaml:"valid"`
}

func (t Transparency) String() string {
	if !t.Valid {
		return "N/A"
	}
	return fmt.Sprintf("%d%%", t.Percent)
}

// EffectivePercent is the opacity a user sees: the layered alpha, or 100.
func (t Transparency) EffectivePercent() int {
	if !t.Valid {
		return 100
	}
	return t.Percent
}

// Snapshot is one enumerated window. Snapshots are rebuilt on every scan and
// the handle is only valid until the owning process destroys the window.
type Snapshot struct {
	Handle       platform.Handle `json:"handle" yaml:"handle"`
	Title        string          `json:"title" yaml:"title"`
	Executable   string          `json:"executable" yaml:"executable"`
	Class        string          `json:"class" yaml:"class"`
	Width        int             `json:"width" yaml:"width"`
	Height       int             `json:"height" yaml:"height"`
	Cloaked      bool            `json:"cloaked" yaml:"cloaked"`
	Transparency Transparency    `json:"transparency" yaml:"transparency"`
}

// ExecutableName returns the file-name component of a process image path
// with every character outside printable, non-space ASCII removed. Both
// separators are accepted since image paths use backslashes.
func ExecutableName(imagePath string) string {
	name := imagePath
	if i := strings.LastIndexAny(name, `\/`); i >= 0 {
		name = name[i+1:]
	}
	name = sanitize(name)
	if name == "" {
		return UnknownExecutable
	}
	return name
}

func sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c > ' ' && c < 0x7f {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// Filter returns the snapshots whose title contains title and whose
// executable contains executable. Empty filters match everything.
func Filter(snaps []Snapshot, title, executable string) []Snapshot {
	var out []Snapshot
	for _, s := range snaps {
		if title != "" && !strings.Contains(s.Title, title) {
			continue
		}
		if executable != "" && !strings.Contains(s.Executable, executable) {
			continue
		}
		out = append(out, s)
	}
	return out
}

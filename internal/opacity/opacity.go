// Package opacity switches windows between opaque and constant-alpha layered
// states. Apply is idempotent: re-applying the same percentage leaves the
// window in the same observable state.
package opacity

import (
	"errors"
	"fmt"
	"math"

	"github.com/1broseidon/glasspane/internal/platform"
)

// Opaque is the percentage at which a window has no layered style.
const Opaque = 100

// ErrInvalidPercent is returned for percentages outside 0..100.
var ErrInvalidPercent = errors.New("opacity must be between 0 and 100")

// AlphaFromPercent converts 0..100 into a 0..255 constant alpha.
func AlphaFromPercent(percent int) uint8 {
	return uint8(math.Round(float64(percent) * 255 / 100))
}

// PercentFromAlpha converts a 0..255 constant alpha into 0..100.
func PercentFromAlpha(alpha uint8) int {
	return int(math.Round(float64(alpha) / 255 * 100))
}

// Controller applies and reads window opacity through a platform backend.
type Controller struct {
	backend platform.Backend
}

// NewController creates a controller over backend.
func NewController(backend platform.Backend) *Controller {
	return &Controller{backend: backend}
}

// Apply moves the window to the state for percent. 100 clears the layered
// bit and forces a frame redraw so the compositor drops residual blending;
// anything lower sets the layered bit and a constant alpha.
func (c *Controller) Apply(h platform.Handle, percent int) error {
	if percent < 0 || percent > 100 {
		return fmt.Errorf("%w: %d", ErrInvalidPercent, percent)
	}

	style, err := c.backend.ExStyle(h)
	if err != nil {
		return fmt.Errorf("read extended style: %w", err)
	}

	if percent == Opaque {
		if style&platform.ExStyleLayered != 0 {
			if err := c.backend.SetExStyle(h, style&^platform.ExStyleLayered); err != nil {
				return fmt.Errorf("clear layered style: %w", err)
			}
		}
		if err := c.backend.Redraw(h); err != nil {
			return fmt.Errorf("redraw: %w", err)
		}
		return nil
	}

	if style&platform.ExStyleLayered == 0 {
		if err := c.backend.SetExStyle(h, style|platform.ExStyleLayered); err != nil {
			return fmt.Errorf("set layered style: %w", err)
		}
	}
	if err := c.backend.SetLayeredAlpha(h, AlphaFromPercent(percent)); err != nil {
		return fmt.Errorf("set alpha: %w", err)
	}
	return nil
}

// Current returns the window's opacity percentage. ok is false when the
// window is not layered or the alpha cannot be read; that is "not
// applicable", not zero.
func (c *Controller) Current(h platform.Handle) (percent int, ok bool) {
	style, err := c.backend.ExStyle(h)
	if err != nil || style&platform.ExStyleLayered == 0 {
		return 0, false
	}
	alpha, err := c.backend.LayeredAlpha(h)
	if err != nil {
		return 0, false
	}
	return PercentFromAlpha(alpha), true
}

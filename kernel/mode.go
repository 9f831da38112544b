package kernel

import (
	"fmt"
	"strings"
)

// Mode selects which of the two compiled kernels runs on Render.
type Mode int

const (
	Accelerated Mode = iota
	Sequential
)

// Modes lists every backend kind in a stable order.
func Modes() []Mode {
	return []Mode{Accelerated, Sequential}
}

func (m Mode) Valid() bool {
	return m == Accelerated || m == Sequential
}

func (m Mode) String() string {
	switch m {
	case Accelerated:
		return "accelerated"
	case Sequential:
		return "sequential"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode accepts the backend names "accelerated" and "sequential" as well
// as the short forms "gpu" and "cpu".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "accelerated", "gpu":
		return Accelerated, nil
	case "sequential", "cpu":
		return Sequential, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidMode, s)
}

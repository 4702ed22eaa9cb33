//go:build !linux

package memprobe

type stubProbe struct{}

// New returns a probe that always reports unavailable, for platforms
// without a /proc filesystem.
func New() Probe { return stubProbe{} }

func (stubProbe) RSSGigabytes() (float64, bool) { return 0, false }

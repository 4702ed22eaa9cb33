//go:build linux

package memprobe

import (
	"bufio"
	"os"
	"strconv"
	"strings"
)

// linuxProbe reads RSS from /proc/self/statm, whose second field is the
// resident set size in pages.
type linuxProbe struct {
	pageSize float64
}

// New returns the platform memory probe.
func New() Probe {
	return &linuxProbe{pageSize: float64(os.Getpagesize())}
}

func (p *linuxProbe) RSSGigabytes() (float64, bool) {
	f, err := os.Open("/proc/self/statm")
	if err != nil {
		return 0, false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	if !sc.Scan() {
		return 0, false
	}
	fields := strings.Fields(sc.Text())
	if len(fields) < 2 {
		return 0, false
	}

	pages, err := strconv.ParseFloat(fields[1], 64)
	if err != nil {
		return 0, false
	}

	const bytesPerGB = 1 << 30
	return pages * p.pageSize / bytesPerGB, true
}

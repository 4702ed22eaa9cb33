// Package memprobe reads the current process's resident set size, used by
// the prequential driver's RAM-hours accounting.
package memprobe

// Probe reads current RSS in gigabytes. It returns false if the
// measurement isn't available on the current platform.
type Probe interface {
	RSSGigabytes() (float64, bool)
}

// Package streams implements a pull-based example source: a Stream
// produces instances conforming to a fixed Model until exhausted, and can
// be restarted from the top.
package streams

import "github.com/gustavo-munhoz/reason/core"

// Stream is a pull-based, schema-conformant example source. Instances
// yielded by Next must match Header(). Once HasMore reports false, the
// next Next call must return (nil, false).
type Stream interface {
	Header() *core.Model
	HasMore() bool
	Next() (core.Instance, bool)
	Restart() error
}

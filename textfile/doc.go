/*
Package textfile provides API helpers to load UTF-8 text files line by line.

Files are read asynchronously. Loaded lines are broadcast to all subscribers
of a file, in order, followed by a final end-of-file message. `ReadLines`
wraps this into a synchronous API for the common case of a single consumer.

_________________________________________________________________________

# BSD 3-Clause License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the LICENSE file for details.
*/
package textfile

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'kvtree'
func tracer() tracing.Trace {
	return tracing.Select("kvtree")
}

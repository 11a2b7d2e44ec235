/*
Package visual renders B-trees as indented text trees for terminals.

Each node is printed on a line of its own, showing its keys in brackets.
Internal nodes and leaves are colored differently if the output device
supports it. Keys wider than a configured number of terminal cells are
truncated; widths are measured in fixed-width cells according to UAX#11,
so East Asian wide characters count twice.

# BSD License

Copyright (c) Norbert Pillmayer <norbert@pillmayer.com>

Please refer to the License file for details.
*/
package visual

import (
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
)

// T traces to a global core-tracer.
func T() tracing.Trace {
	return gtrace.CoreTracer
}

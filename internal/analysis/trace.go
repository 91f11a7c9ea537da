package analysis

import "fmt"

// Trace collects the ordered, human-readable decision steps of one analysis
// run. Append-only; a trace never mixes steps from different runs because
// every run allocates its own.
type Trace struct {
	steps []string
}

// NewTrace returns an empty trace.
func NewTrace() *Trace {
	return &Trace{}
}

// Addf appends one formatted step.
func (t *Trace) Addf(format string, args ...interface{}) {
	t.steps = append(t.steps, fmt.Sprintf(format, args...))
}

// Steps returns the recorded steps in order.
func (t *Trace) Steps() []string {
	return t.steps
}

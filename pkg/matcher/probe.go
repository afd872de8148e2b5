package matcher

import "context"

// Reading is a single resource measurement.
type Reading struct {
	MemoryMB   float64 `json:"memory_mb"`
	CPUPercent float64 `json:"cpu_percent"`
}

// Probe supplies the most recent resource reading.
//
// Implementations run their own sampling loop; Reading must not block.
// The second return value is false when nothing has been sampled yet.
type Probe interface {
	Reading() (Reading, bool)
}

type probeKey struct{}

// WithProbe returns a copy of ctx carrying p for use by Search.
// A nil probe leaves ctx unchanged.
func WithProbe(ctx context.Context, p Probe) context.Context {
	if p == nil {
		return ctx
	}
	return context.WithValue(ctx, probeKey{}, p)
}

// ProbeFrom returns the probe attached to ctx, or nil.
func ProbeFrom(ctx context.Context) Probe {
	if ctx == nil {
		return nil
	}
	p, _ := ctx.Value(probeKey{}).(Probe)
	return p
}

func readingFrom(ctx context.Context) (Reading, bool) {
	p := ProbeFrom(ctx)
	if p == nil {
		return Reading{}, false
	}
	return p.Reading()
}

// Package resources samples process memory and CPU while searches run.
//
// A Sampler takes a reading every Interval on its own goroutine and keeps the
// newest Capacity samples in a Ring. It implements matcher.Probe, so a search
// picks up the latest reading when it completes:
//
//	s := resources.NewSampler(resources.DefaultSamplerConfig())
//	s.Start(ctx, matcher.AlgorithmFMIndex)
//	res := idx.Search(matcher.WithProbe(ctx, s), "ACGT")
//	samples := s.Stop()
//
// The package also carries the pprof helpers used by the CLI profiling flags.
package resources

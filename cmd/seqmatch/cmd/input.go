package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Aman-CERP/seqmatch/internal/config"
	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
	"github.com/Aman-CERP/seqmatch/internal/history"
	"github.com/Aman-CERP/seqmatch/internal/resources"
	"github.com/Aman-CERP/seqmatch/internal/sequence"
	"github.com/Aman-CERP/seqmatch/internal/telemetry"
	"github.com/Aman-CERP/seqmatch/internal/validation"
	"github.com/Aman-CERP/seqmatch/pkg/matcher"
)

// inputOptions selects the sequence to search. At most one source may be set;
// with none, the default sample is used.
type inputOptions struct {
	seq    string
	file   string
	sample string
}

func addInputFlags(cmd *cobra.Command, opts *inputOptions) {
	cmd.Flags().StringVar(&opts.seq, "seq", "", "DNA sequence to search")
	cmd.Flags().StringVar(&opts.file, "file", "", "Read the sequence from a plain or FASTA file")
	cmd.Flags().StringVar(&opts.sample, "sample", "", "Use a built-in sample (see 'seqmatch samples')")
	cmd.MarkFlagsMutuallyExclusive("seq", "file", "sample")
}

// resolve loads, normalizes and validates the selected sequence.
func (o inputOptions) resolve(cfg *config.Config) (*sequence.Sequence, error) {
	var seq *sequence.Sequence
	switch {
	case o.seq != "":
		seq = &sequence.Sequence{Data: o.seq, Format: sequence.FormatPlain}
	case o.file != "":
		loaded, err := sequence.Load(o.file)
		if err != nil {
			return nil, err
		}
		seq = loaded
	default:
		name := o.sample
		if name == "" {
			name = sequence.DefaultSample
		}
		sample, ok := sequence.Sample(name)
		if !ok {
			return nil, seqerrors.ValidationError(fmt.Sprintf("unknown sample %q", name), nil).
				WithSuggestion("Run 'seqmatch samples' to list the built-in samples")
		}
		seq = sample.Sequence()
	}

	seq.Data = validation.Normalize(seq.Data)
	if err := validation.Sequence(seq.Data, cfg.Limits.MaxSequenceLength); err != nil {
		return nil, err
	}
	return seq, nil
}

// resolvePattern normalizes and validates pattern against seq.
func resolvePattern(pattern string, seq *sequence.Sequence) (string, error) {
	pattern = validation.Normalize(pattern)
	if err := validation.Pattern(pattern, seq.Data); err != nil {
		return "", err
	}
	return pattern, nil
}

// parseAlgorithm maps a flag value to an algorithm, falling back to the
// configured default when empty.
func parseAlgorithm(name string, cfg *config.Config) (matcher.Algorithm, error) {
	if name == "" {
		return cfg.Algorithm(), nil
	}
	alg, err := matcher.ParseAlgorithm(name)
	if err != nil {
		return "", seqerrors.New(seqerrors.ErrCodeUnknownAlgorithm, err.Error(), err)
	}
	return alg, nil
}

func newSampler(cfg *config.Config) *resources.Sampler {
	return resources.NewSampler(resources.SamplerConfig{
		Interval: cfg.SamplerInterval(),
		Capacity: cfg.Sampler.Capacity,
	})
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	return history.Open(cfg.HistoryPath(), cfg.History.MaxItems)
}

// recorder saves comparisons to history and records search telemetry in the
// same database. Failures are logged and reported as warnings; a search never
// fails because its bookkeeping did.
type recorder struct {
	store   *history.Store
	metrics *telemetry.QueryMetrics
	save    bool
}

// openRecorder returns nil when the history database cannot be opened.
func openRecorder(cfg *config.Config, save bool) *recorder {
	store, err := openHistory(cfg)
	if err != nil {
		slog.Warn("history_unavailable", seqerrors.LogAttrs(err)...)
		return nil
	}
	ms, err := telemetry.NewSQLiteMetricsStore(store.DB())
	if err != nil {
		slog.Warn("telemetry_unavailable", seqerrors.LogAttrs(err)...)
		return &recorder{store: store, save: save && cfg.History.Enabled}
	}
	return &recorder{
		store:   store,
		metrics: telemetry.NewQueryMetrics(ms),
		save:    save && cfg.History.Enabled,
	}
}

// searched records one algorithm result.
func (r *recorder) searched(pattern string, alg matcher.Algorithm, res matcher.Result) {
	if r == nil || r.metrics == nil {
		return
	}
	r.metrics.Record(telemetry.EventFromResult(pattern, alg, res))
}

// saved records both results of item and stores it in history.
func (r *recorder) saved(ctx context.Context, item *history.Item) error {
	if r == nil {
		return nil
	}
	r.searched(item.Pattern, matcher.AlgorithmSuffixArray, item.SuffixResult)
	r.searched(item.Pattern, matcher.AlgorithmFMIndex, item.FMResult)
	if !r.save {
		return nil
	}
	return r.store.Add(ctx, item)
}

// Close flushes telemetry and closes the database.
func (r *recorder) Close() {
	if r == nil {
		return
	}
	if r.metrics != nil {
		if err := r.metrics.Close(); err != nil {
			slog.Warn("telemetry_flush_failed", slog.String("error", err.Error()))
		}
	}
	_ = r.store.Close()
}

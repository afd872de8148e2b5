// Package logging configures structured slog output for seqmatch.
//
// Logs are JSON lines written through a size-rotating file writer under
// ~/.seqmatch/logs/. With --debug the level drops to debug and every line is
// also copied to stderr. The Viewer reads those files back for the
// `seqmatch logs` command.
package logging

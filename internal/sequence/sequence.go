// Package sequence loads DNA sequences from disk and exposes the built-in samples.
package sequence

import (
	"bufio"
	"bytes"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	seqerrors "github.com/Aman-CERP/seqmatch/internal/errors"
)

// Format identifies how a sequence file was encoded.
type Format string

const (
	FormatPlain Format = "plain"
	FormatFASTA Format = "fasta"
)

// maxLineBytes bounds a single input line. Unwrapped FASTA records can be long.
const maxLineBytes = 16 * 1024 * 1024

// Sequence is a named DNA string ready for indexing.
type Sequence struct {
	Name   string `json:"name"`
	Data   string `json:"data"`
	Format Format `json:"format"`
}

// Len returns the number of bases.
func (s *Sequence) Len() int {
	return len(s.Data)
}

// Load reads a plain or FASTA file. The name defaults to the file's base name
// unless a FASTA header provides one.
func Load(path string) (*Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		switch {
		case stderrors.Is(err, fs.ErrNotExist):
			return nil, seqerrors.New(seqerrors.ErrCodeFileNotFound, "sequence file not found", err).
				WithDetail("path", path)
		case stderrors.Is(err, fs.ErrPermission):
			return nil, seqerrors.New(seqerrors.ErrCodeFilePermission, "cannot read sequence file", err).
				WithDetail("path", path)
		default:
			return nil, seqerrors.IOError("failed to open sequence file", err).WithDetail("path", path)
		}
	}
	defer func() { _ = f.Close() }()

	seq, err := Parse(f)
	if err != nil {
		return nil, seqerrors.New(seqerrors.ErrCodeFileCorrupt, "failed to read sequence file", err).
			WithDetail("path", path)
	}
	if seq.Name == "" {
		seq.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return seq, nil
}

// Parse reads a sequence from r. Input starting with '>' is FASTA: header lines
// are dropped, records are concatenated and the first header names the result.
// Otherwise all whitespace is stripped. Case is preserved; validation normalizes.
func Parse(r io.Reader) (*Sequence, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	seq := &Sequence{Format: FormatPlain}
	var data bytes.Buffer
	first := true
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		if first {
			first = false
			if line[0] == '>' {
				seq.Format = FormatFASTA
			}
		}
		if seq.Format == FormatFASTA {
			if line[0] == '>' {
				if seq.Name == "" {
					seq.Name = strings.TrimSpace(string(line[1:]))
				}
				continue
			}
			// FASTA comment lines
			if line[0] == ';' {
				continue
			}
		}
		for _, b := range line {
			if b != ' ' && b != '\t' {
				data.WriteByte(b)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	seq.Data = data.String()
	return seq, nil
}

package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans each write out to all writers,
// e.g. log lines to both stdout and the rotated log file.
type CombinedWriter struct {
	writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		writers: append([]io.Writer(nil), writers...),
	}
}

// Write reports the length of p when at least one writer accepted it fully,
// along with the combined errors of the ones that failed.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var err error
	written := 0
	for _, w := range cw.writers {
		n, werr := w.Write(p)
		if werr != nil {
			err = multierr.Append(err, werr)
			continue
		}
		if n > written {
			written = n
		}
	}
	return written, err
}

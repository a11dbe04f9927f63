package pipeline

import (
	"bufio"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dumpsift/dumpsift/statement"
	"github.com/rs/zerolog"
)

// Gather reassembles a dump: it copies the skeleton to outputPath,
// replacing every inline marker with the contents of the working file the
// marker points at.
func Gather(logger zerolog.Logger, skeletonPath, outputPath string) error {
	in, err := os.Open(skeletonPath)
	if err != nil {
		return errors.Wrapf(err, "opening skeleton %s", skeletonPath)
	}
	defer func() { _ = in.Close() }()

	out, err := newProcWriter(outputPath)
	if err != nil {
		return err
	}
	defer out.Discard()

	tables := 0
	r := bufio.NewReader(in)
	for {
		line, err := r.ReadString('\n')
		if len(line) > 0 {
			if statement.IsInlineMarker(line) {
				path, table, err := statement.ParseInlineMarker(line)
				if err != nil {
					return err
				}
				if err := inlineFile(out, path); err != nil {
					return errors.Wrapf(err, "inlining data for table %s", table)
				}
				tables++
			} else if err := out.WriteString(line); err != nil {
				return err
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "reading skeleton %s", skeletonPath)
		}
	}
	if err := out.Commit(); err != nil {
		return err
	}
	logger.Info().
		Int("tables", tables).
		Str("path", outputPath).
		Msg("dump reassembled")
	return nil
}

func inlineFile(out *procWriter, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return errors.Wrapf(err, "opening working file %s", path)
	}
	defer func() { _ = f.Close() }()

	return out.ReadFrom(f)
}

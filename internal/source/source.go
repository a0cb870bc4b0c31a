// Package source reads newline-delimited records from a stream or a file
// that keeps growing.
package source

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"

	"github.com/getdelta/firehose-writer/pkg/log"
)

// LineFunc receives one non-empty line without its line terminator.
// The slice is not reused by the reader.
type LineFunc func(line []byte) error

// ReadLines calls fn for every non-empty line of r until EOF, ctx is done
// or fn fails. A final line without a terminator is delivered too.
func ReadLines(ctx context.Context, r io.Reader, fn LineFunc) error {
	var partial []byte
	if err := readAvailable(ctx, bufio.NewReader(r), &partial, fn); err != nil {
		return err
	}
	return emit(partial, fn)
}

// Follow reads path from the start and then keeps delivering lines appended
// to it until ctx is done, like tail -F. A file replaced at the same path
// (log rotation) is reopened and read from its start. Incomplete trailing
// lines are held back until their terminator arrives.
func Follow(ctx context.Context, path string, fn LineFunc, logger log.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory so that rename-and-recreate is observed.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer func() { f.Close() }()

	r := bufio.NewReader(f)
	var partial []byte
	if err := readAvailable(ctx, r, &partial, fn); err != nil {
		return err
	}

	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}

			if event.Op&fsnotify.Create != 0 {
				// Drain what was written to the old file before it moved.
				if err := readAvailable(ctx, r, &partial, fn); err != nil {
					return err
				}
				next, err := os.Open(path)
				if err != nil {
					logger.Warn("reopen followed file", log.String("path", path), log.Err(err))
					continue
				}
				f.Close()
				f = next
				r.Reset(f)
				partial = nil
				logger.Info("followed file replaced, reading from start", log.String("path", path))
			}

			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				if err := readAvailable(ctx, r, &partial, fn); err != nil {
					return err
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", log.String("path", path), log.Err(err))
		}
	}
}

// readAvailable delivers every complete line currently readable from r.
// Bytes after the last terminator are kept in partial.
func readAvailable(ctx context.Context, r *bufio.Reader, partial *[]byte, fn LineFunc) error {
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		chunk, err := r.ReadBytes('\n')
		if len(chunk) > 0 {
			*partial = append(*partial, chunk...)
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}

		line := *partial
		*partial = nil
		if err := emit(line, fn); err != nil {
			return err
		}
	}
}

func emit(line []byte, fn LineFunc) error {
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return nil
	}
	return fn(line)
}

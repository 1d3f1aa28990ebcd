package protocol

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/lab1702/tank-agent/game"
)

type lineResult struct {
	line []byte
	err  error
}

// Stdio exchanges newline-delimited text records over a reader/writer pair,
// normally the process's stdin and stdout.
type Stdio struct {
	codec Codec
	in    io.Reader
	out   *bufio.Writer
	lines chan lineResult
	once  sync.Once

	done      chan struct{} // closed by Close
	exited    chan struct{} // closed when pump returns
	closeOnce sync.Once
}

// NewStdio creates a line transport. The codec must be a text codec.
func NewStdio(in io.Reader, out io.Writer, codec Codec) (*Stdio, error) {
	if codec.Binary() {
		return nil, fmt.Errorf("codec %s cannot be line delimited", codec.Name())
	}
	return &Stdio{
		codec: codec,
		in:    in,
		out:   bufio.NewWriter(out),
		lines:  make(chan lineResult),
		done:   make(chan struct{}),
		exited: make(chan struct{}),
	}, nil
}

// pump reads lines until the input fails or the transport is closed. Blank
// lines are skipped.
func (s *Stdio) pump() {
	defer close(s.exited)
	r := bufio.NewReader(s.in)
	for {
		line, err := r.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 && !s.send(lineResult{line: line}) {
			return
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			if s.send(lineResult{err: err}) {
				close(s.lines)
			}
			return
		}
	}
}

// send hands a result to Read. It reports false once the transport is closed.
func (s *Stdio) send(res lineResult) bool {
	select {
	case s.lines <- res:
		return true
	case <-s.done:
		return false
	}
}

func (s *Stdio) Read(ctx context.Context) (Record, error) {
	s.once.Do(func() { go s.pump() })

	select {
	case <-ctx.Done():
		return Record{}, ctx.Err()
	case <-s.done:
		return Record{}, io.ErrClosedPipe
	case res, ok := <-s.lines:
		if !ok {
			return Record{}, io.ErrClosedPipe
		}
		if res.err != nil {
			return Record{}, fmt.Errorf("read line: %w", res.err)
		}
		return s.codec.Decode(res.line)
	}
}

func (s *Stdio) Write(ctx context.Context, act game.Action) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := s.codec.Encode(act)
	if err != nil {
		return fmt.Errorf("encode action: %w", err)
	}
	if _, err := s.out.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write line: %w", err)
	}
	return s.out.Flush()
}

// Close stops the line reader and closes the input if it can be closed. It
// is safe to call more than once.
func (s *Stdio) Close() error {
	s.closeOnce.Do(func() { close(s.done) })
	if c, ok := s.in.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

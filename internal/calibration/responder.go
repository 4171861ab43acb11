package calibration

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
)

// ConsoleResponder asks the listener on a terminal. Any answer containing a
// "y" (either case) counts as heard.
type ConsoleResponder struct {
	in   *bufio.Reader
	out  io.Writer
	once sync.Once
	// lines is fed by a single reader goroutine and closed after the first read error
	lines chan readResult
}

type readResult struct {
	line string
	err  error
}

// NewConsoleResponder creates a responder reading answers from in and writing prompts to out
func NewConsoleResponder(in io.Reader, out io.Writer) *ConsoleResponder {
	return &ConsoleResponder{in: bufio.NewReader(in), out: out}
}

// Heard prompts for and reads one answer. It returns ctx.Err() as soon as ctx
// is done, even while waiting for input.
func (r *ConsoleResponder) Heard(ctx context.Context, frequency, levelDB float64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	fmt.Fprintf(r.out, "  [%v Hz, %v dB] Did you hear the tone at this level? (y/n): ", frequency, levelDB)
	line, err := r.readLine(ctx)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToLower(line), "y"), nil
}

// WaitForEnter shows msg and blocks until the listener presses Enter or ctx is done
func (r *ConsoleResponder) WaitForEnter(ctx context.Context, msg string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	fmt.Fprint(r.out, msg)
	_, err := r.readLine(ctx)
	return err
}

func (r *ConsoleResponder) readLine(ctx context.Context) (string, error) {
	r.once.Do(r.startReader)

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-r.lines:
		if !ok {
			return "", fmt.Errorf("failed to read answer: %w", io.EOF)
		}
		if errors.Is(res.err, io.EOF) && res.line != "" {
			return res.line, nil
		}
		if res.err != nil {
			return "", fmt.Errorf("failed to read answer: %w", res.err)
		}
		return res.line, nil
	}
}

// startReader moves the blocking reads off the caller so a cancelled prompt
// returns immediately. An unanswered line stays queued for the next prompt.
func (r *ConsoleResponder) startReader() {
	r.lines = make(chan readResult)
	go func() {
		defer close(r.lines)
		for {
			line, err := r.in.ReadString('\n')
			r.lines <- readResult{line: line, err: err}
			if err != nil {
				return
			}
		}
	}()
}

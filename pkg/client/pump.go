package client

import (
	"bufio"
	"context"
	"io"
	"strings"
)

type inputResult struct {
	text string
	err  error
}

// linePump reads user lines in the background so a blocked read never
// holds up cancellation. After stop, the goroutine exits as soon as its
// pending read returns.
type linePump struct {
	ch   chan inputResult
	done chan struct{}
}

func newLinePump(r io.Reader) *linePump {
	p := &linePump{
		ch:   make(chan inputResult),
		done: make(chan struct{}),
	}
	go p.run(bufio.NewReader(r))
	return p
}

func (p *linePump) run(r *bufio.Reader) {
	defer close(p.ch)
	for {
		text, err := r.ReadString('\n')
		if text != "" {
			if !p.send(inputResult{text: strings.TrimRight(text, "\r\n")}) {
				return
			}
		}
		if err != nil {
			if err != io.EOF {
				p.send(inputResult{err: err})
			}
			return
		}
	}
}

func (p *linePump) send(res inputResult) bool {
	select {
	case p.ch <- res:
		return true
	case <-p.done:
		return false
	}
}

// stop releases the pump goroutine. It is safe to call once.
func (p *linePump) stop() {
	close(p.done)
}

// next returns the next user line. io.EOF means the user closed input.
func (p *linePump) next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res, ok := <-p.ch:
		if !ok {
			return "", io.EOF
		}
		return res.text, res.err
	}
}

// FILE: lixenwraith/smartlog/cmd/smartlog/input.go
package main

import (
	"bufio"
	"context"
	"io"

	"github.com/hpcloud/tail"
	"github.com/lixenwraith/smartlog"
)

// maxLineSize bounds a single forwarded line
const maxLineSize = 1 << 20

// forwardReader emits every line of r as an info record until EOF or ctx is done
func forwardReader(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return nil
		}
		forwardLine(scanner.Text())
	}
	return scanner.Err()
}

// forwardTail follows path across truncation and rotation until ctx is done
func forwardTail(ctx context.Context, path string) error {
	t, err := tail.TailFile(path, tail.Config{
		Follow:      true,
		ReOpen:      true,
		MaxLineSize: maxLineSize,
		Location:    &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd},
		Logger:      tail.DiscardingLogger,
	})
	if err != nil {
		return err
	}
	defer t.Cleanup()

	for {
		select {
		case <-ctx.Done():
			return t.Stop()
		case line, ok := <-t.Lines:
			if !ok {
				return t.Err()
			}
			if line.Err != nil {
				smartlog.ReportError(line.Err)
				continue
			}
			forwardLine(line.Text)
		}
	}
}

// forwardLine skips blank lines
func forwardLine(text string) {
	if text == "" {
		return
	}
	smartlog.Info(smartlog.Msg(text))
}

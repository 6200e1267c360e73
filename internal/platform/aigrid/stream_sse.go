package aigrid

import (
	"bufio"
	"errors"
	"io"
	"strings"
)

// errStreamDone is the internal sentinel used to stop the SSE scan once the
// terminator frame arrives.
var errStreamDone = errors.New("stream done")

// streamSSE reads a text/event-stream body and invokes onEvent once per
// complete frame. Frames are flushed on the blank line separator. A non-nil
// error from onEvent aborts the scan and is returned as-is.
func streamSSE(r io.Reader, onEvent func(event string, data string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64<<10), 1<<20)

	var event string
	var data strings.Builder

	flush := func() error {
		if event == "" && data.Len() == 0 {
			return nil
		}
		err := onEvent(event, data.String())
		event = ""
		data.Reset()
		return err
	}

	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			if err := flush(); err != nil {
				return err
			}
			continue
		}
		switch {
		case strings.HasPrefix(line, ":"):
			// comment / keep-alive
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			if data.Len() > 0 {
				data.WriteByte('\n')
			}
			data.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		}
	}
	if err := sc.Err(); err != nil {
		return err
	}
	return flush()
}

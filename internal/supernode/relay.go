package supernode

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
)

// LineSink consumes one trimmed line of worker output at a time.
type LineSink interface {
	WriteLine(line string)
}

// LineSinkFunc adapts a plain function to the LineSink interface.
type LineSinkFunc func(line string)

func (f LineSinkFunc) WriteLine(line string) {
	f(line)
}

// LogSink echoes each line through the logger, tagged with a stream label.
type LogSink struct {
	Logger hclog.Logger
	Label  string
}

func (s *LogSink) WriteLine(line string) {
	s.Logger.Info(fmt.Sprintf("[%s] %s", s.Label, line))
}

// TeeSink fans each line out to every wrapped sink in order.
type TeeSink struct {
	sinks []LineSink
}

func NewTeeSink(sinks ...LineSink) *TeeSink {
	return &TeeSink{sinks: sinks}
}

func (t *TeeSink) WriteLine(line string) {
	for _, sink := range t.sinks {
		sink.WriteLine(line)
	}
}

// RelayLines drains one worker output stream line by line, passing each
// right-trimmed line to the sink, and returns only when the stream reaches
// EOF or is closed. Lines may be arbitrarily long; the stream must be drained
// to the end no matter what the worker writes, or the worker blocks on a full
// pipe and never exits. Read errors are logged and end the relay; they never
// abort the surrounding run.
func RelayLines(r io.Reader, sink LineSink, logger hclog.Logger) {
	reader := bufio.NewReaderSize(r, 64*1024)

	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			sink.WriteLine(strings.TrimRight(line, " \t\r\n"))
		}
		if err != nil {
			if err != io.EOF {
				logger.Warn(fmt.Sprintf("stream relay stopped: %s", err.Error()))
			}
			return
		}
	}
}

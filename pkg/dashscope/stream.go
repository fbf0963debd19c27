package dashscope

import (
	"bufio"
	"bytes"
	"io"

	"github.com/rotisserie/eris"
	"github.com/tidwall/gjson"
)

// Stream iterates over the raw JSON payloads of a streamed generation.
// Callers must Close the stream.
type Stream interface {
	Next() bool
	Chunk() []byte
	Err() error
	Close() error
}

// sseReader parses Server-Sent Events from a response body.
type sseReader struct {
	reader *bufio.Reader
}

func newSSEReader(r io.Reader) *sseReader {
	return &sseReader{reader: bufio.NewReader(r)}
}

// readEvent returns the next event's type and joined data lines. It returns
// io.EOF once the body is exhausted.
func (s *sseReader) readEvent() (string, []byte, error) {
	var eventType string
	var dataLines [][]byte

	for {
		line, err := s.reader.ReadBytes('\n')
		if err != nil {
			if err == io.EOF {
				if len(dataLines) > 0 {
					return eventType, bytes.Join(dataLines, []byte("\n")), nil
				}
				return "", nil, io.EOF
			}
			return "", nil, err
		}

		line = bytes.TrimRight(line, "\r\n")

		// Blank line terminates an event.
		if len(line) == 0 {
			if len(dataLines) > 0 {
				return eventType, bytes.Join(dataLines, []byte("\n")), nil
			}
			continue
		}

		switch {
		case bytes.HasPrefix(line, []byte("event:")):
			eventType = string(bytes.TrimSpace(line[len("event:"):]))
		case bytes.HasPrefix(line, []byte("data:")):
			dataLines = append(dataLines, bytes.TrimSpace(line[len("data:"):]))
		}
		// id:, retry: and comment lines are ignored.
	}
}

// StreamError is reported when the service emits an error event mid-stream.
type StreamError struct {
	Code      string
	Message   string
	RequestID string
}

func (e *StreamError) Error() string {
	return "dashscope: stream error " + e.Code + ": " + e.Message
}

type sseStream struct {
	body   io.ReadCloser
	reader *sseReader
	chunk  []byte
	err    error
	done   bool
}

func newStream(body io.ReadCloser) *sseStream {
	return &sseStream{body: body, reader: newSSEReader(body)}
}

func (s *sseStream) Next() bool {
	if s.done {
		return false
	}
	for {
		event, data, err := s.reader.readEvent()
		if err != nil {
			s.done = true
			if err != io.EOF {
				s.err = eris.Wrap(err, "dashscope: read stream")
			}
			return false
		}

		if event == "error" || gjson.GetBytes(data, "code").String() != "" {
			s.done = true
			s.err = &StreamError{
				Code:      gjson.GetBytes(data, "code").String(),
				Message:   gjson.GetBytes(data, "message").String(),
				RequestID: gjson.GetBytes(data, "request_id").String(),
			}
			return false
		}

		if len(data) == 0 || !gjson.ValidBytes(data) {
			continue
		}

		s.chunk = data
		if gjson.GetBytes(data, "output.finish_reason").String() == "stop" ||
			gjson.GetBytes(data, "output.choices.0.finish_reason").String() == "stop" {
			s.done = true
		}
		return true
	}
}

func (s *sseStream) Chunk() []byte { return s.chunk }

func (s *sseStream) Err() error { return s.err }

func (s *sseStream) Close() error { return s.body.Close() }

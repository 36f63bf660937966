package api

import (
	"bufio"
	"context"
	"errors"
	"io"
	"iter"

	// Packages
	schema "github.com/mutablelogic/go-gemini/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS
//
// The streaming endpoint returns a single pretty-printed JSON array of
// response objects, written incrementally as generation proceeds. Elements
// are carved out by counting brace and bracket depth with string and escape
// awareness, so chunk boundaries can fall anywhere, including mid-string.
// Each element is decoded and delivered as soon as its closing brace
// arrives.

// decodeStream lazily decodes the streamed JSON array from r. Iteration
// ends at the closing bracket; anything else, including running out of
// input, is an error.
func decodeStream(r io.Reader) iter.Seq2[*schema.GenerateContentResponse, error] {
	return func(yield func(*schema.GenerateContentResponse, error) bool) {
		br := bufio.NewReader(r)

		// The stream opens with the array bracket
		c, err := nextByte(br)
		if err != nil {
			yield(nil, streamErr(err))
			return
		}
		if c != '[' {
			yield(nil, ErrSerialization.Withf("expected stream to open with '[', got %q", c))
			return
		}

		for {
			c, err := nextByte(br)
			if err != nil {
				yield(nil, streamErr(err))
				return
			}
			switch c {
			case ']':
				// Clean end of stream
				return
			case ',':
				continue
			case '{':
				data, err := readElement(br)
				if err != nil {
					yield(nil, streamErr(err))
					return
				}
				var element schema.GenerateContentResponse
				if err := schema.Unmarshal(data, &element); err != nil {
					yield(nil, ErrSerialization.With(err))
					return
				}
				if !yield(&element, nil) {
					return
				}
			default:
				yield(nil, ErrSerialization.Withf("unexpected %q in stream", c))
				return
			}
		}
	}
}

// readElement consumes one JSON object whose opening brace has already been
// read, returning its complete text
func readElement(br *bufio.Reader) ([]byte, error) {
	buf := []byte{'{'}
	depth := 1
	inString := false
	escaped := false
	for {
		c, err := br.ReadByte()
		if err != nil {
			return nil, err
		}
		buf = append(buf, c)
		switch {
		case escaped:
			escaped = false
		case inString:
			if c == '\\' {
				escaped = true
			} else if c == '"' {
				inString = false
			}
		case c == '"':
			inString = true
		case c == '{' || c == '[':
			depth++
		case c == '}' || c == ']':
			if depth--; depth == 0 {
				return buf, nil
			}
		}
	}
}

// nextByte returns the next non-whitespace byte
func nextByte(br *bufio.Reader) (byte, error) {
	for {
		c, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		return c, nil
	}
}

// streamErr maps a read failure: cancellation and deadlines keep their
// meaning, anything else means the array was truncated or malformed
func streamErr(err error) error {
	switch {
	case errors.Is(err, context.Canceled):
		return context.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return ErrTimeout.With(err)
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return ErrSerialization.With("unexpected end of stream")
	}
	return ErrSerialization.With(err)
}

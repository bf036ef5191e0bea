package messaging

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/rs/zerolog/log"
)

// MaxMessageSize caps one incoming native message
const MaxMessageSize = 4 << 20

// ErrMessageTooLarge is returned for frames over MaxMessageSize
var ErrMessageTooLarge = errors.New("native message exceeds size limit")

// ReadMessage reads one native-messaging frame: a 4-byte little-endian
// length followed by that many bytes of JSON. io.EOF means the browser
// closed the pipe between frames.
func ReadMessage(r io.Reader) ([]byte, error) {
	var n uint32
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	if n > MaxMessageSize {
		return nil, ErrMessageTooLarge
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, err
	}
	return buf, nil
}

// WriteMessage writes v as one native-messaging frame
func WriteMessage(w io.Writer, v interface{}) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(len(body))); err != nil {
		return err
	}
	_, err = w.Write(body)
	return err
}

// Host serves native messages from the browser over a pipe pair
type Host struct {
	handler *Handler
	mu      sync.Mutex
}

// NewHost creates a host around h
func NewHost(h *Handler) *Host {
	return &Host{handler: h}
}

// Serve answers frames from r on w until r is closed or ctx ends. Requests
// are handled one at a time, in order.
func (s *Host) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		frame, err := ReadMessage(r)
		if errors.Is(err, io.EOF) {
			log.Debug().Msg("Native messaging pipe closed")
			return nil
		}
		if err != nil {
			// framing is lost; nothing more can be read reliably
			_ = s.write(w, Response{Error: "malformed native message", Code: engine.ErrCodeParseError})
			return fmt.Errorf("reading native message: %w", err)
		}

		var req Request
		var resp Response
		if err := json.Unmarshal(frame, &req); err != nil {
			resp = Response{Error: "request is not valid JSON", Code: engine.ErrCodeParseError}
		} else {
			log.Debug().Str("action", req.Action).Str("url", req.URL).Msg("Native message received")
			resp = s.handler.Handle(ctx, req)
		}

		if err := s.write(w, resp); err != nil {
			return fmt.Errorf("writing native message: %w", err)
		}
	}
}

func (s *Host) write(w io.Writer, resp Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return WriteMessage(w, resp)
}

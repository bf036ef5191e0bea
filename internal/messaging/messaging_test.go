package messaging

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"io"
	"testing"

	"github.com/law-makers/boardid/internal/engine"
	"github.com/law-makers/boardid/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	out   *models.Outcome
	err   error
	panic bool
	got   models.RequestOptions
}

func (s *stubExtractor) Name() string { return "stub" }

func (s *stubExtractor) Extract(_ context.Context, opts models.RequestOptions) (*models.Outcome, error) {
	s.got = opts
	if s.panic {
		panic("boom")
	}
	return s.out, s.err
}

func success() *models.Outcome {
	return &models.Outcome{
		Board:  &models.Board{ID: "123456789", Name: "Recipes", URL: "https://www.pinterest.com/u/recipes"},
		Method: models.MethodDeepLink,
		Meta:   models.PageMeta{URL: "https://www.pinterest.com/u/recipes", Title: "Recipes"},
	}
}

func TestHandler_Success(t *testing.T) {
	ex := &stubExtractor{out: success()}
	h := NewHandler(ex, models.RequestOptions{Mode: models.ModeLive}, 0)

	resp := h.Handle(context.Background(), Request{Action: ActionExtractBoardID, URL: "https://www.pinterest.com/u/recipes"})
	assert.True(t, resp.Success)
	assert.Equal(t, "123456789", resp.ID)
	assert.Equal(t, models.MethodDeepLink, resp.Method)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, "Recipes", resp.Meta.Title)
	assert.Equal(t, models.ModeLive, ex.got.Mode)
	assert.Equal(t, "https://www.pinterest.com/u/recipes", ex.got.URL)
}

func TestHandler_Failures(t *testing.T) {
	notFound := engine.NewEngineError(engine.ErrCodeNotFound, engine.MsgNoIdentifier, nil)

	tests := []struct {
		name     string
		ex       *stubExtractor
		req      Request
		code     engine.ErrorCode
		wantMeta bool
	}{
		{"unknown action", &stubExtractor{}, Request{Action: "PING"}, engine.ErrCodeUnsupported, false},
		{"validation", &stubExtractor{err: engine.NewEngineError(engine.ErrCodeValidation, engine.MsgInvalidURL, nil)}, Request{Action: ActionExtractBoardID}, engine.ErrCodeValidation, false},
		{"not found keeps meta", &stubExtractor{out: &models.Outcome{Err: notFound, Meta: models.PageMeta{Title: "Private"}}, err: notFound}, Request{Action: ActionExtractBoardID}, engine.ErrCodeNotFound, true},
		{"panic", &stubExtractor{panic: true}, Request{Action: ActionExtractBoardID}, engine.ErrCodeInternal, false},
		{"nil outcome without error", &stubExtractor{}, Request{Action: ActionExtractBoardID}, engine.ErrCodeNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := NewHandler(tt.ex, models.RequestOptions{}, 0).Handle(context.Background(), tt.req)
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.wantMeta, resp.Meta != nil)
		})
	}
}

func TestFraming_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMessage(&buf, Request{Action: ActionExtractBoardID}))

	raw := buf.Bytes()
	assert.Equal(t, uint32(len(raw)-4), binary.LittleEndian.Uint32(raw[:4]))

	frame, err := ReadMessage(&buf)
	require.NoError(t, err)
	assert.JSONEq(t, `{"action":"EXTRACT_BOARD_ID"}`, string(frame))

	_, err = ReadMessage(&buf)
	assert.ErrorIs(t, err, io.EOF)
}

func TestReadMessage_Errors(t *testing.T) {
	var huge bytes.Buffer
	_ = binary.Write(&huge, binary.LittleEndian, uint32(MaxMessageSize+1))
	_, err := ReadMessage(&huge)
	assert.ErrorIs(t, err, ErrMessageTooLarge)

	var short bytes.Buffer
	_ = binary.Write(&short, binary.LittleEndian, uint32(10))
	short.WriteString("abc")
	_, err = ReadMessage(&short)
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func frames(t *testing.T, msgs ...interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	for _, m := range msgs {
		if raw, ok := m.(string); ok {
			_ = binary.Write(&buf, binary.LittleEndian, uint32(len(raw)))
			buf.WriteString(raw)
			continue
		}
		require.NoError(t, WriteMessage(&buf, m))
	}
	return &buf
}

func readResponses(t *testing.T, r io.Reader) []Response {
	t.Helper()
	var out []Response
	for {
		frame, err := ReadMessage(r)
		if err == io.EOF {
			return out
		}
		require.NoError(t, err)
		var resp Response
		require.NoError(t, json.Unmarshal(frame, &resp))
		out = append(out, resp)
	}
}

func TestHost_OneResponsePerRequest(t *testing.T) {
	host := NewHost(NewHandler(&stubExtractor{out: success()}, models.RequestOptions{}, 0))
	in := frames(t,
		Request{Action: ActionExtractBoardID, URL: "https://www.pinterest.com/u/recipes"},
		"{not json",
		Request{Action: "OTHER"},
	)

	var out bytes.Buffer
	require.NoError(t, host.Serve(context.Background(), in, &out))

	responses := readResponses(t, &out)
	require.Len(t, responses, 3)
	assert.True(t, responses[0].Success)
	assert.Equal(t, engine.ErrCodeParseError, responses[1].Code)
	assert.Equal(t, engine.ErrCodeUnsupported, responses[2].Code)
}

func TestHost_TruncatedFrameStillAnswers(t *testing.T) {
	host := NewHost(NewHandler(&stubExtractor{out: success()}, models.RequestOptions{}, 0))

	var in bytes.Buffer
	_ = binary.Write(&in, binary.LittleEndian, uint32(50))
	in.WriteString(`{"action":`)

	var out bytes.Buffer
	assert.Error(t, host.Serve(context.Background(), &in, &out))
	responses := readResponses(t, &out)
	require.Len(t, responses, 1)
	assert.False(t, responses[0].Success)
}

package asr

import (
	"context"
	"time"

	"github.com/bytedance/sonic"

	perrors "sauc-client-go/internal/platform/errors"
	"sauc-client-go/internal/platform/logging"
	"sauc-client-go/internal/protocol"
)

// sessionState tracks the recognition conversation. Transitions only move
// forward; no state is ever revisited.
type sessionState int

const (
	stateConnecting sessionState = iota
	stateAwaitingConfigAck
	stateStreaming
	stateFinalizing
	stateCompleted
	stateFailed
)

func (s sessionState) String() string {
	switch s {
	case stateConnecting:
		return "Connecting"
	case stateAwaitingConfigAck:
		return "AwaitingConfigAck"
	case stateStreaming:
		return "Streaming"
	case stateFinalizing:
		return "Finalizing"
	case stateCompleted:
		return "Completed"
	case stateFailed:
		return "Failed"
	}
	return "Unknown"
}

// The service acknowledges the handshake with this status code.
const serverCodeOK = 20000000

// frameConn is the transport surface the state machine drives. Implemented
// by *transport.Session; tests substitute a scripted connection.
type frameConn interface {
	SendFrame(*protocol.Frame) error
	ReceiveFrame(timeout time.Duration) (*protocol.Frame, error)
	Close() error
}

// session drives one recognition conversation over an exclusively owned
// connection: handshake, sequenced audio frames, terminator, final result.
// It is single-goroutine; sends and receives interleave on the drive loop.
type session struct {
	conn   frameConn
	config RecognitionConfig
	logger *logging.Logger

	pollTimeout  time.Duration
	finalTimeout time.Duration

	state sessionState
	seq   int32
	acc   Result
}

func newSession(conn frameConn, config RecognitionConfig, logger *logging.Logger,
	pollTimeout, finalTimeout time.Duration) *session {
	if logger == nil {
		logger = logging.Discard()
	}
	return &session{
		conn:         conn,
		config:       config.normalized(),
		logger:       logger,
		pollTimeout:  pollTimeout,
		finalTimeout: finalTimeout,
		state:        stateConnecting,
	}
}

// run executes the session to completion, emitting each merged result.
// The connection is closed on every exit path; Close is idempotent so the
// redundant deferred call is harmless.
func (s *session) run(ctx context.Context, chunks <-chan []byte, emit func(Result)) error {
	defer s.conn.Close()

	if err := s.sendHandshake(); err != nil {
		return s.fail(err)
	}
	if err := s.awaitConfigAck(ctx); err != nil {
		return s.fail(err)
	}

	if err := s.streamAudio(ctx, chunks, emit); err != nil {
		return s.fail(err)
	}

	if err := s.finalize(ctx, emit); err != nil {
		return s.fail(err)
	}

	s.transition(stateCompleted)
	return nil
}

// sendHandshake serializes the recognition config into the one
// FullClientRequest frame. It carries no sequence number.
func (s *session) sendHandshake() error {
	payload, err := sonic.Marshal(s.config)
	if err != nil {
		return perrors.Wrap(perrors.KindConfig, "handshake", "serialize recognition config", err)
	}

	s.transition(stateAwaitingConfigAck)
	return s.conn.SendFrame(&protocol.Frame{
		Type:          protocol.MsgFullClientRequest,
		Flags:         protocol.FlagNone,
		Serialization: protocol.SerializationJSON,
		Compression:   protocol.CompressionGzip,
		Payload:       payload,
	})
}

func (s *session) awaitConfigAck(ctx context.Context) error {
	frame, err := s.receiveWithin(ctx, s.finalTimeout)
	if err != nil {
		return err
	}

	if _, err := s.parseResponse(frame, perrors.KindRejectedConfig, "handshake"); err != nil {
		return err
	}

	s.transition(stateStreaming)
	return nil
}

// streamAudio sends each chunk with a strictly increasing positive sequence
// and opportunistically polls for partial results between sends. A poll
// timeout is not an error; it just keeps the audio flowing.
func (s *session) streamAudio(ctx context.Context, chunks <-chan []byte, emit func(Result)) error {
	for {
		select {
		case <-ctx.Done():
			return s.cancelled(ctx)
		case chunk, ok := <-chunks:
			if !ok {
				return nil
			}
			if len(chunk) == 0 {
				continue
			}

			s.seq++
			if err := s.conn.SendFrame(&protocol.Frame{
				Type:          protocol.MsgAudioOnlyRequest,
				Flags:         protocol.FlagSequencePositive,
				Serialization: protocol.SerializationNone,
				Compression:   protocol.CompressionGzip,
				Sequence:      s.seq,
				Payload:       chunk,
			}); err != nil {
				return err
			}

			frame, err := s.conn.ReceiveFrame(s.pollTimeout)
			if err != nil {
				if perrors.IsKind(err, perrors.KindReceiveTimeout) {
					continue
				}
				return err
			}

			resp, err := s.parseResponse(frame, perrors.KindServer, "stream")
			if err != nil {
				return err
			}
			if s.merge(resp) {
				emit(s.snapshot(false))
			}
		}
	}
}

// finalize sends the empty last-packet frame with a negated sequence and
// blocks, bounded by the final timeout, for the definitive response.
func (s *session) finalize(ctx context.Context, emit func(Result)) error {
	s.transition(stateFinalizing)

	s.seq++
	if err := s.conn.SendFrame(&protocol.Frame{
		Type:          protocol.MsgAudioOnlyRequest,
		Flags:         protocol.FlagSequenceNegative,
		Serialization: protocol.SerializationNone,
		Compression:   protocol.CompressionGzip,
		Sequence:      -s.seq,
		Payload:       []byte{},
	}); err != nil {
		return err
	}

	frame, err := s.receiveWithin(ctx, s.finalTimeout)
	if err != nil {
		if perrors.IsKind(err, perrors.KindReceiveTimeout) {
			return perrors.New(perrors.KindReceiveTimeout, "finalize", "no final response within timeout")
		}
		return err
	}

	resp, err := s.parseResponse(frame, perrors.KindServer, "finalize")
	if err != nil {
		return err
	}
	s.merge(resp)
	emit(s.snapshot(true))
	return nil
}

// receiveWithin waits for the next frame up to total, polling in short
// slices so caller cancellation is observed promptly.
func (s *session) receiveWithin(ctx context.Context, total time.Duration) (*protocol.Frame, error) {
	slice := s.pollTimeout
	if slice <= 0 || slice > total {
		slice = total
	}
	deadline := time.Now().Add(total)

	for {
		select {
		case <-ctx.Done():
			return nil, s.cancelled(ctx)
		default:
		}

		frame, err := s.conn.ReceiveFrame(slice)
		if err == nil {
			return frame, nil
		}
		if !perrors.IsKind(err, perrors.KindReceiveTimeout) {
			return nil, err
		}
		if time.Now().After(deadline) {
			return nil, err
		}
	}
}

// parseResponse validates a received frame and decodes its payload. Error
// frames and non-success status codes surface under errKind.
func (s *session) parseResponse(frame *protocol.Frame, errKind perrors.Kind, op string) (*protocol.ServerResponse, error) {
	switch frame.Type {
	case protocol.MsgError:
		resp, err := protocol.DecodeServerResponse(frame.Payload)
		if err != nil {
			return nil, err
		}
		message := resp.Message
		if message == "" {
			message = "server reported an error"
		}
		return nil, perrors.NewServer(errKind, op, message, resp.Code)

	case protocol.MsgFullServerResponse:
		if frame.Serialization != protocol.SerializationJSON || len(frame.Payload) == 0 {
			return &protocol.ServerResponse{}, nil
		}
		resp, err := protocol.DecodeServerResponse(frame.Payload)
		if err != nil {
			return nil, err
		}
		if resp.Code != 0 && resp.Code != serverCodeOK {
			message := resp.Message
			if message == "" {
				message = "server returned a failure code"
			}
			return nil, perrors.NewServer(errKind, op, message, resp.Code)
		}
		return resp, nil
	}

	return nil, perrors.New(perrors.KindProtocol, op,
		"unexpected message type "+frame.Type.String())
}

// merge folds a server snapshot into the accumulated result. The definite
// prefix of the utterance list is immutable; the snapshot replaces only the
// amendable tail. Reports whether the accumulated result changed.
func (s *session) merge(resp *protocol.ServerResponse) bool {
	if resp == nil || resp.Result == nil {
		return false
	}

	changed := false
	if resp.Result.Text != "" && resp.Result.Text != s.acc.Text {
		s.acc.Text = resp.Result.Text
		changed = true
	}

	if in := convertUtterances(resp.Result.Utterances); len(in) > 0 {
		if len(in) >= definitePrefix(s.acc.Utterances) {
			s.acc.Utterances = in
			changed = true
		}
	}
	return changed
}

func (s *session) snapshot(final bool) Result {
	return Result{
		Text:       s.acc.Text,
		Utterances: cloneUtterances(s.acc.Utterances),
		IsFinal:    final,
	}
}

func (s *session) cancelled(ctx context.Context) error {
	return perrors.Wrap(perrors.KindCancelled, "session", "recognition cancelled", ctx.Err())
}

func (s *session) fail(err error) error {
	s.logger.WarnTag("ASR", "session failed in state %s: %v", s.state, err)
	s.transition(stateFailed)
	return err
}

func (s *session) transition(next sessionState) {
	if next <= s.state {
		return
	}
	s.logger.DebugTag("ASR", "state %s -> %s", s.state, next)
	s.state = next
}

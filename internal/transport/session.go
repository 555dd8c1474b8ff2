// Package transport owns the websocket leg of a recognition session: one
// connection per session, dialed with the service auth headers, speaking
// whole protocol frames.
package transport

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	perrors "sauc-client-go/internal/platform/errors"
	"sauc-client-go/internal/platform/logging"
	"sauc-client-go/internal/protocol"
)

// Credentials are attached as headers on the websocket handshake.
type Credentials struct {
	AppKey      string
	AccessToken string
	ResourceID  string
}

// Options configures Dial.
type Options struct {
	Variant        EndpointVariant
	URL            string // overrides the variant lookup when set; used by tests
	Credentials    Credentials
	ConnectTimeout time.Duration
	Logger         *logging.Logger
}

const receiveBuffer = 16

type received struct {
	frame *protocol.Frame
	err   error
}

// Session owns exactly one live websocket connection. A background reader
// delivers decoded frames to an internal channel so that ReceiveFrame can
// time out without tearing down the connection (a websocket read deadline
// would poison it).
type Session struct {
	conn      *websocket.Conn
	connectID string
	logger    *logging.Logger

	writeMu  sync.Mutex
	closed   atomic.Bool
	closeCh  chan struct{}
	incoming chan received
}

// Dial establishes the websocket connection for one recognition session,
// attaching the auth headers and a fresh connect id.
func Dial(ctx context.Context, opts Options) (*Session, error) {
	if opts.Credentials.AppKey == "" || opts.Credentials.AccessToken == "" {
		return nil, perrors.New(perrors.KindConfig, "dial", "missing app key or access token")
	}

	url := opts.URL
	if url == "" {
		url = EndpointURL(opts.Variant)
	}

	connectID := uuid.NewString()
	headers := http.Header{
		"X-Api-App-Key":     {opts.Credentials.AppKey},
		"X-Api-Access-Key":  {opts.Credentials.AccessToken},
		"X-Api-Resource-Id": {opts.Credentials.ResourceID},
		"X-Api-Connect-Id":  {connectID},
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	timeout := opts.ConnectTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	dialer := websocket.Dialer{HandshakeTimeout: timeout}

	logger.DebugTag("transport", "dialing %s connect_id=%s", url, connectID)

	conn, resp, err := dialer.DialContext(ctx, url, headers)
	if err != nil {
		if isTimeoutErr(err) || errors.Is(err, context.DeadlineExceeded) {
			return nil, perrors.Wrap(perrors.KindConnectTimeout, "dial", "websocket handshake timed out", err)
		}
		if resp != nil {
			return nil, perrors.Wrap(perrors.KindConnect, "dial",
				"websocket handshake rejected: "+resp.Status, err)
		}
		return nil, perrors.Wrap(perrors.KindConnect, "dial", "websocket dial failed", err)
	}

	s := &Session{
		conn:      conn,
		connectID: connectID,
		logger:    logger,
		closeCh:   make(chan struct{}),
		incoming:  make(chan received, receiveBuffer),
	}
	go s.readLoop()

	logger.InfoTag("transport", "connected connect_id=%s", connectID)
	return s, nil
}

// ConnectID returns the per-attempt connection id sent to the service.
func (s *Session) ConnectID() string {
	return s.connectID
}

// SendFrame encodes and writes one frame.
func (s *Session) SendFrame(f *protocol.Frame) error {
	if s.closed.Load() {
		return perrors.New(perrors.KindTransport, "send", "connection already closed")
	}

	data, err := protocol.Marshal(f)
	if err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		return perrors.Wrap(perrors.KindTransport, "send", "write frame", err)
	}
	return nil
}

// ReceiveFrame waits up to timeout for the next frame. A timeout yields a
// receive-timeout error and leaves the connection intact; the frame, when it
// eventually arrives, is delivered to a later call. timeout <= 0 waits until
// the connection closes.
func (s *Session) ReceiveFrame(timeout time.Duration) (*protocol.Frame, error) {
	var timerCh <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timerCh = timer.C
	}

	select {
	case r, ok := <-s.incoming:
		if !ok {
			return nil, perrors.New(perrors.KindTransport, "receive", "connection closed")
		}
		return r.frame, r.err
	case <-timerCh:
		return nil, perrors.New(perrors.KindReceiveTimeout, "receive", "no frame within timeout")
	case <-s.closeCh:
		return nil, perrors.New(perrors.KindTransport, "receive", "connection closed")
	}
}

// Close tears down the connection. Safe to call multiple times; only the
// first call does anything.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(s.closeCh)
	err := s.conn.Close()
	s.logger.DebugTag("transport", "closed connect_id=%s", s.connectID)
	return err
}

// IsReceiveTimeout reports whether err is the tolerated short-poll timeout.
func IsReceiveTimeout(err error) bool {
	return perrors.IsKind(err, perrors.KindReceiveTimeout)
}

func (s *Session) readLoop() {
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if !s.closed.Load() {
				s.deliver(received{err: perrors.Wrap(perrors.KindTransport, "receive", "read frame", err)})
			}
			close(s.incoming)
			return
		}

		frame, err := protocol.Unmarshal(data)
		s.deliver(received{frame: frame, err: err})
	}
}

func (s *Session) deliver(r received) {
	select {
	case s.incoming <- r:
	case <-s.closeCh:
	}
}

func isTimeoutErr(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

package asr

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	perrors "sauc-client-go/internal/platform/errors"
	"sauc-client-go/internal/platform/logging"
	ptesting "sauc-client-go/internal/platform/testing"
	"sauc-client-go/internal/transport"
)

func TestNew_FromConfig(t *testing.T) {
	cfg := ptesting.SetupTestConfig(t)
	logger := ptesting.SetupTestLogger(t)
	defer logger.Close()

	r := New(cfg, logger)

	if r.credentials.AppKey != cfg.Credentials.AppKey ||
		r.credentials.AccessToken != cfg.Credentials.AccessToken ||
		r.credentials.ResourceID != cfg.Credentials.ResourceID {
		t.Errorf("credentials not carried over: %+v", r.credentials)
	}
	if r.variant != transport.VariantBidirectional {
		t.Errorf("unexpected variant %s", r.variant)
	}
	if r.connectTO != cfg.Timeouts.Connect() || r.pollTO != cfg.Timeouts.Poll() || r.finalTO != cfg.Timeouts.Final() {
		t.Errorf("timeouts not carried over: connect=%v poll=%v final=%v", r.connectTO, r.pollTO, r.finalTO)
	}
	if r.dial == nil {
		t.Error("recognizer must have a dialer")
	}
}

func testRecognizer(conn *fakeConn) (*Recognizer, *atomic.Int32, chan transport.Options) {
	dialCount := &atomic.Int32{}
	optsCh := make(chan transport.Options, 4)

	r := &Recognizer{
		credentials: transport.Credentials{
			AppKey:      "test-app",
			AccessToken: "test-token",
			ResourceID:  "volc.bigasr.sauc.duration",
		},
		variant:   transport.VariantBidirectional,
		connectTO: time.Second,
		pollTO:    5 * time.Millisecond,
		finalTO:   200 * time.Millisecond,
		logger:    logging.Discard(),
		dial: func(ctx context.Context, opts transport.Options) (frameConn, error) {
			dialCount.Add(1)
			optsCh <- opts
			return conn, nil
		},
	}
	return r, dialCount, optsCh
}

func TestRecognizeSimple_HappyPath(t *testing.T) {
	conn := &fakeConn{script: []scriptStep{
		ackFrame(),
		{},
		responseFrame(`{"result":{"text":"你好世界","utterances":[{"text":"你好世界","start_time":0,"end_time":1200,"definite":true}]},"audio_info":{"duration":1200}}`),
	}}

	r, dialCount, optsCh := testRecognizer(conn)

	result, err := r.RecognizeSimple(context.Background(), make([]byte, 9600), DefaultRecognitionConfig())
	if err != nil {
		t.Fatalf("RecognizeSimple() failed: %v", err)
	}

	if result.Text != "你好世界" || !result.IsFinal {
		t.Errorf("unexpected result: %+v", result)
	}
	if dialCount.Load() != 1 {
		t.Errorf("expected exactly one connection, got %d", dialCount.Load())
	}

	opts := <-optsCh
	if opts.Variant != transport.VariantStreamingInput {
		t.Errorf("one-shot recognition should use the streaming-input endpoint, got %s", opts.Variant)
	}
	if conn.closeCount != 1 {
		t.Errorf("connection closed %d times, expected exactly once", conn.closeCount)
	}
}

func TestRecognizeSimple_EmptyAudio(t *testing.T) {
	r, dialCount, _ := testRecognizer(&fakeConn{})

	_, err := r.RecognizeSimple(context.Background(), nil, DefaultRecognitionConfig())
	if !perrors.IsKind(err, perrors.KindConfig) {
		t.Fatalf("expected config error for empty audio, got %v", err)
	}
	if dialCount.Load() != 0 {
		t.Error("empty audio must be rejected before any network I/O")
	}
}

func TestRecognizeSimple_ServerRejectsConfig(t *testing.T) {
	conn := &fakeConn{script: []scriptStep{
		errorFrame(`{"code":45000001,"message":"invalid resource id"}`),
	}}
	r, _, _ := testRecognizer(conn)

	_, err := r.RecognizeSimple(context.Background(), []byte{0x01}, DefaultRecognitionConfig())
	if !perrors.IsKind(err, perrors.KindRejectedConfig) {
		t.Fatalf("expected rejected-config error, got %v", err)
	}
}

func TestRecognizeStream_PartialsThenFinal(t *testing.T) {
	conn := &fakeConn{script: []scriptStep{
		ackFrame(),
		responseFrame(`{"result":{"text":"你好","utterances":[{"text":"你好","definite":false}]}}`),
		{},
		responseFrame(`{"result":{"text":"你好世界","utterances":[{"text":"你好世界","definite":true}]}}`),
	}}
	r, _, optsCh := testRecognizer(conn)

	chunk := make([]byte, 3200)
	stream := r.RecognizeStream(context.Background(), chunksOf(chunk, chunk), DefaultRecognitionConfig())

	var results []Result
	for result := range stream.Results() {
		results = append(results, result)
	}
	if err := stream.Err(); err != nil {
		t.Fatalf("stream failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].IsFinal {
		t.Error("first result should be partial")
	}
	if !results[1].IsFinal || results[1].Text != "你好世界" {
		t.Errorf("unexpected final result: %+v", results[1])
	}

	opts := <-optsCh
	if opts.Variant != transport.VariantBidirectional {
		t.Errorf("streaming recognition should use the bidirectional endpoint, got %s", opts.Variant)
	}
}

func TestRecognizeStream_DialError(t *testing.T) {
	r, _, _ := testRecognizer(&fakeConn{})
	r.dial = func(ctx context.Context, opts transport.Options) (frameConn, error) {
		return nil, perrors.New(perrors.KindConnectTimeout, "dial", "websocket handshake timed out")
	}

	stream := r.RecognizeStream(context.Background(), chunksOf([]byte{0x01}), DefaultRecognitionConfig())

	for range stream.Results() {
		t.Error("no results expected when dialing fails")
	}
	if !perrors.IsKind(stream.Err(), perrors.KindConnectTimeout) {
		t.Errorf("expected connect-timeout error, got %v", stream.Err())
	}
}

func TestRecognizeStream_Cancellation(t *testing.T) {
	conn := &fakeConn{script: []scriptStep{ackFrame()}}
	r, _, _ := testRecognizer(conn)

	ctx, cancel := context.WithCancel(context.Background())
	chunks := make(chan []byte)

	stream := r.RecognizeStream(ctx, chunks, DefaultRecognitionConfig())

	chunks <- []byte{0x01}
	cancel()

	for range stream.Results() {
	}
	if !perrors.IsKind(stream.Err(), perrors.KindCancelled) {
		t.Errorf("expected cancelled error, got %v", stream.Err())
	}
	if conn.closeCount != 1 {
		t.Errorf("connection closed %d times, expected exactly once", conn.closeCount)
	}
}

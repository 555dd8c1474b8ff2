// Package asr is a client for the Volcengine big-model streaming speech
// recognition service. Each recognition call owns one websocket connection
// and drives the protocol conversation to completion: handshake, sequenced
// audio frames, and a last-packet terminator that elicits the final result.
package asr

import (
	"context"
	"time"

	platformconfig "sauc-client-go/internal/platform/config"
	perrors "sauc-client-go/internal/platform/errors"
	"sauc-client-go/internal/platform/logging"
	"sauc-client-go/internal/transport"
)

// dialFunc abstracts connection establishment so tests can substitute a
// scripted connection.
type dialFunc func(ctx context.Context, opts transport.Options) (frameConn, error)

// Recognizer is the entry point for recognition calls. It is stateless
// across calls; concurrent calls each own an independent session and
// connection.
type Recognizer struct {
	credentials transport.Credentials
	variant     transport.EndpointVariant
	connectTO   time.Duration
	pollTO      time.Duration
	finalTO     time.Duration
	logger      *logging.Logger
	dial        dialFunc
}

// New builds a Recognizer from the loaded platform configuration.
func New(cfg *platformconfig.Config, logger *logging.Logger) *Recognizer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Recognizer{
		credentials: transport.Credentials{
			AppKey:      cfg.Credentials.AppKey,
			AccessToken: cfg.Credentials.AccessToken,
			ResourceID:  cfg.Credentials.ResourceID,
		},
		variant:   transport.EndpointVariant(cfg.Endpoint.Variant),
		connectTO: cfg.Timeouts.Connect(),
		pollTO:    cfg.Timeouts.Poll(),
		finalTO:   cfg.Timeouts.Final(),
		logger:    logger,
		dial: func(ctx context.Context, opts transport.Options) (frameConn, error) {
			return transport.Dial(ctx, opts)
		},
	}
}

// Stream is a lazy, single-pass sequence of recognition results. Results
// closes after the final element (or on error); Err must be consulted once
// the channel is closed.
type Stream struct {
	results chan Result
	err     error
}

// Results returns the result channel. The stream is not restartable.
func (s *Stream) Results() <-chan Result {
	return s.results
}

// Err reports why the stream terminated. It is valid only after Results is
// closed; nil means the session completed normally.
func (s *Stream) Err() error {
	return s.err
}

// RecognizeStream recognizes a caller-supplied sequence of audio chunks,
// yielding one result per merged server response, terminated by exactly one
// final result. Closing the chunks channel signals end of audio.
func (r *Recognizer) RecognizeStream(ctx context.Context, chunks <-chan []byte, config RecognitionConfig) *Stream {
	return r.recognize(ctx, r.variant, chunks, config)
}

// RecognizeSimple performs one-shot recognition of a complete audio buffer
// and returns only the final result. It drives the same state machine as
// RecognizeStream with a single chunk, against the streaming-input endpoint.
func (r *Recognizer) RecognizeSimple(ctx context.Context, audio []byte, config RecognitionConfig) (Result, error) {
	if len(audio) == 0 {
		return Result{}, perrors.New(perrors.KindConfig, "recognize", "empty audio data")
	}

	chunks := make(chan []byte, 1)
	chunks <- audio
	close(chunks)

	stream := r.recognize(ctx, transport.VariantStreamingInput, chunks, config)

	var last Result
	var got bool
	for result := range stream.Results() {
		last = result
		got = true
	}
	if err := stream.Err(); err != nil {
		return Result{}, err
	}
	if !got {
		return Result{}, perrors.New(perrors.KindServer, "recognize", "no recognition result")
	}
	return last, nil
}

func (r *Recognizer) recognize(ctx context.Context, variant transport.EndpointVariant,
	chunks <-chan []byte, config RecognitionConfig) *Stream {
	stream := &Stream{results: make(chan Result, 8)}

	go func() {
		defer close(stream.results)

		conn, err := r.dial(ctx, transport.Options{
			Variant:        variant,
			Credentials:    r.credentials,
			ConnectTimeout: r.connectTO,
			Logger:         r.logger,
		})
		if err != nil {
			stream.err = err
			return
		}

		sess := newSession(conn, config, r.logger, r.pollTO, r.finalTO)
		stream.err = sess.run(ctx, chunks, func(result Result) {
			select {
			case stream.results <- result:
			case <-ctx.Done():
			}
		})
	}()

	return stream
}

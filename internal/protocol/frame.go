// Package protocol implements the binary framing spoken by the Volcengine
// big-model streaming ASR service: a 4-byte bit-packed header, an optional
// signed sequence number, and a length-prefixed, optionally gzipped payload.
package protocol

import (
	"encoding/binary"

	perrors "sauc-client-go/internal/platform/errors"
)

// MessageType occupies the high nibble of header byte 1.
type MessageType uint8

const (
	MsgFullClientRequest  MessageType = 0b0001
	MsgAudioOnlyRequest   MessageType = 0b0010
	MsgFullServerResponse MessageType = 0b1001
	MsgError              MessageType = 0b1111
)

// MessageFlags occupies the low nibble of header byte 1. The sequence field
// is on the wire iff the flags are one of the two sequence variants.
type MessageFlags uint8

const (
	FlagNone             MessageFlags = 0b0000
	FlagSequencePositive MessageFlags = 0b0001
	FlagLastPacket       MessageFlags = 0b0010
	FlagSequenceNegative MessageFlags = 0b0011
)

// Serialization occupies the high nibble of header byte 2.
type Serialization uint8

const (
	SerializationNone Serialization = 0b0000
	SerializationJSON Serialization = 0b0001
)

// Compression occupies the low nibble of header byte 2.
type Compression uint8

const (
	CompressionNone Compression = 0b0000
	CompressionGzip Compression = 0b0001
)

const (
	protocolVersion = 0b0001
	headerSizeUnits = 0b0001 // header length in 4-byte units

	headerLen   = 4
	sequenceLen = 4
	sizeLen     = 4
)

func (t MessageType) String() string {
	switch t {
	case MsgFullClientRequest:
		return "FullClientRequest"
	case MsgAudioOnlyRequest:
		return "AudioOnlyRequest"
	case MsgFullServerResponse:
		return "FullServerResponse"
	case MsgError:
		return "Error"
	}
	return "Unknown"
}

func (f MessageFlags) String() string {
	switch f {
	case FlagNone:
		return "None"
	case FlagSequencePositive:
		return "SequencePositive"
	case FlagLastPacket:
		return "LastPacket"
	case FlagSequenceNegative:
		return "SequenceNegative"
	}
	return "Unknown"
}

// Frame is one complete protocol message. Payload always holds the
// uncompressed bytes; compression is applied and stripped at the wire
// boundary by Marshal and Unmarshal.
type Frame struct {
	Type          MessageType
	Flags         MessageFlags
	Serialization Serialization
	Compression   Compression
	Sequence      int32
	Payload       []byte
}

// HasSequence reports whether the sequence field is present on the wire.
func (f *Frame) HasSequence() bool {
	return f.Flags == FlagSequencePositive || f.Flags == FlagSequenceNegative
}

// IsLastPacket reports whether the frame carries the end-of-stream signal.
func (f *Frame) IsLastPacket() bool {
	return f.Flags == FlagLastPacket || f.Flags == FlagSequenceNegative
}

// checkSequenceSign enforces agreement between the flags nibble and the sign
// of the sequence value. The service encodes "last packet" both ways at once;
// a frame where they disagree is treated as malformed rather than guessing
// which signal the peer meant.
func (f *Frame) checkSequenceSign(op string) error {
	switch f.Flags {
	case FlagSequenceNegative:
		if f.Sequence > 0 {
			return perrors.New(perrors.KindProtocol, op,
				"negative-sequence flag with positive sequence value")
		}
	case FlagSequencePositive:
		if f.Sequence <= 0 {
			return perrors.New(perrors.KindProtocol, op,
				"positive-sequence flag with non-positive sequence value")
		}
	}
	return nil
}

// Marshal encodes the frame for the wire: header, optional sequence,
// 4-byte big-endian payload size (after compression), payload.
func Marshal(f *Frame) ([]byte, error) {
	if err := f.checkSequenceSign("marshal"); err != nil {
		return nil, err
	}

	payload := f.Payload
	if f.Compression == CompressionGzip {
		compressed, err := gzipCompress(payload)
		if err != nil {
			return nil, perrors.Wrap(perrors.KindCompression, "marshal", "gzip payload", err)
		}
		payload = compressed
	}

	size := headerLen + sizeLen + len(payload)
	if f.HasSequence() {
		size += sequenceLen
	}

	buf := make([]byte, 0, size)
	buf = append(buf,
		protocolVersion<<4|headerSizeUnits,
		byte(f.Type)<<4|byte(f.Flags),
		byte(f.Serialization)<<4|byte(f.Compression),
		0x00,
	)
	if f.HasSequence() {
		buf = binary.BigEndian.AppendUint32(buf, uint32(f.Sequence))
	}
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(payload)))
	buf = append(buf, payload...)
	return buf, nil
}

// Unmarshal decodes one frame from data. The returned payload is
// decompressed. Short input at any stage yields a truncated-frame error.
func Unmarshal(data []byte) (*Frame, error) {
	if len(data) < headerLen {
		return nil, perrors.New(perrors.KindTruncatedFrame, "unmarshal", "incomplete header")
	}

	if version := data[0] >> 4; version != protocolVersion {
		return nil, perrors.NewServer(perrors.KindProtocol, "unmarshal",
			"unsupported protocol version", int32(version))
	}
	if units := data[0] & 0x0f; units != headerSizeUnits {
		return nil, perrors.NewServer(perrors.KindProtocol, "unmarshal",
			"unsupported header size", int32(units))
	}

	f := &Frame{
		Type:          MessageType(data[1] >> 4),
		Flags:         MessageFlags(data[1] & 0x0f),
		Serialization: Serialization(data[2] >> 4),
		Compression:   Compression(data[2] & 0x0f),
	}

	offset := headerLen
	if f.HasSequence() {
		if len(data) < offset+sequenceLen {
			return nil, perrors.New(perrors.KindTruncatedFrame, "unmarshal", "incomplete sequence")
		}
		f.Sequence = int32(binary.BigEndian.Uint32(data[offset : offset+sequenceLen]))
		offset += sequenceLen
	}

	if err := f.checkSequenceSign("unmarshal"); err != nil {
		return nil, err
	}

	if len(data) < offset+sizeLen {
		return nil, perrors.New(perrors.KindTruncatedFrame, "unmarshal", "incomplete payload size")
	}
	payloadSize := binary.BigEndian.Uint32(data[offset : offset+sizeLen])
	offset += sizeLen

	if uint32(len(data)-offset) < payloadSize {
		return nil, perrors.New(perrors.KindTruncatedFrame, "unmarshal", "incomplete payload")
	}
	payload := data[offset : offset+int(payloadSize)]

	if f.Compression == CompressionGzip {
		decompressed, err := gzipDecompress(payload)
		if err != nil {
			return nil, perrors.Wrap(perrors.KindCompression, "unmarshal", "gunzip payload", err)
		}
		payload = decompressed
	}
	f.Payload = payload
	return f, nil
}

package protocol

import (
	"github.com/bytedance/sonic"

	perrors "sauc-client-go/internal/platform/errors"
)

// ServerResponse is the JSON body carried by FullServerResponse and Error
// frames. Error frames populate Code and Message; recognition responses
// populate Result and AudioInfo.
type ServerResponse struct {
	Code      int32      `json:"code,omitempty"`
	Message   string     `json:"message,omitempty"`
	Result    *Result    `json:"result,omitempty"`
	AudioInfo *AudioInfo `json:"audio_info,omitempty"`
}

// Result is the recognition snapshot the service reports: the full text so
// far plus per-utterance segmentation.
type Result struct {
	Text       string      `json:"text"`
	Utterances []Utterance `json:"utterances,omitempty"`
}

// Utterance is one recognized segment. Definite marks a finalized sentence
// boundary; a non-definite utterance may still be amended by later snapshots.
type Utterance struct {
	Text      string `json:"text"`
	StartTime int    `json:"start_time"`
	EndTime   int    `json:"end_time"`
	Definite  bool   `json:"definite"`
	Words     []Word `json:"words,omitempty"`
}

// Word carries per-word timing when the service reports it.
type Word struct {
	Text      string `json:"text"`
	StartTime int    `json:"start_time"`
	EndTime   int    `json:"end_time"`
}

// AudioInfo reports how much audio the service has consumed.
type AudioInfo struct {
	Duration int `json:"duration"`
}

// DecodeServerResponse parses a JSON-serialized frame payload.
func DecodeServerResponse(payload []byte) (*ServerResponse, error) {
	var resp ServerResponse
	if err := sonic.Unmarshal(payload, &resp); err != nil {
		return nil, perrors.Wrap(perrors.KindPayloadDecode, "decode", "parse server response", err)
	}
	return &resp, nil
}

package asr

import "github.com/google/uuid"

// UserInfo identifies the caller in the handshake payload.
type UserInfo struct {
	UID        string `json:"uid"`
	Platform   string `json:"platform"`
	SDKVersion string `json:"sdk_version"`
	AppVersion string `json:"app_version"`
}

// AudioFormat describes the audio the session will stream.
type AudioFormat struct {
	Format  string `json:"format"`
	Codec   string `json:"codec"`
	Rate    int    `json:"rate"`
	Bits    int    `json:"bits"`
	Channel int    `json:"channel"`
}

// RequestOptions are the recognition parameters sent in the handshake.
type RequestOptions struct {
	ModelName          string `json:"model_name"`
	EnableITN          bool   `json:"enable_itn"`
	EnablePunc         bool   `json:"enable_punc"`
	EnableDDC          bool   `json:"enable_ddc"`
	ShowUtterances     bool   `json:"show_utterances"`
	ResultType         string `json:"result_type"`
	VADSegmentDuration int    `json:"vad_segment_duration"`
	EndWindowSize      int    `json:"end_window_size"`
	ForceToSpeechTime  int    `json:"force_to_speech_time"`
}

// RecognitionConfig is the immutable per-session configuration serialized
// into the handshake frame. Build it with DefaultRecognitionConfig and
// override fields before starting the session; it is not read again after
// the handshake is sent.
type RecognitionConfig struct {
	User    UserInfo       `json:"user"`
	Audio   AudioFormat    `json:"audio"`
	Request RequestOptions `json:"request"`
}

// DefaultRecognitionConfig returns the service defaults with a fresh user id.
func DefaultRecognitionConfig() RecognitionConfig {
	return RecognitionConfig{
		User: UserInfo{
			UID:        uuid.NewString(),
			Platform:   "Linux",
			SDKVersion: "1.0.0",
			AppVersion: "1.0.0",
		},
		Audio: AudioFormat{
			Format:  "pcm",
			Codec:   "raw",
			Rate:    16000,
			Bits:    16,
			Channel: 1,
		},
		Request: RequestOptions{
			ModelName:          "bigmodel",
			EnableITN:          true,
			EnablePunc:         true,
			EnableDDC:          false,
			ShowUtterances:     true,
			ResultType:         "full",
			VADSegmentDuration: 3000,
			EndWindowSize:      800,
			ForceToSpeechTime:  1000,
		},
	}
}

// normalized fills structural gaps in a hand-built config so a partially
// populated value still produces a valid handshake. Boolean options are taken
// as-is; start from DefaultRecognitionConfig to get the service's enabled-by-
// default behaviour.
func (c RecognitionConfig) normalized() RecognitionConfig {
	def := DefaultRecognitionConfig()
	if c.User.UID == "" {
		c.User.UID = def.User.UID
	}
	if c.User.Platform == "" {
		c.User.Platform = def.User.Platform
	}
	if c.User.SDKVersion == "" {
		c.User.SDKVersion = def.User.SDKVersion
	}
	if c.User.AppVersion == "" {
		c.User.AppVersion = def.User.AppVersion
	}
	if c.Audio.Format == "" {
		c.Audio.Format = def.Audio.Format
	}
	if c.Audio.Codec == "" {
		c.Audio.Codec = def.Audio.Codec
	}
	if c.Audio.Rate == 0 {
		c.Audio.Rate = def.Audio.Rate
	}
	if c.Audio.Bits == 0 {
		c.Audio.Bits = def.Audio.Bits
	}
	if c.Audio.Channel == 0 {
		c.Audio.Channel = def.Audio.Channel
	}
	if c.Request.ModelName == "" {
		c.Request.ModelName = def.Request.ModelName
	}
	if c.Request.ResultType == "" {
		c.Request.ResultType = def.Request.ResultType
	}
	if c.Request.VADSegmentDuration == 0 {
		c.Request.VADSegmentDuration = def.Request.VADSegmentDuration
	}
	if c.Request.EndWindowSize == 0 {
		c.Request.EndWindowSize = def.Request.EndWindowSize
	}
	if c.Request.ForceToSpeechTime == 0 {
		c.Request.ForceToSpeechTime = def.Request.ForceToSpeechTime
	}
	return c
}

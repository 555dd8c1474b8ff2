package asr

import (
	"testing"

	"github.com/bytedance/sonic"
)

func TestDefaultRecognitionConfig(t *testing.T) {
	cfg := DefaultRecognitionConfig()

	if cfg.User.UID == "" {
		t.Error("default config should carry a fresh user id")
	}
	if cfg.Audio.Rate != 16000 || cfg.Audio.Bits != 16 || cfg.Audio.Channel != 1 {
		t.Errorf("unexpected audio defaults: %+v", cfg.Audio)
	}
	if cfg.Request.ModelName != "bigmodel" || !cfg.Request.EnableITN || !cfg.Request.EnablePunc {
		t.Errorf("unexpected request defaults: %+v", cfg.Request)
	}

	other := DefaultRecognitionConfig()
	if other.User.UID == cfg.User.UID {
		t.Error("each default config should get its own user id")
	}
}

func TestRecognitionConfig_Normalized(t *testing.T) {
	cfg := RecognitionConfig{
		Audio:   AudioFormat{Rate: 8000},
		Request: RequestOptions{ModelName: "bigmodel-custom", EndWindowSize: 400},
	}

	norm := cfg.normalized()

	if norm.Audio.Rate != 8000 {
		t.Errorf("explicit rate overridden: %d", norm.Audio.Rate)
	}
	if norm.Audio.Format != "pcm" || norm.Audio.Bits != 16 {
		t.Errorf("audio gaps not filled: %+v", norm.Audio)
	}
	if norm.Request.ModelName != "bigmodel-custom" || norm.Request.EndWindowSize != 400 {
		t.Errorf("explicit request options overridden: %+v", norm.Request)
	}
	if norm.Request.VADSegmentDuration != 3000 {
		t.Errorf("request gaps not filled: %+v", norm.Request)
	}
	if norm.User.UID == "" {
		t.Error("normalization should assign a user id")
	}
}

func TestRecognitionConfig_JSONShape(t *testing.T) {
	cfg := DefaultRecognitionConfig()
	cfg.User.UID = "fixed-uid"

	data, err := sonic.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]map[string]any
	if err := sonic.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["user"]["uid"] != "fixed-uid" {
		t.Errorf("user block malformed: %v", decoded["user"])
	}
	if decoded["audio"]["format"] != "pcm" {
		t.Errorf("audio block malformed: %v", decoded["audio"])
	}
	req := decoded["request"]
	for _, key := range []string{
		"model_name", "enable_itn", "enable_punc", "enable_ddc",
		"show_utterances", "result_type", "vad_segment_duration",
		"end_window_size", "force_to_speech_time",
	} {
		if _, ok := req[key]; !ok {
			t.Errorf("request block missing %q: %v", key, req)
		}
	}
}

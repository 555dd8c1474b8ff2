package asr

import "sauc-client-go/internal/transport"

// AudioFormatInfo describes the audio the service expects.
type AudioFormatInfo struct {
	Format      string
	Codec       string
	SampleRate  int
	Channels    int
	BitDepth    int
	ByteOrder   string
	Encoding    string
	ChunkSizeMS string
}

// ServiceInfo describes the remote service and its endpoint modes.
type ServiceInfo struct {
	Name           string
	Version        string
	CurrentVariant string
	Modes          []string
	Endpoints      map[string]string
}

// AudioFormatInfo reports the audio format the service requires.
func (r *Recognizer) AudioFormatInfo() AudioFormatInfo {
	return AudioFormatInfo{
		Format:      "pcm",
		Codec:       "raw",
		SampleRate:  16000,
		Channels:    1,
		BitDepth:    16,
		ByteOrder:   "big-endian",
		Encoding:    "signed",
		ChunkSizeMS: "100-200",
	}
}

// ServiceInfo reports the supported endpoint modes and their URLs.
func (r *Recognizer) ServiceInfo() ServiceInfo {
	variants := transport.Variants()
	modes := make([]string, len(variants))
	endpoints := make(map[string]string, len(variants))
	for i, v := range variants {
		modes[i] = string(v)
		endpoints[string(v)] = transport.EndpointURL(v)
	}

	return ServiceInfo{
		Name:           "volcengine-bigmodel-asr",
		Version:        "v3",
		CurrentVariant: string(r.variant),
		Modes:          modes,
		Endpoints:      endpoints,
	}
}

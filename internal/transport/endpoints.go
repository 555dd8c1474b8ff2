package transport

// EndpointVariant names one of the known service endpoints.
type EndpointVariant string

const (
	// VariantBidirectional streams audio up and results down concurrently.
	VariantBidirectional EndpointVariant = "bidirectional"
	// VariantStreamingInput streams audio up but only answers once the
	// last packet arrives; used for one-shot recognition.
	VariantStreamingInput EndpointVariant = "streaming_input"
	// VariantOptimized is the async-optimized bidirectional endpoint.
	VariantOptimized EndpointVariant = "optimized"
)

var endpointURLs = map[EndpointVariant]string{
	VariantBidirectional:  "wss://openspeech.bytedance.com/api/v3/sauc/bigmodel",
	VariantStreamingInput: "wss://openspeech.bytedance.com/api/v3/sauc/bigmodel_nostream",
	VariantOptimized:      "wss://openspeech.bytedance.com/api/v3/sauc/bigmodel_async",
}

// EndpointURL resolves a variant to its URL. Unknown variants fall back to
// the bidirectional endpoint, matching the service's documented default.
func EndpointURL(variant EndpointVariant) string {
	if url, ok := endpointURLs[variant]; ok {
		return url
	}
	return endpointURLs[VariantBidirectional]
}

// Variants lists the supported endpoint variants in a stable order.
func Variants() []EndpointVariant {
	return []EndpointVariant{VariantBidirectional, VariantStreamingInput, VariantOptimized}
}

package asr

import "sauc-client-go/internal/protocol"

// Utterance is one recognized segment of speech. Definite marks a finalized
// sentence boundary; within a session the utterance list is append-only and
// only the non-definite tail may be amended by later snapshots.
type Utterance struct {
	Text        string
	StartTimeMS int
	EndTimeMS   int
	Definite    bool
}

// Result is one recognition snapshot delivered to the caller. IsFinal is set
// on exactly the last element of a stream: the definitive result produced
// after the last-packet frame.
type Result struct {
	Text       string
	Utterances []Utterance
	IsFinal    bool
}

func convertUtterances(in []protocol.Utterance) []Utterance {
	if len(in) == 0 {
		return nil
	}
	out := make([]Utterance, len(in))
	for i, u := range in {
		out[i] = Utterance{
			Text:        u.Text,
			StartTimeMS: u.StartTime,
			EndTimeMS:   u.EndTime,
			Definite:    u.Definite,
		}
	}
	return out
}

func cloneUtterances(in []Utterance) []Utterance {
	if len(in) == 0 {
		return nil
	}
	out := make([]Utterance, len(in))
	copy(out, in)
	return out
}

// definitePrefix counts the leading finalized utterances, the part of the
// accumulated result later snapshots may no longer amend.
func definitePrefix(utterances []Utterance) int {
	n := 0
	for _, u := range utterances {
		if !u.Definite {
			break
		}
		n++
	}
	return n
}

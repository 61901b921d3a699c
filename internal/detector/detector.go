// Package detector composes the Goertzel feature extractor and the HMM
// Viterbi decoder into the single entry point the rest of the system calls
// once per two-second listening window: given a pair of audio buffers,
// decide whether they contain a gunshot-like impulsive event.
package detector

import (
	"github.com/openacousticdevices/gunshotd/internal/goertzel"
	"github.com/openacousticdevices/gunshotd/internal/hmm"
)

// DetectionMax is the upper bound on the number of gunshot-state frames
// (Impulse or Tail) that still counts as a gunshot. It encodes a 1.5 s
// prior on gunshot duration at 8 kHz / 128-sample frames:
// (1.5 * 8000) / 128 = 93.75, floored to 93. If the sample rate or frame
// length is ever reparametrised this constant must be recomputed.
const DetectionMax = 93

// Outcome is the full result of one detection call: the decision plus the
// evidence behind it, useful for telemetry and regression logging.
type Outcome struct {
	Detected bool
	Count    int
	Sequence [hmm.MaxFrames]uint8
}

// Detector owns the statically-sized trellis scratch space for a single
// in-flight classification. It is not safe for concurrent use: the caller
// must not invoke Detect again, from any goroutine, before the previous
// call returns.
type Detector struct {
	trellis *hmm.Trellis
}

// New returns a Detector with its scratch memory allocated once, ready to
// be reused across many calls with no further allocation on the hot path.
func New() *Detector {
	return &Detector{trellis: hmm.NewTrellis()}
}

// Detect classifies one two-second window of 8 kHz mono audio, given as
// two 16000-sample buffers with buffer1 preceding buffer2. It extracts the
// three Goertzel band features, decodes the most-likely HMM state
// sequence, and applies the final threshold rule: detected iff
// 0 < count <= DetectionMax.
func (d *Detector) Detect(buffer1, buffer2 *[goertzel.BufferSamples]int16) Outcome {
	features := goertzel.Extract(buffer1, buffer2)

	bands := [hmm.NumFeatures][]float32{
		features.Band350Hz[:],
		features.Band1300Hz[:],
		features.Band3500Hz[:],
	}

	result := d.trellis.Decode(bands, goertzel.FrameCount)

	return Outcome{
		Detected: isDetection(result.Count),
		Count:    result.Count,
		Sequence: result.Sequence,
	}
}

// isDetection applies the final threshold rule to a gunshot-state count.
func isDetection(count int) bool {
	return count > 0 && count <= DetectionMax
}

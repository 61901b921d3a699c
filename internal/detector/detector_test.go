package detector

import (
	"math"
	"testing"

	"github.com/openacousticdevices/gunshotd/internal/goertzel"
	"github.com/openacousticdevices/gunshotd/internal/hmm"
)

func TestDetectAllZeroBuffersIsNotDetected(t *testing.T) {
	var buf1, buf2 [goertzel.BufferSamples]int16

	d := New()
	outcome := d.Detect(&buf1, &buf2)

	if outcome.Detected {
		t.Fatalf("all-zero buffers: Detected = true, want false")
	}
	if outcome.Count != 0 {
		t.Fatalf("all-zero buffers: Count = %d, want 0", outcome.Count)
	}
}

func TestDetectFullScaleDCCountIsBounded(t *testing.T) {
	// With the baked-in model constants a constant full-scale input decodes
	// as Impulse or Tail in every frame (count 250, so not detected). The
	// exact count depends on the trained model and is not asserted here;
	// this test only checks the count bound.
	var buf1, buf2 [goertzel.BufferSamples]int16
	for i := range buf1 {
		buf1[i] = 32767
	}
	for i := range buf2 {
		buf2[i] = 32767
	}

	d := New()
	outcome := d.Detect(&buf1, &buf2)

	if outcome.Count < 0 || outcome.Count > goertzel.FrameCount {
		t.Fatalf("full-scale DC: count=%d out of bounds [0,%d]", outcome.Count, goertzel.FrameCount)
	}
}

func TestDetectSyntheticImpulseBurst(t *testing.T) {
	// A brief white-noise burst spanning frames 10-12 (~40ms), silence
	// elsewhere: should fire Impulse/Tail only briefly, well under the
	// detection ceiling.
	var buf1, buf2 [goertzel.BufferSamples]int16

	const frameLen = goertzel.FrameLength
	burstStart := 10 * frameLen
	burstEnd := 13 * frameLen

	seed := uint32(12345)
	nextNoise := func() int16 {
		seed = seed*1664525 + 1013904223
		return int16(seed>>16) / 2
	}
	for i := burstStart; i < burstEnd; i++ {
		buf1[i] = nextNoise()
	}

	d := New()
	outcome := d.Detect(&buf1, &buf2)

	if outcome.Count == 0 {
		t.Fatalf("synthetic impulse burst: count = 0, want > 0")
	}
	if outcome.Count > 10 {
		t.Fatalf("synthetic impulse burst: count = %d, want <= 10", outcome.Count)
	}
	if !outcome.Detected {
		t.Fatalf("synthetic impulse burst: Detected = false, want true (count=%d)", outcome.Count)
	}
}

func TestDetectSustainedToneIsNotDetected(t *testing.T) {
	// A sustained 1300 Hz tone across the whole window holds every band in
	// steady state rather than a bounded impulse-then-tail run, so it must
	// not cross the detection threshold the same way a short burst does.
	var buf1, buf2 [goertzel.BufferSamples]int16

	const freq = 1300.0
	const sampleRate = 8000.0
	fillTone := func(buf *[goertzel.BufferSamples]int16, phase0 float64) {
		for i := range buf {
			phase := phase0 + 2*math.Pi*freq*float64(i)/sampleRate
			buf[i] = int16(20000 * math.Sin(phase))
		}
	}
	fillTone(&buf1, 0)
	fillTone(&buf2, 2*math.Pi*freq*float64(goertzel.BufferSamples)/sampleRate)

	d := New()
	outcome := d.Detect(&buf1, &buf2)

	if outcome.Count <= DetectionMax {
		t.Fatalf("sustained tone: count = %d, want > DetectionMax = %d (too much of the window stays in a gunshot state)", outcome.Count, DetectionMax)
	}
	if outcome.Detected {
		t.Fatalf("sustained tone: Detected = true, want false (count=%d exceeds DetectionMax)", outcome.Count)
	}
}

func TestDetectCountBoundaryAtDetectionMax(t *testing.T) {
	cases := []struct {
		count int
		want  bool
	}{
		{0, false},
		{1, true},
		{DetectionMax, true},
		{DetectionMax + 1, false},
		{goertzel.FrameCount, false},
	}
	for _, c := range cases {
		if got := isDetection(c.count); got != c.want {
			t.Fatalf("count=%d: Detected=%v, want %v", c.count, got, c.want)
		}
	}
}

func TestDetectIsDeterministic(t *testing.T) {
	var buf1, buf2 [goertzel.BufferSamples]int16
	for i := range buf1 {
		buf1[i] = int16((i * 41) % 3000)
	}
	for i := range buf2 {
		buf2[i] = int16((i * 29) % 2500)
	}

	first := New().Detect(&buf1, &buf2)
	second := New().Detect(&buf1, &buf2)

	if first != second {
		t.Fatalf("Detect is not deterministic across identical calls")
	}
}

func TestDetectorReusesTrellisAcrossCalls(t *testing.T) {
	var silence1, silence2 [goertzel.BufferSamples]int16
	var tone1, tone2 [goertzel.BufferSamples]int16
	for i := range tone1 {
		tone1[i] = int16((i * 97) % 4000)
	}

	d := New()
	_ = d.Detect(&tone1, &tone2)
	afterTone := d.Detect(&silence1, &silence2)

	if afterTone.Count != 0 || afterTone.Detected {
		t.Fatalf("reused detector carried state across calls: silent window after a loud one reported count=%d detected=%v", afterTone.Count, afterTone.Detected)
	}
}

func TestOutcomeSequenceStatesAreValid(t *testing.T) {
	var buf1, buf2 [goertzel.BufferSamples]int16
	for i := range buf1 {
		buf1[i] = int16((i * 13) % 1000)
	}

	outcome := New().Detect(&buf1, &buf2)

	for frame := 0; frame < goertzel.FrameCount; frame++ {
		if outcome.Sequence[frame] >= hmm.NumStates {
			t.Fatalf("frame %d: state %d out of range", frame, outcome.Sequence[frame])
		}
	}
}

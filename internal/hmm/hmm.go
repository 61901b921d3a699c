// Package hmm implements the four-state hidden-Markov-model Viterbi decoder
// used to classify a window of Goertzel band features as gunshot-like or
// not. States are Silence, Impulse, Tail, and Noise; emissions are
// log-normal densities over three features per frame.
package hmm

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// State indices into the emission and transition tables.
const (
	Silence = 0
	Impulse = 1
	Tail    = 2
	Noise   = 3
)

const (
	// NumStates is the number of hidden states in the chain.
	NumStates = 4

	// NumFeatures is the number of Goertzel bands feeding the model.
	NumFeatures = 3

	// MaxFrames is the largest frame count the trellis is sized for.
	// Frame counts above this are silently clamped.
	MaxFrames = 250

	// emissionFloorRatio is the fraction of the frame's max emission below
	// which any state's emission is raised, preventing a zero-emission
	// deadlock without biasing the argmax.
	emissionFloorRatio = 0.05
)

// EmissionMean is the log-space mean mu per state and feature.
var EmissionMean = [NumStates][NumFeatures]float32{
	{-3.254631, -4.244978, -4.455339},
	{-0.314364, -0.511267, -1.409444},
	{-2.002476, -2.556155, -3.690385},
	{-3.109867, -3.689082, -3.476363},
}

// OneOverEmissionVariance is 1/sigma^2 per state and feature.
var OneOverEmissionVariance = [NumStates][NumFeatures]float32{
	{2.607228, 1.108950, 1.083559},
	{0.227855, 0.218091, 0.140690},
	{0.534408, 0.632945, 0.722583},
	{1.886675, 1.096767, 0.771746},
}

// NormalisationFactors is (2*pi)^(-1/2) * sigma^(-1) per state and feature.
var NormalisationFactors = [NumStates][NumFeatures]float32{
	{0.644169, 0.420113, 0.415276},
	{0.190432, 0.186307, 0.149638},
	{0.291640, 0.317390, 0.339120},
	{0.547972, 0.417799, 0.350467},
}

// TransitionMatrix is the row-stochastic state-to-state transition table,
// TransitionMatrix[from][to].
var TransitionMatrix = [NumStates][NumStates]float32{
	{0.98, 0.01, 0.00, 0.01},
	{0.00, 0.69, 0.31, 0.00},
	{0.07, 0.00, 0.92, 0.01},
	{0.01, 0.01, 0.00, 0.98},
}

// Initial is the starting state distribution.
var Initial = [NumStates]float32{0.86, 0.07, 0.00, 0.07}

// logNormalPDF evaluates a log-normal density at x, given a log-space mean
// mu, precomputed normalisation n, and precomputed 1/variance.
func logNormalPDF(x, mu, n, oneOverVariance float32) float32 {
	meanDiff := float32(math.Log(float64(x))) - mu
	exponent := -0.5 * meanDiff * meanDiff * oneOverVariance
	return n * float32(math.Exp(float64(exponent)))
}

// Trellis holds the forward-probability and backpointer matrices for one
// decode, sized for the maximum supported frame count. It carries no
// allocation beyond construction and may be reused across calls to Decode
// by a single owner; it must not be shared across concurrent decodes.
type Trellis struct {
	prob [NumStates][MaxFrames]float32
	back [NumStates][MaxFrames]uint8
	mpe  [MaxFrames]uint8
}

// NewTrellis returns a zeroed, ready-to-use Trellis.
func NewTrellis() *Trellis {
	return &Trellis{}
}

// Result is the outcome of decoding one window of features.
type Result struct {
	// Count is the number of frames whose most-likely state is Impulse or
	// Tail.
	Count int

	// Sequence holds the most-likely state index for each decoded frame,
	// Sequence[:T].
	Sequence [MaxFrames]uint8
}

// Decode runs the forward pass and backtrace over t frames of the three
// feature sequences, using tr as scratch working memory, and returns the
// most-likely state sequence together with the gunshot-state count. t
// above MaxFrames is silently clamped; t of zero returns a zero Result
// without reading tr.
func (tr *Trellis) Decode(features [NumFeatures][]float32, t int) Result {
	if t > MaxFrames {
		t = MaxFrames
	}
	if t <= 0 {
		return Result{}
	}

	var emit [NumStates]float32
	var colMax [NumStates]float32

	for frame := 0; frame < t; frame++ {
		maxEmit := float32(-1)
		for state := 0; state < NumStates; state++ {
			value := float32(1)
			for feature := 0; feature < NumFeatures; feature++ {
				x := features[feature][frame]
				value *= logNormalPDF(x, EmissionMean[state][feature], NormalisationFactors[state][feature], OneOverEmissionVariance[state][feature])
			}
			emit[state] = value
			if value > maxEmit {
				maxEmit = value
			}
		}

		floor := emissionFloorRatio * maxEmit
		for state := 0; state < NumStates; state++ {
			if emit[state] < floor {
				emit[state] = floor
			}
		}

		if frame == 0 {
			for state := 0; state < NumStates; state++ {
				tr.prob[state][0] = Initial[state] * emit[state]
			}
		} else {
			var argmax [NumStates]uint8
			for i := range colMax {
				colMax[i] = 0
				argmax[i] = 0
			}

			for i := 0; i < NumStates; i++ {
				for j := 0; j < NumStates; j++ {
					product := tr.prob[j][frame-1] * TransitionMatrix[j][i] * emit[i]
					if product > colMax[i] {
						colMax[i] = product
						argmax[i] = uint8(j)
					}
				}
			}

			for i := 0; i < NumStates; i++ {
				tr.prob[i][frame] = colMax[i]
				tr.back[i][frame] = argmax[i]
			}
		}

		var column [NumStates]float64
		for i := 0; i < NumStates; i++ {
			column[i] = float64(tr.prob[i][frame])
		}
		sum := floats.Sum(column[:])
		for i := 0; i < NumStates; i++ {
			normalised := tr.prob[i][frame] / float32(sum)
			if math.IsNaN(float64(normalised)) {
				if frame > 0 {
					normalised = tr.prob[i][frame-1]
				} else {
					// All emissions degenerated to zero before any
					// observation has been folded in (e.g. a literal-zero
					// feature value drives every state's emission to
					// zero). Fall back to the prior itself, which is
					// already normalised and keeps backtrace well defined.
					normalised = Initial[i]
				}
			}
			tr.prob[i][frame] = normalised
		}
	}

	bestState, bestProb := uint8(0), float32(0)
	for i := 0; i < NumStates; i++ {
		if tr.prob[i][t-1] > bestProb {
			bestProb = tr.prob[i][t-1]
			bestState = uint8(i)
		}
	}

	tr.mpe[t-1] = bestState
	for frame := t - 1; frame > 0; frame-- {
		tr.mpe[frame-1] = tr.back[tr.mpe[frame]][frame]
	}

	var result Result
	copy(result.Sequence[:t], tr.mpe[:t])
	for frame := 0; frame < t; frame++ {
		if result.Sequence[frame] == Impulse || result.Sequence[frame] == Tail {
			result.Count++
		}
	}
	return result
}

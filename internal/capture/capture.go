// Package capture models the double-buffered ADC collaborator the detector
// core reads from: a continuous stream of fixed-size int16 buffers handed
// off in pairs, mirroring the reference firmware's DMA ping-pong buffers.
package capture

import "github.com/openacousticdevices/gunshotd/internal/goertzel"

// Buffer is one fixed-size block of captured samples, sized to match the
// detector's expected window half.
type Buffer = [goertzel.BufferSamples]int16

// Capturer is the collaborator interface a live or simulated audio source
// must satisfy: continuous capture into fixed-size buffers, handed to the
// caller one at a time.
type Capturer interface {
	// Next blocks until the next buffer is ready and returns it.
	Next() (Buffer, error)

	// Close releases the underlying audio resource.
	Close() error
}

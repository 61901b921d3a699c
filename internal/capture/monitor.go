package capture

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"github.com/hajimehoshi/oto/v2"
)

// Monitor plays back captured buffers through the host sound card as they
// arrive, so a bench operator can listen to what the detector is seeing
// while it runs against live or recorded audio. It wraps a Capturer and is
// itself a Capturer, following the same open/close lifecycle shape as
// audio.OtoOutput.
type Monitor struct {
	Capturer
	context *oto.Context
	player  oto.Player
	buffer  *bytes.Buffer
}

// NewMonitor wraps source with an oto-backed audible monitor at the given
// sample rate (mono, 16-bit), matching the detector core's expected
// capture format.
func NewMonitor(source Capturer, sampleRate int) (*Monitor, error) {
	const channels = 1
	const bitDepth = 2

	ctx, ready, err := oto.NewContext(sampleRate, channels, bitDepth)
	if err != nil {
		return nil, fmt.Errorf("failed to create oto context: %w", err)
	}
	<-ready

	buffer := &bytes.Buffer{}
	m := &Monitor{
		Capturer: source,
		context:  ctx,
		buffer:   buffer,
	}
	m.player = ctx.NewPlayer(buffer)
	m.player.Play()

	return m, nil
}

// Next reads the next buffer from the wrapped Capturer and queues it for
// audible playback before returning it.
func (m *Monitor) Next() (Buffer, error) {
	buf, err := m.Capturer.Next()
	if err != nil {
		return buf, err
	}

	raw := make([]byte, 2*len(buf))
	for i, sample := range buf {
		binary.LittleEndian.PutUint16(raw[2*i:], uint16(sample))
	}
	m.buffer.Write(raw)

	return buf, nil
}

// Close stops playback and closes the wrapped Capturer.
func (m *Monitor) Close() error {
	if err := m.player.Close(); err != nil {
		return fmt.Errorf("failed to close monitor player: %w", err)
	}
	return m.Capturer.Close()
}

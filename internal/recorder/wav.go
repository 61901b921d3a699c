// Package recorder writes detected windows to disk as WAV files, following
// the reference firmware's header layout and folder convention: a RIFF/WAVE
// file with a LIST/ICMT comment chunk carrying a timestamp, device serial,
// gain, and battery reading, placed in a MM_YYYY folder under the
// configured data directory.
package recorder

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"
)

const (
	riffIDLength  = 4
	commentLength = 128

	// commentPrefixWidth is the byte offset within the comment buffer at
	// which the battery reading is written, matching the reference
	// firmware's "comment += 110" offset in setHeaderComment.
	commentPrefixWidth = 110

	pcmFormat        = 1
	numberOfChannels = 1
	bytesPerCapture  = 2
	bitsPerSample    = 16
)

// chunk is a fixed 4-byte RIFF chunk ID followed by its byte length.
type chunk struct {
	ID   [riffIDLength]byte
	Size uint32
}

func newChunk(id string, size uint32) chunk {
	var c chunk
	copy(c.ID[:], id)
	c.Size = size
	return c
}

type wavFormat struct {
	Format           uint16
	NumberOfChannels uint16
	SamplesPerSecond uint32
	BytesPerSecond   uint32
	BytesPerCapture  uint16
	BitsPerSample    uint16
}

type header struct {
	Riff      chunk
	Format    [riffIDLength]byte
	Fmt       chunk
	WavFormat wavFormat
	List      chunk
	Info      [riffIDLength]byte
	Icmt      chunk
	Comment   [commentLength]byte
	Data      chunk
}

// headerSize is sizeof(wavHeader_t) in the reference firmware: the fixed
// portion of the file preceding the raw samples.
const headerSize = 4 + 4 + 4 + 4 + 4 + 2 + 2 + 4 + 4 + 2 + 2 + 4 + 4 + 4 + 4 + 4 + 128 + 4 + 4

// Serial is a device identifier formatted the same way the firmware prints
// its two-word unique ID: high half then low half, each as 8 hex digits.
type Serial struct {
	High uint32
	Low  uint32
}

func (s Serial) String() string {
	return fmt.Sprintf("%08X%08X", s.High, s.Low)
}

// Metadata carries the per-recording values the comment chunk embeds.
type Metadata struct {
	Timestamp   time.Time
	Serial      Serial
	Gain        int
	BatteryBand string
}

func buildComment(m Metadata) [commentLength]byte {
	var comment [commentLength]byte

	t := m.Timestamp.UTC()
	prefix := fmt.Sprintf(
		"Recorded at %02d:%02d:%02d %02d/%02d/%04d (UTC) by AudioMoth %s at gain setting %d while battery state was ",
		t.Hour(), t.Minute(), t.Second(), t.Day(), int(t.Month()), t.Year(),
		m.Serial.String(), m.Gain,
	)

	copy(comment[:commentPrefixWidth], prefix)
	copy(comment[commentPrefixWidth:], m.BatteryBand)

	return comment
}

func buildHeader(sampleRate int, numberOfSamples int, meta Metadata) header {
	dataBytes := uint32(2 * numberOfSamples)

	h := header{
		Riff:   newChunk("RIFF", dataBytes+headerSize-8),
		Fmt:    newChunk("fmt ", 16),
		WavFormat: wavFormat{
			Format:           pcmFormat,
			NumberOfChannels: numberOfChannels,
			SamplesPerSecond: uint32(sampleRate),
			BytesPerSecond:   uint32(2 * sampleRate),
			BytesPerCapture:  bytesPerCapture,
			BitsPerSample:    bitsPerSample,
		},
		List:    newChunk("LIST", riffIDLength+8+commentLength),
		Icmt:    newChunk("ICMT", commentLength),
		Comment: buildComment(meta),
		Data:    newChunk("data", dataBytes),
	}
	copy(h.Format[:], "WAVE")
	copy(h.Info[:], "INFO")
	return h
}

// MarshalHeader serializes a WAV header for numberOfSamples int16 samples
// at sampleRate, carrying meta in its comment chunk. The reference layout
// is little-endian throughout.
func MarshalHeader(sampleRate, numberOfSamples int, meta Metadata) []byte {
	h := buildHeader(sampleRate, numberOfSamples, meta)

	var buf bytes.Buffer
	buf.Grow(headerSize)
	if err := binary.Write(&buf, binary.LittleEndian, h); err != nil {
		// Every field is a fixed-size value; binary.Write over a
		// bytes.Buffer cannot fail.
		panic(err)
	}
	return buf.Bytes()
}

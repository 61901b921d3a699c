package recorder

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Recorder persists a detected window to a WAV file under a configured
// data directory, grouped into MM_YYYY folders the same way the reference
// firmware's SD-card filing does.
type Recorder struct {
	dataDir string
}

// New returns a Recorder that writes under dataDir.
func New(dataDir string) *Recorder {
	return &Recorder{dataDir: dataDir}
}

// folderName returns the "MM_YYYY" folder name for t, matching the
// reference firmware's sprintf("%02d_%04d", 1+tm_mon, 1900+tm_year).
func folderName(t time.Time) string {
	t = t.UTC()
	return fmt.Sprintf("%02d_%04d", int(t.Month()), t.Year())
}

// fileName returns the recording's file name: its UTC Unix timestamp in
// hex, matching sprintf("%08X.WAV", currentTime).
func fileName(t time.Time) string {
	return fmt.Sprintf("%08X.WAV", uint32(t.UTC().Unix()))
}

// Write persists one detected window as a WAV file, creating the month
// folder first if it does not already exist. The reference firmware opens
// the file a second, redundant time immediately after creating a missing
// folder; this implementation creates the directory and opens the file
// exactly once, fixing that ordering bug rather than reproducing it (see
// the design notes on collaborator correctness vs. algorithmic parity).
func (r *Recorder) Write(t time.Time, sampleRate int, buffer1, buffer2 []int16, meta Metadata) (string, error) {
	folder := filepath.Join(r.dataDir, folderName(t))
	if err := os.MkdirAll(folder, 0700); err != nil {
		return "", fmt.Errorf("failed to create recording folder: %w", err)
	}

	path := filepath.Join(folder, fileName(t))

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return "", fmt.Errorf("failed to open recording file: %w", err)
	}
	defer f.Close()

	numberOfSamples := len(buffer1) + len(buffer2)
	header := MarshalHeader(sampleRate, numberOfSamples, meta)
	if _, err := f.Write(header); err != nil {
		return "", fmt.Errorf("failed to write WAV header: %w", err)
	}

	if err := writeSamples(f, buffer1); err != nil {
		return "", fmt.Errorf("failed to write first buffer: %w", err)
	}
	if err := writeSamples(f, buffer2); err != nil {
		return "", fmt.Errorf("failed to write second buffer: %w", err)
	}

	return path, nil
}

func writeSamples(f *os.File, samples []int16) error {
	buf := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(s))
	}
	_, err := f.Write(buf)
	return err
}

// Package main is the entry point for the gunshotd daemon.
// gunshotd continuously listens to 8 kHz mono audio and writes a WAV file
// for every two-second window the detector core classifies as gunshot-like.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openacousticdevices/gunshotd/internal/capture"
	"github.com/openacousticdevices/gunshotd/internal/config"
	"github.com/openacousticdevices/gunshotd/internal/detector"
	"github.com/openacousticdevices/gunshotd/internal/power"
	"github.com/openacousticdevices/gunshotd/internal/recorder"
	"github.com/openacousticdevices/gunshotd/internal/scheduler"
	"github.com/openacousticdevices/gunshotd/internal/telemetry"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Flags holds daemon configuration taken from the command line.
type Flags struct {
	ConfigDir  string
	BatteryMV  int
	DeviceHigh uint
	DeviceLow  uint
	Monitor    bool
	Verbose    bool
}

func main() {
	flags := parseFlags()

	if flags.Verbose {
		log.Printf("gunshotd version %s starting...", Version)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Printf("Received signal %v, shutting down...", sig)
		cancel()
	}()

	if err := run(ctx, flags); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func parseFlags() *Flags {
	flags := &Flags{}

	flag.StringVar(&flags.ConfigDir, "config", "", "Configuration directory (default: ~/.config/gunshotd)")
	flag.IntVar(&flags.BatteryMV, "battery-mv", 4500, "Simulated battery reading in millivolts, for the battery band in logs and WAV comments")
	flag.UintVar(&flags.DeviceHigh, "serial-high", 0, "High 32 bits of the device serial")
	flag.UintVar(&flags.DeviceLow, "serial-low", 0, "Low 32 bits of the device serial")
	flag.BoolVar(&flags.Monitor, "monitor", false, "Play back captured audio through the sound card while listening")
	flag.BoolVar(&flags.Verbose, "verbose", false, "Enable verbose logging")
	flag.Parse()

	if flags.ConfigDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}
		flags.ConfigDir = homeDir + "/.config/gunshotd"
	}

	return flags
}

func run(ctx context.Context, flags *Flags) error {
	if err := os.MkdirAll(flags.ConfigDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	configMgr := config.NewManager(flags.ConfigDir)
	if err := configMgr.Load(); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg := configMgr.Get()

	telemetryLog := telemetry.New()

	announcer, err := power.NewAnnouncer()
	if err != nil {
		telemetryLog.Printf("[PWR] bench UI announcer unavailable: %v", err)
		announcer = nil
	}
	if announcer != nil {
		defer announcer.Close()
	}

	sched := scheduler.New(
		cfg.Schedule.Periods,
		time.Duration(cfg.Schedule.SleepDurationSeconds)*time.Second,
		time.Duration(cfg.Schedule.RecordDurationSeconds)*time.Second,
		cfg.Schedule.MaxRecordingsPerHour,
	)

	rec := recorder.New(cfg.DataDir)
	det := detector.New()

	var src capture.Capturer = capture.NewSliceCapturer(nil)
	if flags.Monitor {
		monitored, err := capture.NewMonitor(src, cfg.Audio.SampleRate)
		if err != nil {
			telemetryLog.Printf("[REC] audio monitor unavailable: %v", err)
		} else {
			src = monitored
		}
	}
	defer src.Close()

	serial := recorder.Serial{High: uint32(flags.DeviceHigh), Low: uint32(flags.DeviceLow)}

	band := power.BatteryBand(flags.BatteryMV)
	telemetryLog.Battery(band)
	if announcer != nil {
		if err := announcer.AnnounceBattery(band); err != nil {
			telemetryLog.Printf("[PWR] failed to announce battery state: %v", err)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		now := time.Now().UTC()
		if !sched.InListeningPeriod(now) {
			wait := sched.NextWakeDuration()
			telemetryLog.Schedule(false, wait.String())
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(wait):
			}
			continue
		}

		buf1, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("capture error: %w", err)
		}
		buf2, err := src.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("capture error: %w", err)
		}

		outcome := det.Detect(&buf1, &buf2)
		telemetryLog.Detection(outcome.Detected, outcome.Count)
		if announcer != nil {
			if err := announcer.AnnounceDetection(outcome.Detected, outcome.Count); err != nil {
				telemetryLog.Printf("[DETECT] failed to announce detection: %v", err)
			}
		}

		if !outcome.Detected {
			continue
		}

		if !sched.AllowRecording(now) {
			telemetryLog.RecordingSkipped("per-hour recording cap reached")
			continue
		}

		meta := recorder.Metadata{
			Timestamp:   now,
			Serial:      serial,
			Gain:        cfg.Audio.Gain,
			BatteryBand: band,
		}
		path, err := rec.Write(now, cfg.Audio.SampleRate, buf1[:], buf2[:], meta)
		if err != nil {
			telemetryLog.Printf("[REC] failed to write recording: %v", err)
			continue
		}
		sched.RecordWritten(now)
		telemetryLog.Recording(path, outcome.Detected)
	}
}

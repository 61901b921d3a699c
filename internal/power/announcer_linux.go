//go:build linux

package power

import (
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	signalInterface  = "info.openacousticdevices.gunshotd"
	signalObjectPath = "/info/openacousticdevices/gunshotd"
)

// dbusAnnouncer emits session-bus signals carrying detector and battery
// state, for a bench rig with a debug UI attached over a USB-to-serial-to-
// D-Bus bridge. It mirrors the MPRIS session's connect-export-emit shape.
type dbusAnnouncer struct {
	conn *dbus.Conn
}

// NewAnnouncer connects to the session bus and returns an Announcer that
// emits signals on it. Callers on a rig with no bus available should treat
// a non-nil error as "run without bench UI integration", not a fatal error.
func NewAnnouncer() (Announcer, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return &dbusAnnouncer{conn: conn}, nil
}

func (a *dbusAnnouncer) AnnounceDetection(detected bool, count int) error {
	return a.conn.Emit(dbus.ObjectPath(signalObjectPath), signalInterface+".Detection", detected, int32(count))
}

func (a *dbusAnnouncer) AnnounceBattery(band string) error {
	return a.conn.Emit(dbus.ObjectPath(signalObjectPath), signalInterface+".Battery", band)
}

func (a *dbusAnnouncer) Close() error {
	return a.conn.Close()
}

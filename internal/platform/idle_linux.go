package platform

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	mutterIdleService = "org.gnome.Mutter.IdleMonitor"
	mutterIdlePath    = "/org/gnome/Mutter/IdleMonitor/Core"
	mutterIdleMethod  = "org.gnome.Mutter.IdleMonitor.GetIdletime"
)

// mutterIdleProvider asks GNOME Shell for the idle time. Works under Wayland.
type mutterIdleProvider struct {
	conn *dbus.Conn
}

// xprintidleProvider shells out to xprintidle. X11 only.
type xprintidleProvider struct {
	path string
}

func newIdleProvider() IdleProvider {
	if conn, err := dbus.SessionBus(); err == nil {
		provider := &mutterIdleProvider{conn: conn}
		if _, err := provider.IdleDuration(); err == nil {
			return provider
		}
	}
	if path, err := exec.LookPath("xprintidle"); err == nil {
		return &xprintidleProvider{path: path}
	}
	return unsupportedIdleProvider{}
}

func (provider *mutterIdleProvider) IdleDuration() (time.Duration, error) {
	var idleMillis uint64
	object := provider.conn.Object(mutterIdleService, dbus.ObjectPath(mutterIdlePath))
	if err := object.Call(mutterIdleMethod, 0).Store(&idleMillis); err != nil {
		return 0, fmt.Errorf("mutter idle monitor: %w", err)
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

func (provider *xprintidleProvider) IdleDuration() (time.Duration, error) {
	output, err := exec.Command(provider.path).Output()
	if err != nil {
		return 0, fmt.Errorf("xprintidle: %w", err)
	}
	return parseIdleMillis(string(output))
}

func parseIdleMillis(output string) (time.Duration, error) {
	idleMillis, err := strconv.ParseInt(strings.TrimSpace(output), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse idle milliseconds: %w", err)
	}
	if idleMillis < 0 {
		idleMillis = 0
	}
	return time.Duration(idleMillis) * time.Millisecond, nil
}

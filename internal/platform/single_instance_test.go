package platform

import (
	"errors"
	"fmt"
	"testing"
	"time"
)

func TestSingleInstance(t *testing.T) {
	appName := fmt.Sprintf("worktimer-test-%d", time.Now().UnixNano())
	guard, err := AcquireSingleInstance(appName)
	if err != nil {
		t.Skipf("port unavailable: %v", err)
	}
	defer guard.Release()

	if _, err := AcquireSingleInstance(appName); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second acquire error = %v, want ErrAlreadyRunning", err)
	}

	activated := make(chan struct{}, 1)
	go guard.Serve(func() { activated <- struct{}{} })

	if err := ActivateRunning(appName); err != nil {
		t.Fatalf("ActivateRunning() error: %v", err)
	}
	select {
	case <-activated:
	case <-time.After(2 * time.Second):
		t.Error("running instance was not activated")
	}
}

func TestPortFromNameIsStable(t *testing.T) {
	first := portFromName("WorkTimer")
	if first != portFromName("WorkTimer") {
		t.Error("port changed between calls")
	}
	if first < 20000 || first > 39999 {
		t.Errorf("port %d out of range", first)
	}
}

func TestReleaseNilGuard(t *testing.T) {
	var guard *InstanceGuard
	if err := guard.Release(); err != nil {
		t.Errorf("Release() on nil guard = %v", err)
	}
	if guard.Address() != "" {
		t.Error("nil guard should have no address")
	}
}

package audio

import (
	"math"
	"testing"

	"worktimer/internal/core/model"
	"worktimer/resources"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
)

func embeddedSounds(t *testing.T) map[model.Alert][]byte {
	t.Helper()
	sounds := make(map[model.Alert][]byte)
	for _, alert := range model.Alerts() {
		resource, err := resources.Sound(alert.FileName())
		if err != nil {
			t.Fatalf("load %s: %v", alert.FileName(), err)
		}
		sounds[alert] = resource.Content()
	}
	return sounds
}

func TestBeepPlayerPlaysDecodedAlerts(t *testing.T) {
	var played []beep.Streamer
	player, err := newBeepPlayer(embeddedSounds(t), 1, func(streamers ...beep.Streamer) {
		played = append(played, streamers...)
	})
	if err != nil {
		t.Fatalf("newBeepPlayer() error: %v", err)
	}

	player.Play(model.AlertHappy)
	player.Play(model.AlertSad)
	if len(played) != 2 {
		t.Fatalf("played %d streamers, want 2", len(played))
	}
	volume, ok := played[0].(*effects.Volume)
	if !ok {
		t.Fatalf("played %T, want *effects.Volume", played[0])
	}
	if volume.Volume != 0 || volume.Silent {
		t.Errorf("full volume = %+v", volume)
	}

	player.SetEnabled(false)
	player.Play(model.AlertHappy)
	if len(played) != 2 {
		t.Error("disabled player still played")
	}
}

func TestBeepPlayerRequiresEveryAlert(t *testing.T) {
	sounds := embeddedSounds(t)
	delete(sounds, model.AlertSad)
	if _, err := newBeepPlayer(sounds, 1, func(...beep.Streamer) {}); err == nil {
		t.Error("expected an error when an alert sound is missing")
	}
}

func TestBeepPlayerRejectsBadData(t *testing.T) {
	sounds := embeddedSounds(t)
	sounds[model.AlertHappy] = []byte("not a wav file")
	if _, err := newBeepPlayer(sounds, 1, func(...beep.Streamer) {}); err == nil {
		t.Error("expected a decode error")
	}
}

func TestVolumeExponent(t *testing.T) {
	tests := []struct {
		level    float64
		expected float64
	}{
		{1, 0},
		{2, 0},
		{0.5, -1},
		{0.25, -2},
	}
	for _, tt := range tests {
		if got := volumeExponent(tt.level); got != tt.expected {
			t.Errorf("volumeExponent(%v) = %v, want %v", tt.level, got, tt.expected)
		}
	}
	if !math.IsInf(volumeExponent(0), -1) {
		t.Error("zero level should be silent")
	}
}

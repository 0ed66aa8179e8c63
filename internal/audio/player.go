// Package audio plays the alert sounds.
package audio

import (
	"bytes"
	"fmt"
	"math"
	"sync"
	"time"

	"worktimer/internal/core/model"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
)

// Player plays alert sounds.
type Player interface {
	Play(alert model.Alert)
}

// Silent is a Player that does nothing. Used when no audio device is available.
type Silent struct{}

func (Silent) Play(model.Alert) {}

var speakerOnce sync.Once
var speakerErr error

// BeepPlayer keeps every alert decoded in memory and mixes it into the speaker.
type BeepPlayer struct {
	mu      sync.Mutex
	buffers map[model.Alert]*beep.Buffer
	volume  float64
	enabled bool
	output  func(...beep.Streamer)
}

// NewBeepPlayer decodes the wav data for each alert and opens the speaker.
func NewBeepPlayer(sounds map[model.Alert][]byte, volume float64) (*BeepPlayer, error) {
	player, err := newBeepPlayer(sounds, volume, speaker.Play)
	if err != nil {
		return nil, err
	}

	speakerOnce.Do(func() {
		speakerErr = speaker.Init(player.sampleRate(), player.sampleRate().N(time.Second/10))
	})
	if speakerErr != nil {
		return nil, fmt.Errorf("init speaker: %w", speakerErr)
	}
	return player, nil
}

func newBeepPlayer(sounds map[model.Alert][]byte, volume float64, output func(...beep.Streamer)) (*BeepPlayer, error) {
	player := &BeepPlayer{
		buffers: make(map[model.Alert]*beep.Buffer, len(sounds)),
		enabled: true,
		output:  output,
	}
	player.SetVolume(volume)

	var format beep.Format
	for _, alert := range model.Alerts() {
		data, ok := sounds[alert]
		if !ok {
			return nil, fmt.Errorf("missing sound for %s alert", alert)
		}
		buffer, err := decode(data, format)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", alert.FileName(), err)
		}
		if format.SampleRate == 0 {
			format = buffer.Format()
		}
		player.buffers[alert] = buffer
	}
	return player, nil
}

// decode reads wav data into a buffer, resampling to target when it is set.
func decode(data []byte, target beep.Format) (*beep.Buffer, error) {
	streamer, format, err := wav.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer streamer.Close()

	var source beep.Streamer = streamer
	if target.SampleRate != 0 && target.SampleRate != format.SampleRate {
		source = beep.Resample(4, format.SampleRate, target.SampleRate, streamer)
		format.SampleRate = target.SampleRate
	}

	buffer := beep.NewBuffer(format)
	buffer.Append(source)
	return buffer, nil
}

func (player *BeepPlayer) sampleRate() beep.SampleRate {
	for _, buffer := range player.buffers {
		return buffer.Format().SampleRate
	}
	return beep.SampleRate(44100)
}

// Play starts the alert without waiting for it to finish.
func (player *BeepPlayer) Play(alert model.Alert) {
	player.mu.Lock()
	buffer, ok := player.buffers[alert]
	enabled := player.enabled
	volume := player.volume
	player.mu.Unlock()

	if !ok || !enabled {
		return
	}

	player.output(&effects.Volume{
		Streamer: buffer.Streamer(0, buffer.Len()),
		Base:     2,
		Volume:   volume,
		Silent:   math.IsInf(volume, -1),
	})
}

// SetVolume takes a linear level between 0 and 1.
func (player *BeepPlayer) SetVolume(level float64) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.volume = volumeExponent(level)
}

// SetEnabled mutes or unmutes every alert.
func (player *BeepPlayer) SetEnabled(enabled bool) {
	player.mu.Lock()
	defer player.mu.Unlock()
	player.enabled = enabled
}

// volumeExponent maps a linear level to the base-2 exponent used by effects.Volume.
func volumeExponent(level float64) float64 {
	if level <= 0 {
		return math.Inf(-1)
	}
	if level > 1 {
		level = 1
	}
	return math.Log2(level)
}

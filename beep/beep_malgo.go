//go:build darwin || windows

package beep

import (
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"
)

var (
	malgoCtx     *malgo.AllocatedContext
	device       *malgo.Device
	stepSamples  []byte
	matchSamples []byte
	resetSamples []byte
	soundOnce    sync.Once

	// Playback state - accessed atomically from callback
	playSamples atomic.Pointer[[]byte]
	playPos     atomic.Uint32
	playMu      sync.Mutex
)

func initDevice() error {
	config := malgo.DefaultDeviceConfig(malgo.Playback)
	config.Playback.Format = malgo.FormatS16
	config.Playback.Channels = 1
	config.SampleRate = sampleRate

	callbacks := malgo.DeviceCallbacks{
		Data: dataCallback,
	}

	var err error
	device, err = malgo.InitDevice(malgoCtx.Context, config, callbacks)
	return err
}

func initSound() {
	var err error
	malgoCtx, err = malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return
	}

	stepSamples = pcmBytes(stepSound())
	matchSamples = pcmBytes(matchSound())
	resetSamples = pcmBytes(resetSound())

	if err := initDevice(); err != nil {
		malgoCtx.Uninit()
		malgoCtx = nil
		return
	}
}

func dataCallback(out, _ []byte, frameCount uint32) {
	var n uint32
	if samples := playSamples.Load(); samples != nil {
		pos := playPos.Load()
		n = uint32(copy(out[:frameCount*2], (*samples)[pos:]))
		playPos.Store(pos + n)
		if n == 0 {
			playSamples.Store(nil)
		}
	}
	clear(out[n:])
}

// pcmBytes packs mono samples as little-endian S16.
func pcmBytes(samples []int16) []byte {
	buf := make([]byte, len(samples)*2)
	for i, s := range samples {
		buf[i*2] = byte(s)
		buf[i*2+1] = byte(s >> 8)
	}
	return buf
}

func playBytes(samples []byte) {
	if malgoCtx == nil || len(samples) == 0 {
		return
	}

	playMu.Lock()
	defer playMu.Unlock()

	if device == nil {
		return
	}

	// Stop device first to ensure clean state (no-op if not running)
	device.Stop()

	// Set up playback state
	playPos.Store(0)
	playSamples.Store(&samples)

	// Start device
	if err := device.Start(); err != nil {
		// Recreate the device; it goes stale across sleep/wake
		device.Uninit()
		if err := initDevice(); err != nil {
			playSamples.Store(nil)
			return
		}
		if err := device.Start(); err != nil {
			playSamples.Store(nil)
			return
		}
	}
}

func play(samples *[]byte) {
	if disabled {
		return
	}
	soundOnce.Do(initSound)
	playBytes(*samples)
}

func Init() {
	soundOnce.Do(initSound)
}

func PlayStep()  { play(&stepSamples) }
func PlayMatch() { play(&matchSamples) }
func PlayReset() { play(&resetSamples) }

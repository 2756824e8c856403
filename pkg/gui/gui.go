package gui

import (
	"fmt"
	"os"
	"runtime"
	"time"
	"unsafe"

	"github.com/veandco/go-sdl2/sdl"
	"nesgo/pkg/logger"
	"nesgo/pkg/nes"
)

const (
	screenWidth  = 256
	screenHeight = 240
	displayScale = 3

	windowWidth  = screenWidth * displayScale
	windowHeight = screenHeight * displayScale
	windowTitle  = "GoNES - Nintendo Entertainment System Emulator"

	audioSampleRate = 44100
	audioBufferSize = 1024
	audioChannels   = 1
	audioGain       = 0.5

	// 1789773 / 29780.5 Hz, the NTSC PPU/CPU-derived frame rate.
	targetFPS = 60.0988
)

var frameTime = time.Duration(float64(time.Second) / targetFPS)

// Window drives an SDL2 window, renderer and audio device around a running
// NES system: it pumps input events, blits the PPU framebuffer each frame,
// and streams APU samples to the audio device.
type Window struct {
	window   *sdl.Window
	renderer *sdl.Renderer
	texture  *sdl.Texture
	nes      *nes.NES
	running  bool

	screenshotSeq int

	audioDevice sdl.AudioDeviceID
	audioSpec   *sdl.AudioSpec

	fpsCounter int
	fpsSince   time.Time
	currentFPS float64
	showFPS    bool
}

// New opens a window bound to the given NES system and initializes SDL
// video and audio. The caller must call Destroy when done.
func New(nesSystem *nes.NES) (*Window, error) {
	runtime.LockOSThread()

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdl init: %w", err)
	}

	sdlWindow, err := sdl.CreateWindow(
		windowTitle,
		sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED,
		windowWidth, windowHeight,
		sdl.WINDOW_SHOWN,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("create window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(sdlWindow, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create renderer: %w", err)
	}
	renderer.SetDrawBlendMode(sdl.BLENDMODE_NONE)

	texture, err := renderer.CreateTexture(
		sdl.PIXELFORMAT_ABGR8888,
		sdl.TEXTUREACCESS_STREAMING,
		screenWidth, screenHeight,
	)
	if err != nil {
		renderer.Destroy()
		sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("create texture: %w", err)
	}
	texture.SetBlendMode(sdl.BLENDMODE_NONE)

	w := &Window{
		window:   sdlWindow,
		renderer: renderer,
		texture:  texture,
		nes:      nesSystem,
		running:  true,
		fpsSince: time.Now(),
		showFPS:  true,
	}

	if err := w.openAudio(); err != nil {
		logger.LogError("audio unavailable, running silent: %v", err)
	}

	return w, nil
}

// Destroy releases SDL resources. Safe to call even if initialization
// partially failed.
func (w *Window) Destroy() {
	if w.audioDevice != 0 {
		sdl.CloseAudioDevice(w.audioDevice)
	}
	if w.texture != nil {
		w.texture.Destroy()
	}
	if w.renderer != nil {
		w.renderer.Destroy()
	}
	if w.window != nil {
		w.window.Destroy()
	}
	sdl.Quit()
}

// Run pumps the event loop, advances the NES by one frame, and presents it,
// pacing to targetFPS, until the window is closed or Escape is pressed.
func (w *Window) Run() {
	start := time.Now()
	frame := 0

	for w.running {
		w.pollEvents()
		w.advanceFrame()
		w.present()

		frame++
		deadline := start.Add(time.Duration(frame) * frameTime)
		if now := time.Now(); now.Before(deadline) {
			time.Sleep(deadline.Sub(now))
		}
	}
}

func (w *Window) pollEvents() {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			w.running = false
		case *sdl.KeyboardEvent:
			w.handleKey(e)
		}
	}
}

// handleKey maps the standard emulator layout (ZX for A/B, arrows for the
// d-pad, A/S for select/start) onto controller 1, plus a couple of
// window-level shortcuts.
func (w *Window) handleKey(event *sdl.KeyboardEvent) {
	pressed := event.State == sdl.PRESSED
	in := w.nes.GetInput()

	const (
		btnA = iota
		btnB
		btnSelect
		btnStart
		btnUp
		btnDown
		btnLeft
		btnRight
	)

	switch event.Keysym.Sym {
	case sdl.K_z:
		in.SetButton(0, btnA, pressed)
	case sdl.K_x:
		in.SetButton(0, btnB, pressed)
	case sdl.K_a:
		in.SetButton(0, btnSelect, pressed)
	case sdl.K_s:
		in.SetButton(0, btnStart, pressed)
	case sdl.K_UP:
		in.SetButton(0, btnUp, pressed)
	case sdl.K_DOWN:
		in.SetButton(0, btnDown, pressed)
	case sdl.K_LEFT:
		in.SetButton(0, btnLeft, pressed)
	case sdl.K_RIGHT:
		in.SetButton(0, btnRight, pressed)
	case sdl.K_ESCAPE:
		w.running = false
	case sdl.K_F12:
		if pressed {
			w.SaveScreenshot()
		}
	case sdl.K_F3:
		if pressed {
			w.showFPS = !w.showFPS
		}
	}
}

func (w *Window) advanceFrame() {
	w.nes.StepFrame()
	w.queueAudio()
	w.tickFPS()
}

func (w *Window) present() {
	framebuffer := w.nes.GetDisplayFramebuffer()
	w.texture.Update(nil, unsafe.Pointer(&framebuffer[0]), screenWidth*4)

	w.renderer.SetDrawColor(0, 0, 0, 255)
	w.renderer.Clear()
	w.renderer.Copy(w.texture, nil, nil)

	if w.showFPS {
		w.window.SetTitle(fmt.Sprintf("%s - FPS: %.1f", windowTitle, w.currentFPS))
	}
	w.renderer.Present()
}

// SaveScreenshot reads the current renderer contents and writes them to a
// sequentially-numbered raw RGBA file in the working directory.
func (w *Window) SaveScreenshot() {
	name := fmt.Sprintf("screenshot_%03d.rgba", w.screenshotSeq)
	w.screenshotSeq++

	width, height, _ := w.renderer.GetOutputSize()
	pixels := make([]byte, width*height*4)
	if err := w.renderer.ReadPixels(nil, sdl.PIXELFORMAT_RGBA8888, unsafe.Pointer(&pixels[0]), int(width*4)); err != nil {
		logger.LogError("read pixels for screenshot: %v", err)
		return
	}

	if err := os.WriteFile(name, pixels, 0o644); err != nil {
		logger.LogError("write screenshot %s: %v", name, err)
		return
	}
	logger.LogInfo("saved screenshot %s (%d bytes)", name, len(pixels))
}

func (w *Window) openAudio() error {
	want := &sdl.AudioSpec{
		Freq:     audioSampleRate,
		Format:   sdl.AUDIO_F32LSB,
		Channels: audioChannels,
		Samples:  audioBufferSize,
	}

	var have sdl.AudioSpec
	device, err := sdl.OpenAudioDevice("", false, want, &have, sdl.AUDIO_ALLOW_ANY_CHANGE)
	if err != nil {
		want.Format = sdl.AUDIO_S16LSB
		device, err = sdl.OpenAudioDevice("", false, want, &have, sdl.AUDIO_ALLOW_ANY_CHANGE)
		if err != nil {
			return fmt.Errorf("open audio device: %w", err)
		}
	}

	w.audioDevice = device
	w.audioSpec = &have
	logger.LogInfo("audio device open: %dHz, format 0x%x, buffer %d", have.Freq, have.Format, have.Samples)

	sdl.PauseAudioDevice(device, false)
	return nil
}

// queueAudio drains the APU's pending sample buffer to SDL, dropping
// samples rather than blocking if the device's queue is already full.
func (w *Window) queueAudio() {
	if w.audioDevice == 0 {
		return
	}

	samples := w.nes.APU.Output
	defer func() { w.nes.APU.Output = w.nes.APU.Output[:0] }()

	if len(samples) == 0 {
		return
	}

	const queuedBufferLimit = audioBufferSize * 4 * 2
	if sdl.GetQueuedAudioSize(w.audioDevice) >= queuedBufferLimit {
		return
	}

	var encoded []byte
	switch w.audioSpec.Format {
	case sdl.AUDIO_F32LSB:
		encoded = encodeFloat32(samples)
	case sdl.AUDIO_S16LSB:
		encoded = encodeInt16(samples)
	default:
		return
	}
	sdl.QueueAudio(w.audioDevice, encoded)
}

func encodeFloat32(samples []float32) []byte {
	out := make([]byte, len(samples)*4)
	for i, s := range samples {
		s *= audioGain
		bits := *(*uint32)(unsafe.Pointer(&s))
		out[i*4+0] = byte(bits)
		out[i*4+1] = byte(bits >> 8)
		out[i*4+2] = byte(bits >> 16)
		out[i*4+3] = byte(bits >> 24)
	}
	return out
}

func encodeInt16(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		s *= audioGain
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		v := int16(s * 32767)
		out[i*2+0] = byte(v)
		out[i*2+1] = byte(v >> 8)
	}
	return out
}

func (w *Window) tickFPS() {
	w.fpsCounter++
	elapsed := time.Since(w.fpsSince)
	if elapsed < 500*time.Millisecond {
		return
	}
	w.currentFPS = float64(w.fpsCounter) / elapsed.Seconds()
	w.fpsCounter = 0
	w.fpsSince = time.Now()
}

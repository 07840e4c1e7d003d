package audio

import (
	"io"
	"math"
	"sync"
	"time"

	"github.com/hajimehoshi/oto/v2"
	"go.uber.org/zap"

	"crazycars/internal/race"
)

const (
	SampleRate   = 44100
	ChannelCount = 2
	BitDepth     = 0 // 32-bit float (oto.FormatFloat32LE)

	DefaultSFXVolume = 0.58
)

// SoundKind identifies a sound effect.
type SoundKind int

const (
	SoundStart SoundKind = iota
	SoundBounce
	SoundFinishBounce
	SoundLevelUp
	SoundLost
	SoundWon
)

// System plays procedural sound effects and the engine loop. A nil System
// is valid and silent.
type System struct {
	ctx   *oto.Context
	ready chan struct{}
	log   *zap.Logger

	mu        sync.Mutex
	sfxVolume float64
	cache     map[SoundKind][]byte
	engine    oto.Player
	engineSrc *engineReader
}

// New opens the audio device. oto allows one context per process.
func New(log *zap.Logger) (*System, error) {
	ctx, ready, err := oto.NewContext(SampleRate, ChannelCount, BitDepth)
	if err != nil {
		return nil, err
	}
	return &System{
		ctx:       ctx,
		ready:     ready,
		log:       log,
		sfxVolume: DefaultSFXVolume,
		cache:     make(map[SoundKind][]byte),
	}, nil
}

func (s *System) isReady() bool {
	if s == nil {
		return false
	}
	select {
	case <-s.ready:
		return true
	default:
		return false
	}
}

// SetSFXVolume sets the effects volume, clamped to [0,1]. The engine loop
// keeps its own level.
func (s *System) SetSFXVolume(vol float64) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.sfxVolume = math.Max(0, math.Min(vol, 1))
	s.mu.Unlock()
}

// Play starts a sound effect on its own player and returns immediately.
func (s *System) Play(kind SoundKind) {
	if !s.isReady() {
		return
	}
	s.mu.Lock()
	samples, ok := s.cache[kind]
	if !ok {
		samples = generateSound(kind)
		s.cache[kind] = samples
	}
	vol := s.sfxVolume
	s.mu.Unlock()
	if len(samples) == 0 {
		return
	}
	go func() {
		player := s.ctx.NewPlayer(&soundReader{data: samples})
		player.SetVolume(vol)
		player.Play()
		for player.IsPlaying() {
			time.Sleep(10 * time.Millisecond)
		}
		if err := player.Close(); err != nil {
			s.log.Debug("closing sound player", zap.Error(err))
		}
	}()
}

// StartEngine starts the looping engine sound; SetThrottle drives its pitch.
func (s *System) StartEngine() {
	if !s.isReady() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine != nil {
		return
	}
	s.engineSrc = newEngineReader()
	s.engine = s.ctx.NewPlayer(s.engineSrc)
	s.engine.SetVolume(0.12)
	s.engine.Play()
}

// SetThrottle sets the engine load from the player's speed in [0,1].
func (s *System) SetThrottle(v float64) {
	if s == nil {
		return
	}
	s.mu.Lock()
	src := s.engineSrc
	s.mu.Unlock()
	if src != nil {
		src.SetThrottle(v)
	}
}

// Subscribe maps race events to sound effects.
func (s *System) Subscribe(bus *race.EventBus) {
	if s == nil {
		return
	}
	sounds := map[race.EventType]SoundKind{
		race.EventLevelStarted:  SoundStart,
		race.EventBorderBounce:  SoundBounce,
		race.EventFinishBounce:  SoundFinishBounce,
		race.EventLevelComplete: SoundLevelUp,
		race.EventRaceLost:      SoundLost,
		race.EventRaceWon:       SoundWon,
	}
	for ev, kind := range sounds {
		bus.Subscribe(ev, func(race.Event) { s.Play(kind) })
	}
}

func (s *System) Close() {
	if s == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.engine != nil {
		if err := s.engine.Close(); err != nil {
			s.log.Debug("closing engine player", zap.Error(err))
		}
		s.engine = nil
		s.engineSrc = nil
	}
}

type soundReader struct {
	data []byte
	pos  int
}

func (r *soundReader) Read(p []byte) (int, error) {
	if r.pos >= len(r.data) {
		return 0, io.EOF
	}
	n := copy(p, r.data[r.pos:])
	r.pos += n
	return n, nil
}

// putStereoF32 writes a [-1,1] sample as float32 LE to both stereo channels at frame i.
func putStereoF32(buf []byte, i int, sample float64) {
	v := math.Float32bits(float32(sample))
	buf[i*8] = byte(v)
	buf[i*8+1] = byte(v >> 8)
	buf[i*8+2] = byte(v >> 16)
	buf[i*8+3] = byte(v >> 24)
	buf[i*8+4] = byte(v)
	buf[i*8+5] = byte(v >> 8)
	buf[i*8+6] = byte(v >> 16)
	buf[i*8+7] = byte(v >> 24)
}

// softSat applies a gentle tanh-like saturation instead of hard clipping.
func softSat(x float64) float64 {
	if x > 1.0 {
		return 1.0 - 0.5/(x)
	}
	if x < -1.0 {
		return -1.0 + 0.5/(-x)
	}
	return x - x*x*x/3.0
}

// adsr returns an envelope at normalized progress [0,1].
// attack/decay/release are fractions of the total duration.
func adsr(progress, attack, decay, sustain, release float64) float64 {
	switch {
	case progress < attack:
		return progress / attack
	case progress < attack+decay:
		return 1.0 - (progress-attack)/decay*(1.0-sustain)
	case progress < 1.0-release:
		return sustain
	default:
		return sustain * (1.0 - (progress-(1.0-release))/release)
	}
}

// fm returns an FM-synthesized sample.
// carrier: base frequency, modRatio: modulator/carrier ratio, modIdx: modulation depth.
func fm(t, carrier, modRatio, modIdx float64) float64 {
	mod := math.Sin(2 * math.Pi * carrier * modRatio * t)
	return math.Sin(2*math.Pi*carrier*t + modIdx*mod)
}

// lcg advances an LCG seed and returns a noise sample in [-1,1].
func lcg(seed *uint64) float64 {
	*seed = *seed*6364136223846793005 + 1442695040888963407
	return float64(int64(*seed>>33)-int64(1<<30)) / float64(1<<30)
}

// makeBuf allocates a stereo float32 buffer for n samples.
func makeBuf(n int) []byte { return make([]byte, n*8) }

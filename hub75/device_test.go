package hub75

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"machine"
)

// fakeBackend stands in for hardwareBackend in tests: it records the calls
// Device makes without touching any PIO/DMA register.
type fakeBackend struct {
	configured    bool
	configureErr  error
	lastFront     []byte
	flipCount     int
	dataFreqHz    uint32
	shutdownCalls int
}

func (f *fakeBackend) configure(cfg Config, front, back []byte, timing []uint32) error {
	if f.configureErr != nil {
		return f.configureErr
	}
	f.configured = true
	f.lastFront = front
	return nil
}

func (f *fakeBackend) flip(front []byte) {
	f.flipCount++
	f.lastFront = front
}

func (f *fakeBackend) setDataFrequency(hz uint32) { f.dataFreqHz = hz }

func (f *fakeBackend) shutdown() error {
	f.shutdownCalls++
	return nil
}

// withFakeBackend swaps newBackend for the duration of the test and hands
// back the fakeBackend instance it will produce.
func withFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	prev := newBackend
	newBackend = func() backend { return fb }
	t.Cleanup(func() { newBackend = prev })
	return fb
}

func testConfig() Config {
	b := 1.0
	return Config{
		Geometry: Geometry{Width: 4, Height: 4, ColorDepth: 2},
		Pins: Pins{
			BaseData:     machine.Pin(0),
			BaseClock:    machine.Pin(6),
			BaseAddress:  machine.Pin(8),
			OutputEnable: machine.Pin(9),
		},
		StateMachines: StateMachines{Address: 0, Data: 1},
		Brightness:    &b,
	}
}

func TestConfigureStartsRunningAndWiresBackend(t *testing.T) {
	c := qt.New(t)
	fb := withFakeBackend(t)

	d := New()
	err := d.Configure(testConfig())
	c.Assert(err, qt.IsNil)
	c.Assert(d.running(), qt.IsTrue)
	c.Assert(fb.configured, qt.IsTrue)
}

func TestConfigureRejectsInvalidGeometry(t *testing.T) {
	c := qt.New(t)
	withFakeBackend(t)

	cfg := testConfig()
	cfg.Width = 0

	d := New()
	err := d.Configure(cfg)
	var cerr *ConfigError
	c.Assert(err, qt.ErrorAs, &cerr)
	c.Assert(d.running(), qt.IsFalse)
}

func TestOperationsRequireRunningState(t *testing.T) {
	c := qt.New(t)
	withFakeBackend(t)

	d := New()
	c.Assert(d.LoadRGB888(make([]byte, 10)), qt.Equals, ErrNotRunning)
	c.Assert(d.LoadRGB565(make([]byte, 10)), qt.Equals, ErrNotRunning)
	c.Assert(d.Clear(), qt.Equals, ErrNotRunning)
	c.Assert(d.Flip(), qt.Equals, ErrNotRunning)
	c.Assert(d.SetBrightness(0.5), qt.Equals, ErrNotRunning)
	c.Assert(d.SetBlanking(100), qt.Equals, ErrNotRunning)
	c.Assert(d.SetGamma(Gamma{Kind: GammaSRGB}), qt.Equals, ErrNotRunning)
	c.Assert(d.SetDataFrequency(1000), qt.Equals, ErrNotRunning)
	c.Assert(d.Deinit(), qt.Equals, ErrNotRunning)
	_, err := d.SetTargetRefreshRate(60)
	c.Assert(err, qt.Equals, ErrNotRunning)
}

// TestFlipIsAtomicAndReachesBackend covers scenario S4: flip must toggle the
// active buffer and propagate the new front buffer's address to the backend
// in one call, with no partial state observable in between.
func TestFlipIsAtomicAndReachesBackend(t *testing.T) {
	c := qt.New(t)
	fb := withFakeBackend(t)

	d := New()
	c.Assert(d.Configure(testConfig()), qt.IsNil)

	firstFront := d.buf.front()
	c.Assert(d.Flip(), qt.IsNil)
	c.Assert(fb.flipCount, qt.Equals, 1)
	c.Assert(&fb.lastFront[0], qt.Not(qt.Equals), &firstFront[0])
	c.Assert(&d.buf.front()[0], qt.Equals, &fb.lastFront[0])
}

func TestLoadThenFlipExposesEncodedDataAsFront(t *testing.T) {
	c := qt.New(t)
	withFakeBackend(t)

	d := New()
	cfg := testConfig()
	c.Assert(d.Configure(cfg), qt.IsNil)

	src := make([]byte, cfg.Width*cfg.Height*3)
	for i := range src {
		src[i] = 0xFF
	}
	c.Assert(d.LoadRGB888(src), qt.IsNil)

	back := d.buf.back()
	allSet := true
	for _, b := range back {
		if b&0xFC != 0xFC {
			allSet = false
		}
	}
	c.Assert(allSet, qt.IsTrue)

	c.Assert(d.Flip(), qt.IsNil)
	c.Assert(d.buf.front(), qt.DeepEquals, back)
}

func TestSetBrightnessRewritesTimingInPlace(t *testing.T) {
	c := qt.New(t)
	withFakeBackend(t)

	d := New()
	c.Assert(d.Configure(testConfig()), qt.IsNil)

	timingPtr := &d.timing[0]
	c.Assert(d.SetBrightness(0), qt.IsNil)
	c.Assert(&d.timing[0], qt.Equals, timingPtr)
	for i := 0; i < len(d.timing)/2; i++ {
		c.Assert(d.timing[2*i+1], qt.Equals, uint32(0), qt.Commentf("bitplane %d on_i", i))
	}
}

func TestSetBrightnessRejectsOutOfRange(t *testing.T) {
	c := qt.New(t)
	withFakeBackend(t)

	d := New()
	c.Assert(d.Configure(testConfig()), qt.IsNil)

	err := d.SetBrightness(1.5)
	var cerr *ConfigError
	c.Assert(err, qt.ErrorAs, &cerr)
}

func TestSetGammaRebuildsLUTInPlace(t *testing.T) {
	c := qt.New(t)
	withFakeBackend(t)

	d := New()
	c.Assert(d.Configure(testConfig()), qt.IsNil)

	lutPtr := d.enc.lut
	c.Assert(d.SetGamma(Gamma{Kind: GammaPower, Value: 1}), qt.IsNil)
	c.Assert(d.enc.lut, qt.Equals, lutPtr)
}

func TestSetDataFrequencyForwardsToBackend(t *testing.T) {
	c := qt.New(t)
	fb := withFakeBackend(t)

	d := New()
	c.Assert(d.Configure(testConfig()), qt.IsNil)
	c.Assert(d.SetDataFrequency(15_000_000), qt.IsNil)
	c.Assert(fb.dataFreqHz, qt.Equals, uint32(15_000_000))
}

// TestDeinitIsGraceful covers the façade half of scenario S6: Deinit must
// call through to the backend's shutdown exactly once and leave the Device
// non-Running. The register-level half of S6 (handshake IRQs force-asserted
// then cleared, PIO program memory vacated) lives in hardwareBackend.shutdown
// and isn't reachable from this fake-backend test.
func TestDeinitIsGraceful(t *testing.T) {
	c := qt.New(t)
	fb := withFakeBackend(t)

	d := New()
	c.Assert(d.Configure(testConfig()), qt.IsNil)
	c.Assert(d.Deinit(), qt.IsNil)
	c.Assert(fb.shutdownCalls, qt.Equals, 1)
	c.Assert(d.running(), qt.IsFalse)
	c.Assert(d.LoadRGB888(nil), qt.Equals, ErrNotRunning)
}

func TestReconfigureShutsDownPreviousBackend(t *testing.T) {
	c := qt.New(t)
	first := withFakeBackend(t)

	d := New()
	c.Assert(d.Configure(testConfig()), qt.IsNil)

	second := &fakeBackend{}
	newBackend = func() backend { return second }

	c.Assert(d.Configure(testConfig()), qt.IsNil)
	c.Assert(first.shutdownCalls, qt.Equals, 1)
	c.Assert(second.configured, qt.IsTrue)
}

func TestSetTargetRefreshRateReturnsAchievedHz(t *testing.T) {
	c := qt.New(t)
	withFakeBackend(t)

	d := New()
	c.Assert(d.Configure(testConfig()), qt.IsNil)

	hz, err := d.SetTargetRefreshRate(200)
	c.Assert(err, qt.IsNil)
	c.Assert(hz > 0, qt.IsTrue)
}

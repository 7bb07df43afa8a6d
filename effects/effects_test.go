package effects

import (
	"math"
	"testing"

	"github.com/sylm54/narrate/audio"
)

func constant(value float32, length, rate int) *audio.Buffer {
	samples := make([]float32, length)
	for i := range samples {
		samples[i] = value
	}
	return audio.FromMono(samples, rate)
}

func TestEcho(t *testing.T) {
	t.Run("default parameters", func(t *testing.T) {
		buf := constant(0.5, 1000, 24000)
		out := Echo(buf, Options{})

		// One repeat every 0.25s at 24kHz, three repeats.
		want := 1000 + 6000*3
		if out.Len() != want {
			t.Errorf("Len() = %d, want %d", out.Len(), want)
		}
	})

	t.Run("light preset", func(t *testing.T) {
		preset, ok := Preset("echo", "light")
		if !ok {
			t.Fatal("light preset missing")
		}
		buf := constant(0.5, 1000, 24000)
		out := Echo(buf, preset)

		want := 1000 + 2400*2
		if out.Len() != want {
			t.Errorf("Len() = %d, want %d", out.Len(), want)
		}
	})

	t.Run("negative delay behaves as zero", func(t *testing.T) {
		buf := constant(0.5, 1000, 24000)
		out := Echo(buf, Options{Delay: fptr(-1), Decay: fptr(0.5), Repeats: iptr(2)})

		// Repeats land on top of the source: 0.5 * (1 + 0.5 + 0.25).
		if out.Len() != 1000 {
			t.Fatalf("Len() = %d, want 1000", out.Len())
		}
		if got := out.Channel(0)[500]; math.Abs(float64(got)-0.875) > 1e-6 {
			t.Errorf("sample = %f, want 0.875", got)
		}
	})

	t.Run("repeats decay", func(t *testing.T) {
		buf := audio.FromMono([]float32{0.5}, 24000)
		out := Echo(buf, Options{Delay: fptr(0.001), Decay: fptr(0.5), Repeats: iptr(2)})

		// Source at 0, echoes at 24 and 48 with gains 0.5 and 0.25.
		if out.Len() != 49 {
			t.Fatalf("Len() = %d, want 49", out.Len())
		}
		checks := map[int]float32{0: 0.5, 24: 0.25, 48: 0.125}
		for i, w := range checks {
			if math.Abs(float64(out.Channel(0)[i]-w)) > 1e-6 {
				t.Errorf("sample %d = %f, want %f", i, out.Channel(0)[i], w)
			}
		}
	})
}

func TestPan(t *testing.T) {
	tests := []struct {
		name      string
		pan       float64
		wantLeft  float64
		wantRight float64
	}{
		{"hard left", -1, 1, 0},
		{"hard right", 1, 0, 1},
		{"center", 0, math.Sqrt2 / 2, math.Sqrt2 / 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := constant(0.5, 100, 24000)
			out := Pan(buf, Options{Pan: &tt.pan})

			if out.Channels() != 2 {
				t.Fatalf("Channels() = %d, want 2", out.Channels())
			}
			gotLeft := float64(out.Channel(0)[50]) / 0.5
			gotRight := float64(out.Channel(1)[50]) / 0.5
			if math.Abs(gotLeft-tt.wantLeft) > 1e-6 {
				t.Errorf("left gain = %f, want %f", gotLeft, tt.wantLeft)
			}
			if math.Abs(gotRight-tt.wantRight) > 1e-6 {
				t.Errorf("right gain = %f, want %f", gotRight, tt.wantRight)
			}
		})
	}

	t.Run("constant power", func(t *testing.T) {
		for pan := -1.0; pan <= 1.0; pan += 0.25 {
			buf := constant(1.0, 10, 24000)
			out := Pan(buf, Options{Pan: &pan})
			l := float64(out.Channel(0)[5])
			r := float64(out.Channel(1)[5])
			if power := l*l + r*r; math.Abs(power-1.0) > 1e-6 {
				t.Errorf("pan %.2f: power = %f, want 1", pan, power)
			}
		}
	})
}

func TestBinaural(t *testing.T) {
	t.Run("widens mono to stereo", func(t *testing.T) {
		buf := constant(0.1, 24000, 24000)
		out := Binaural(buf, Options{})

		if out.Channels() != 2 {
			t.Fatalf("Channels() = %d, want 2", out.Channels())
		}
		if out.Len() != buf.Len() {
			t.Errorf("Len() = %d, want %d", out.Len(), buf.Len())
		}
	})

	t.Run("fade keeps edges tone-free", func(t *testing.T) {
		buf := constant(0.0, 24000, 24000)
		fade := 10.0
		out := Binaural(buf, Options{FadeMs: &fade})

		if got := out.Channel(0)[0]; got != 0 {
			t.Errorf("first sample = %f, want 0", got)
		}
		if got := out.Channel(0)[out.Len()-1]; math.Abs(float64(got)) > 5e-4 {
			t.Errorf("last sample = %f, want ~0", got)
		}
		// Mid-buffer the tone must actually be there.
		peak := float32(0)
		for _, s := range out.Channel(0)[11000:13000] {
			if v := float32(math.Abs(float64(s))); v > peak {
				peak = v
			}
		}
		if peak < 0.05 {
			t.Errorf("mid-buffer peak = %f, want near amplitude 0.08", peak)
		}
	})

	t.Run("channels carry different frequencies", func(t *testing.T) {
		buf := constant(0.0, 24000, 24000)
		out := Binaural(buf, Options{})

		// With distinct tone frequencies the channels cannot be identical.
		same := true
		for i := 1000; i < 2000; i++ {
			if out.Channel(0)[i] != out.Channel(1)[i] {
				same = false
				break
			}
		}
		if same {
			t.Error("left and right channels are identical")
		}
	})
}

func TestGain(t *testing.T) {
	tests := []struct {
		name   string
		factor float64
		in     float32
		want   float32
	}{
		{"attenuate", 0.5, 0.8, 0.4},
		{"unity", 1.0, 0.8, 0.8},
		{"boost clamps", 2.0, 0.8, 1.0},
		{"zero silences", 0.0, 0.8, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := constant(tt.in, 10, 24000)
			out := Gain(buf, tt.factor)
			if got := out.Channel(0)[5]; math.Abs(float64(got-tt.want)) > 1e-6 {
				t.Errorf("sample = %f, want %f", got, tt.want)
			}
			// Input is untouched.
			if buf.Channel(0)[5] != tt.in {
				t.Error("Gain() mutated its input")
			}
		})
	}
}

func TestTrimSilence(t *testing.T) {
	t.Run("crops leading and trailing silence", func(t *testing.T) {
		rate := 24000
		samples := make([]float32, 3*rate)
		for i := rate; i < 2*rate; i++ {
			samples[i] = 0.5
		}
		buf := audio.FromMono(samples, rate)

		out := TrimSilence(buf, 0.002, 20)
		// Roughly the loud middle second; the window can add up to 20ms
		// per side.
		if out.Len() < rate || out.Len() > rate+2*480 {
			t.Errorf("Len() = %d, want about %d", out.Len(), rate)
		}
	})

	t.Run("all-silent input yields one sample", func(t *testing.T) {
		buf := audio.FromMono(make([]float32, 24000), 24000)
		out := TrimSilence(buf, 0.002, 20)
		if out.Len() != 1 {
			t.Errorf("Len() = %d, want 1", out.Len())
		}
	})

	t.Run("loud input stays whole", func(t *testing.T) {
		buf := constant(0.5, 1000, 24000)
		out := TrimSilence(buf, 0.002, 20)
		if out.Len() != 1000 {
			t.Errorf("Len() = %d, want 1000", out.Len())
		}
	})
}

func TestApply(t *testing.T) {
	t.Run("unknown effect passes through", func(t *testing.T) {
		buf := constant(0.5, 100, 24000)
		if out := Apply("flanger", buf, Options{}); out != buf {
			t.Error("unknown effect should return the input buffer")
		}
	})

	t.Run("dispatches known effects", func(t *testing.T) {
		buf := constant(0.5, 100, 24000)
		if out := Apply("pan", buf, Options{}); out.Channels() != 2 {
			t.Error("pan effect not applied")
		}
		if out := Apply("echo", buf, Options{}); out.Len() <= buf.Len() {
			t.Error("echo effect not applied")
		}
		if out := Apply("binaural", buf, Options{}); out.Channels() != 2 {
			t.Error("binaural effect not applied")
		}
	})
}

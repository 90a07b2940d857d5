package sigio

import (
	"fmt"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/sdrkit/dvbtx/flow"
)

const wavBitDepth = 16

// WAVSink captures baseband samples to a two-channel WAV file, I on the
// left channel and Q on the right.
type WAVSink struct {
	name    string
	in      *flow.Buffer[complex64]
	file    *os.File
	encoder *wav.Encoder
	ib      *audio.IntBuffer
}

// NewWAVSink creates a sink stage writing to path. The sample rate only
// labels the file; baseband samples carry no absolute rate of their own.
func NewWAVSink(s *flow.Scheduler, path string, sampleRate int, in *flow.Buffer[complex64]) (*WAVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	w := &WAVSink{
		name:    "wav-sink",
		in:      in,
		file:    f,
		encoder: wav.NewEncoder(f, sampleRate, wavBitDepth, 2, 1),
		ib: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: 2, SampleRate: sampleRate},
			SourceBitDepth: wavBitDepth,
		},
	}
	s.Register(w)
	return w, nil
}

// Name implements flow.Stage.
func (w *WAVSink) Name() string {
	return w.name
}

// Process drains everything readable into the encoder.
func (w *WAVSink) Process() error {
	n := w.in.Readable()
	if n == 0 {
		return nil
	}
	src := w.in.Rd()
	if cap(w.ib.Data) < n*2 {
		w.ib.Data = make([]int, n*2)
	}
	w.ib.Data = w.ib.Data[:n*2]
	for i := 0; i < n; i++ {
		w.ib.Data[i*2] = pcm16(real(src[i]))
		w.ib.Data[i*2+1] = pcm16(imag(src[i]))
	}
	if err := w.encoder.Write(w.ib); err != nil {
		return fmt.Errorf("write wav: %w", err)
	}
	w.in.Read(n)
	return nil
}

// pcm16 scales a unit-range sample to 16 bits. Overdriven samples clip
// instead of wrapping the integer conversion.
func pcm16(v float32) int {
	s := float64(v) * (math.MaxInt16 - 1)
	if s > math.MaxInt16 {
		return math.MaxInt16
	}
	if s < math.MinInt16 {
		return math.MinInt16
	}
	return int(s)
}

// Flush closes the encoder and the file.
func (w *WAVSink) Flush() error {
	if err := w.encoder.Close(); err != nil {
		return err
	}
	return w.file.Close()
}

// Package portaudio plays baseband samples on the default sound device,
// for transmitters fed through a soundcard at audio IF.
package portaudio

import (
	"github.com/gordonklaus/portaudio"

	"github.com/sdrkit/dvbtx/flow"
)

// Sink writes complex samples to a stereo portaudio stream, I left and
// Q right, in fixed-size frames. The trailing partial frame at end of
// stream is zero-padded so the buffer always drains.
type Sink struct {
	name   string
	in     *flow.Buffer[complex64]
	stream *portaudio.Stream
	buf    []float32
	frames int
}

// NewSink initializes portaudio and opens the default stereo output.
func NewSink(s *flow.Scheduler, sampleRate int, frames int, in *flow.Buffer[complex64]) (*Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}
	snk := &Sink{
		name:   "portaudio-sink",
		in:     in,
		buf:    make([]float32, frames*2),
		frames: frames,
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(sampleRate), frames, &snk.buf)
	if err != nil {
		return nil, err
	}
	if err := stream.Start(); err != nil {
		return nil, err
	}
	snk.stream = stream
	s.Register(snk)
	return snk, nil
}

// Name implements flow.Stage.
func (s *Sink) Name() string {
	return s.name
}

// Process writes whole frames to the device.
func (s *Sink) Process() error {
	for s.in.Readable() >= s.frames {
		if err := s.write(s.in.Rd()[:s.frames]); err != nil {
			return err
		}
		s.in.Read(s.frames)
	}
	return nil
}

// Drain implements flow.Drainer: the final partial frame is played out
// zero-padded.
func (s *Sink) Drain() error {
	n := s.in.Readable()
	if n == 0 {
		return nil
	}
	if err := s.write(s.in.Rd()[:n]); err != nil {
		return err
	}
	s.in.Read(n)
	return nil
}

func (s *Sink) write(src []complex64) error {
	for i := range s.buf {
		s.buf[i] = 0
	}
	for i, v := range src {
		s.buf[i*2] = real(v)
		s.buf[i*2+1] = imag(v)
	}
	return s.stream.Write()
}

// Flush terminates portaudio structures.
func (s *Sink) Flush() error {
	if err := s.stream.Stop(); err != nil {
		return err
	}
	if err := s.stream.Close(); err != nil {
		return err
	}
	return portaudio.Terminate()
}

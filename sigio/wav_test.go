package sigio_test

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"

	"github.com/sdrkit/dvbtx/flow"
	"github.com/sdrkit/dvbtx/sigio"
)

func TestWAVSink(t *testing.T) {
	const samples = 64
	path := filepath.Join(t.TempDir(), "iq.wav")

	sch := flow.New()
	in := flow.NewBuffer[complex64](sch, "wav-in", samples)
	sink, err := sigio.NewWAVSink(sch, path, 48000, in)
	assert.Nil(t, err)

	w := in.Wr()
	for i := range w {
		w[i] = complex(0.5, -0.5)
	}
	in.Written(samples)

	assert.Nil(t, sink.Process())
	assert.Equal(t, 0, in.Readable())
	assert.Nil(t, sink.Flush())

	f, err := os.Open(path)
	assert.Nil(t, err)
	defer f.Close()
	decoder := wav.NewDecoder(f)
	assert.True(t, decoder.IsValidFile())
	buf, err := decoder.FullPCMBuffer()
	assert.Nil(t, err)
	assert.Equal(t, 2, buf.Format.NumChannels)
	assert.Equal(t, 48000, buf.Format.SampleRate)
	assert.Len(t, buf.Data, samples*2)
	assert.Greater(t, buf.Data[0], 0)
	assert.Less(t, buf.Data[1], 0)
}

func TestWAVSinkClipsOverdrive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hot.wav")

	sch := flow.New()
	in := flow.NewBuffer[complex64](sch, "wavc-in", 4)
	sink, err := sigio.NewWAVSink(sch, path, 48000, in)
	assert.Nil(t, err)

	w := in.Wr()
	w[0] = complex(3, -3)
	in.Written(1)
	assert.Nil(t, sink.Process())
	assert.Nil(t, sink.Flush())

	f, err := os.Open(path)
	assert.Nil(t, err)
	defer f.Close()
	buf, err := wav.NewDecoder(f).FullPCMBuffer()
	assert.Nil(t, err)
	assert.Equal(t, math.MaxInt16, buf.Data[0])
	assert.Equal(t, math.MinInt16, buf.Data[1])
}

func TestWAVSinkBadPath(t *testing.T) {
	sch := flow.New()
	in := flow.NewBuffer[complex64](sch, "wavb-in", 4)
	_, err := sigio.NewWAVSink(sch, filepath.Join(t.TempDir(), "missing", "iq.wav"), 48000, in)
	assert.Error(t, err)
}

// Package dvbtx assembles the DVB-S transmitter: MPEG transport packets
// are randomized, Reed-Solomon protected, interleaved, convolutionally
// coded, QPSK mapped and resampled into a complex baseband stream.
package dvbtx

import (
	"fmt"
	"io"
	"math"

	"github.com/sirupsen/logrus"

	"github.com/sdrkit/dvbtx/dsp"
	"github.com/sdrkit/dvbtx/dvb"
	"github.com/sdrkit/dvbtx/flow"
	"github.com/sdrkit/dvbtx/log"
	"github.com/sdrkit/dvbtx/sdr"
	"github.com/sdrkit/dvbtx/sigio"
)

// Buffer sizing: block-structured buffers hold a dozen units of their
// producer's batch, baseband buffers a fixed sample count since they carry
// continuously-rated data.
const (
	bufPackets  = 12
	bufBytes    = dvb.RSPacketSize * bufPackets
	bufSymbols  = bufBytes * dvb.SymbolsPerByte
	bufBaseband = 4096
)

type (
	// Config holds the transmitter parameters for one run. The stage graph
	// is built from it once and never changes afterwards.
	Config struct {
		Interp     int     // output samples per symbol
		Decim      int     // decimation of the interpolated stream
		RollOff    float64 // RRC excess bandwidth
		Power      float64 // linear output amplitude
		AGC        bool    // splice a gain control stage before the sink
		RandPeriod int     // randomizer group length in packets
		Verbose    bool
		Debug      bool
	}

	// Pipeline is an assembled, immutable stage graph waiting for a sink.
	Pipeline struct {
		cfg  Config
		sch  *flow.Scheduler
		tail *flow.Buffer[complex64]
		log  *logrus.Logger
	}
)

// DefaultConfig returns the standard transmitter settings.
func DefaultConfig() Config {
	return Config{
		Interp:     2,
		Decim:      1,
		RollOff:    0.35,
		Power:      1.0,
		RandPeriod: 8,
	}
}

// Validate rejects parameters no pipeline can be built from.
func (c Config) Validate() error {
	if c.Interp < 1 {
		return fmt.Errorf("interpolation factor %d, must be at least 1", c.Interp)
	}
	if c.Decim < 1 {
		return fmt.Errorf("decimation factor %d, must be at least 1", c.Decim)
	}
	if c.RollOff <= 0 || c.RollOff > 1 {
		return fmt.Errorf("roll-off %v outside (0,1]", c.RollOff)
	}
	if c.Power <= 0 {
		return fmt.Errorf("power %v, must be positive", c.Power)
	}
	if c.RandPeriod < 1 {
		return fmt.Errorf("randomizer period %d, must be at least 1", c.RandPeriod)
	}
	return nil
}

// New wires the full stage chain reading transport packets from src. The
// returned pipeline still needs a sink on its Baseband buffer before Run.
func New(cfg Config, src io.Reader) (*Pipeline, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger := log.GetLogger()
	sch := flow.New(
		flow.WithLogger(logger),
		flow.WithVerbose(cfg.Verbose),
		flow.WithDebug(cfg.Debug),
	)

	packets := flow.NewBuffer[dvb.Packet](sch, "TS packets", bufPackets)
	sigio.NewPacketReader(sch, src, packets)

	randomized := flow.NewBuffer[dvb.Packet](sch, "rand packets", bufPackets)
	dvb.NewRandomizer(sch, packets, randomized, dvb.WithPeriod(cfg.RandPeriod))

	protected := flow.NewBuffer[dvb.RSPacket](sch, "RS packets", bufPackets)
	dvb.NewRSEncoder(sch, randomized, protected)

	mpegBytes := flow.NewBuffer[byte](sch, "mpeg bytes", bufBytes)
	dvb.NewInterleaver(sch, protected, mpegBytes)

	symbols := flow.NewBuffer[byte](sch, "symbols", bufSymbols)
	dvb.NewConvol(sch, mpegBytes, symbols)

	iqSymbols := flow.NewBuffer[complex64](sch, "IQ symbols", bufSymbols)
	sdr.NewMapper(sch, symbols, iqSymbols)

	interpolated := flow.NewBuffer[complex64](sch, "interpolated", bufBaseband,
		flow.WithMultiplicity(cfg.Interp))
	dsp.NewInterpolator(sch, cfg.Interp, iqSymbols, interpolated)

	// The shaping filter also sets the output level, so the configured
	// power holds even without AGC.
	taps := dsp.RootRaisedCosine(10*cfg.Interp, 1/float64(cfg.Interp), cfg.RollOff)
	dsp.NormalizePower(taps, cfg.Power/sdr.CstlnAmp)
	if cfg.Verbose {
		logger.Infof("interpolation: ratio %d/%d, roll-off %v, %d taps",
			cfg.Interp, cfg.Decim, cfg.RollOff, len(taps))
	}
	if cfg.Debug {
		logger.Debugf("rrc taps: %v", taps)
	}

	shaped := flow.NewBuffer[complex64](sch, "shaped", bufBaseband)
	dsp.NewFIR(sch, dsp.Taps32(taps), interpolated, shaped)

	resampled := flow.NewBuffer[complex64](sch, "resampled", bufBaseband)
	dsp.NewDecimator(sch, cfg.Decim, shaped, resampled)

	tail := resampled
	if cfg.AGC {
		leveled := flow.NewBuffer[complex64](sch, "AGC", bufBaseband)
		outRMS := float32(cfg.Power / math.Sqrt(float64(cfg.Interp)/float64(cfg.Decim)))
		bw := float32(0.001 * float64(cfg.Decim) / float64(cfg.Interp))
		sdr.NewAGC(sch, tail, leveled, outRMS, bw)
		tail = leveled
	}

	return &Pipeline{
		cfg:  cfg,
		sch:  sch,
		tail: tail,
		log:  logger,
	}, nil
}

// Scheduler exposes the scheduler so a sink stage can attach itself.
func (p *Pipeline) Scheduler() *flow.Scheduler {
	return p.sch
}

// Baseband returns the tail buffer carrying the finished sample stream.
func (p *Pipeline) Baseband() *flow.Buffer[complex64] {
	return p.tail
}

// Run executes the scheduler until end of stream and shuts the graph down.
func (p *Pipeline) Run() error {
	err := p.sch.Run()
	if ferr := p.sch.Shutdown(); err == nil {
		err = ferr
	}
	return err
}

// Run builds a pipeline with a raw IQ sink on w and executes it.
func Run(cfg Config, r io.Reader, w io.Writer) error {
	p, err := New(cfg, r)
	if err != nil {
		return err
	}
	sigio.NewIQWriter(p.Scheduler(), w, p.Baseband())
	return p.Run()
}

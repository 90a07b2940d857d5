// Command dvbtx modulates an MPEG transport stream from stdin into a
// DVB-S complex baseband signal on stdout.
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/spf13/pflag"

	"github.com/sdrkit/dvbtx"
	"github.com/sdrkit/dvbtx/portaudio"
	"github.com/sdrkit/dvbtx/sigio"
)

const (
	successExitCode = 0
	errorExitCode   = 1
)

const audioFrames = 1024

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("dvbtx", pflag.ContinueOnError)
	flags.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: dvbtx [options]  < TS  > IQ")
		fmt.Fprintln(os.Stderr, "Modulate MPEG packets into a DVB-S baseband signal")
		fmt.Fprintln(os.Stderr, "Output float complex samples")
		fmt.Fprintln(os.Stderr)
		fmt.Fprintln(os.Stderr, "Options:")
		flags.PrintDefaults()
	}

	ratio := flags.StringP("ratio", "f", "2/1", "samples per symbol, INTERP[/DECIM]")
	rollOff := flags.Float64("roll-off", 0.35, "RRC roll-off")
	powerDB := flags.Float64("power", 0, "output power (dB)")
	agc := flags.Bool("agc", false, "better regulation of output power")
	wavPath := flags.String("wav", "", "capture IQ to a 2-channel WAV file instead of stdout")
	audio := flags.Bool("audio", false, "play IQ on the default sound device instead of stdout")
	sampleRate := flags.Int("sample-rate", 48000, "sample rate for WAV/audio output")
	configPath := flags.String("config", "", "YAML configuration file")
	verbose := flags.BoolP("verbose", "v", false, "verbose output")
	debug := flags.BoolP("debug", "d", false, "debug output")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return successExitCode
		}
		return errorExitCode
	}

	cfg := dvbtx.DefaultConfig()
	if *configPath != "" {
		if err := applyFile(*configPath, &cfg); err != nil {
			fmt.Fprintf(os.Stderr, "dvbtx: %v\n", err)
			return errorExitCode
		}
	}
	// explicit flags win over the config file
	if flags.Changed("ratio") || cfg.Interp == 0 {
		interp, decim, err := parseRatio(*ratio)
		if err != nil {
			fmt.Fprintf(os.Stderr, "dvbtx: %v\n", err)
			return errorExitCode
		}
		cfg.Interp, cfg.Decim = interp, decim
	}
	if flags.Changed("roll-off") {
		cfg.RollOff = *rollOff
	}
	if flags.Changed("power") {
		cfg.Power = dbToLinear(*powerDB)
	}
	if flags.Changed("agc") {
		cfg.AGC = *agc
	}
	cfg.Verbose = *verbose
	cfg.Debug = *debug

	if err := transmit(cfg, *wavPath, *audio, *sampleRate); err != nil {
		fmt.Fprintf(os.Stderr, "dvbtx: %v\n", err)
		return errorExitCode
	}
	return successExitCode
}

func transmit(cfg dvbtx.Config, wavPath string, audio bool, sampleRate int) error {
	p, err := dvbtx.New(cfg, os.Stdin)
	if err != nil {
		return err
	}
	switch {
	case wavPath != "":
		if _, err := sigio.NewWAVSink(p.Scheduler(), wavPath, sampleRate, p.Baseband()); err != nil {
			return err
		}
	case audio:
		if _, err := portaudio.NewSink(p.Scheduler(), sampleRate, audioFrames, p.Baseband()); err != nil {
			return err
		}
	default:
		sigio.NewIQWriter(p.Scheduler(), os.Stdout, p.Baseband())
	}
	return p.Run()
}

// parseRatio parses INTERP or INTERP/DECIM.
func parseRatio(s string) (interp, decim int, err error) {
	decim = 1
	if n, _ := fmt.Sscanf(s, "%d/%d", &interp, &decim); n < 1 {
		return 0, 0, fmt.Errorf("invalid ratio %q", s)
	}
	return interp, decim, nil
}

func dbToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

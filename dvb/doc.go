// Package dvb provides the DVB-S forward-error-correction stages:
// energy-dispersal randomizer, RS(204,188) encoder, depth-12 convolutional
// interleaver and the rate-1/2 convolutional coder.
package dvb

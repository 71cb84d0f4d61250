// Package video renders karaoke clips: a captioned still frame muxed with
// an audio track into an MP4 via ffmpeg.
package video

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Tone parameters for the placeholder audio track used when the caller
// supplies none.
const (
	toneSampleRate = 16000
	toneFrequency  = 440.0
	toneAmplitude  = 0.1
)

// ToneWAV synthesizes a mono PCM16 WAV file containing a sine tone of the
// given duration. The result is a complete file image including the RIFF
// header.
func ToneWAV(durationSec float64) []byte {
	numSamples := int(float64(toneSampleRate) * durationSec)
	if numSamples < 0 {
		numSamples = 0
	}

	dataSize := numSamples * 2 // 16-bit mono
	buf := bytes.NewBuffer(make([]byte, 0, 44+dataSize))

	// RIFF header
	buf.WriteString("RIFF")
	binary.Write(buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	// fmt chunk: PCM, mono, 16-bit
	buf.WriteString("fmt ")
	binary.Write(buf, binary.LittleEndian, uint32(16))
	binary.Write(buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(buf, binary.LittleEndian, uint32(toneSampleRate))
	binary.Write(buf, binary.LittleEndian, uint32(toneSampleRate*2)) // byte rate
	binary.Write(buf, binary.LittleEndian, uint16(2))                // block align
	binary.Write(buf, binary.LittleEndian, uint16(16))               // bits per sample

	// data chunk
	buf.WriteString("data")
	binary.Write(buf, binary.LittleEndian, uint32(dataSize))

	step := 2 * math.Pi * toneFrequency / float64(toneSampleRate)
	for i := 0; i < numSamples; i++ {
		sample := toneAmplitude * math.Sin(step*float64(i))
		binary.Write(buf, binary.LittleEndian, int16(sample*math.MaxInt16))
	}

	return buf.Bytes()
}

package alarm

import (
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"time"
)

// Tone parameters for the generated alarm sound.
const (
	toneSampleRate = 16000
	toneFrequency  = 880.0 // Hz
	toneAmplitude  = 0.6
	toneDuration   = 2 * time.Second
)

// EnsureSoundFile creates a default alarm WAV at path if it does not
// already exist. Existing files are left untouched so users can drop
// in their own sound.
func EnsureSoundFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	data := sineWAV(toneFrequency, toneAmplitude, toneDuration, toneSampleRate)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write alarm sound: %w", err)
	}
	return nil
}

// sineWAV renders a mono PCM16 WAV containing a pulsed sine tone.
func sineWAV(freq, amplitude float64, duration time.Duration, sampleRate int) []byte {
	n := int(float64(sampleRate) * duration.Seconds())
	samples := make([]int16, n)

	// 4 Hz on/off pulsing makes the tone read as an alert, not a hum.
	pulseSamples := sampleRate / 8
	for i := range samples {
		if (i/pulseSamples)%2 == 1 {
			continue
		}
		v := amplitude * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate))
		samples[i] = int16(v * math.MaxInt16)
	}

	pcm := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(pcm[i*2:], uint16(s))
	}

	// Standard 44-byte RIFF/WAVE header, mono PCM16.
	header := make([]byte, 44)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], uint32(36+len(pcm)))
	copy(header[8:12], "WAVE")
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16) // fmt chunk size
	binary.LittleEndian.PutUint16(header[20:22], 1)  // PCM
	binary.LittleEndian.PutUint16(header[22:24], 1)  // mono
	binary.LittleEndian.PutUint32(header[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(sampleRate*2)) // byte rate
	binary.LittleEndian.PutUint16(header[32:34], 2)                    // block align
	binary.LittleEndian.PutUint16(header[34:36], 16)                   // bits per sample
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], uint32(len(pcm)))

	return append(header, pcm...)
}

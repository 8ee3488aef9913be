package audio

import "encoding/binary"

// Gemini TTS returns raw mono 16-bit PCM at this rate.
const (
	DefaultSampleRate = 24000
	bytesPerSample    = 2
	wavHeaderSize     = 44
)

// PCMDuration is the exact playback length of raw mono 16-bit PCM.
func PCMDuration(pcm []byte, sampleRate int) float64 {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}
	return float64(len(pcm)) / float64(sampleRate*bytesPerSample)
}

// PCMToWAV wraps raw mono 16-bit PCM in a playable RIFF/WAVE container.
func PCMToWAV(pcm []byte, sampleRate int) []byte {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	out := make([]byte, wavHeaderSize+len(pcm))
	h := out[:wavHeaderSize]

	copy(h[0:4], "RIFF")
	binary.LittleEndian.PutUint32(h[4:8], uint32(36+len(pcm)))
	copy(h[8:12], "WAVE")

	copy(h[12:16], "fmt ")
	binary.LittleEndian.PutUint32(h[16:20], 16)
	binary.LittleEndian.PutUint16(h[20:22], 1) // PCM
	binary.LittleEndian.PutUint16(h[22:24], 1) // mono
	binary.LittleEndian.PutUint32(h[24:28], uint32(sampleRate))
	binary.LittleEndian.PutUint32(h[28:32], uint32(sampleRate*bytesPerSample))
	binary.LittleEndian.PutUint16(h[32:34], bytesPerSample)
	binary.LittleEndian.PutUint16(h[34:36], 16)

	copy(h[36:40], "data")
	binary.LittleEndian.PutUint32(h[40:44], uint32(len(pcm)))

	copy(out[wavHeaderSize:], pcm)
	return out
}

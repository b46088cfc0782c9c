package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/acousticdna/acousticdna/internal/pipeline"
)

// formatPCM and formatIEEEFloat are the WAVE_FORMAT_* codes this decoder
// understands; anything else is an unsupported sample format.
const (
	formatPCM       = 1
	formatIEEEFloat = 3
)

// wavFormat holds the fmt-chunk fields needed to interpret the data chunk.
type wavFormat struct {
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	BitsPerSample uint16
}

type wavData struct {
	Format wavFormat
	Data   []byte
}

// PCM is a decoded, mono, floating-point audio buffer together with the
// sample rate it was decoded at.
type PCM struct {
	Samples    []float64
	SampleRate int
}

func readRIFFHeader(r io.Reader) error {
	var riff [4]byte
	var fileSize uint32
	var wave [4]byte

	if err := binary.Read(r, binary.LittleEndian, &riff); err != nil {
		return fmt.Errorf("reading RIFF header: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &fileSize); err != nil {
		return fmt.Errorf("reading RIFF size: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &wave); err != nil {
		return fmt.Errorf("reading WAVE id: %w", err)
	}
	if string(riff[:]) != "RIFF" || string(wave[:]) != "WAVE" {
		return errors.New("not a WAV/RIFF file")
	}
	return nil
}

func readFmtChunk(r io.ReadSeeker, chunkSize uint32) (*wavFormat, error) {
	var audioFormat, numChannels, blockAlign, bitsPerSample uint16
	var sampleRate, byteRate uint32

	if err := binary.Read(r, binary.LittleEndian, &audioFormat); err != nil {
		return nil, fmt.Errorf("reading fmt audioFormat: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &numChannels); err != nil {
		return nil, fmt.Errorf("reading fmt numChannels: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &sampleRate); err != nil {
		return nil, fmt.Errorf("reading fmt sampleRate: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &byteRate); err != nil {
		return nil, fmt.Errorf("reading fmt byteRate: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &blockAlign); err != nil {
		return nil, fmt.Errorf("reading fmt blockAlign: %w", err)
	}
	if err := binary.Read(r, binary.LittleEndian, &bitsPerSample); err != nil {
		return nil, fmt.Errorf("reading fmt bitsPerSample: %w", err)
	}

	if remaining := int64(chunkSize) - 16; remaining > 0 {
		if _, err := r.Seek(remaining, io.SeekCurrent); err != nil {
			return nil, fmt.Errorf("seeking past fmt extras: %w", err)
		}
	}

	return &wavFormat{
		AudioFormat:   audioFormat,
		NumChannels:   numChannels,
		SampleRate:    sampleRate,
		BitsPerSample: bitsPerSample,
	}, nil
}

func readDataChunk(r io.Reader, chunkSize uint32) ([]byte, error) {
	buf := make([]byte, chunkSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading data chunk: %w", err)
	}
	return buf, nil
}

func scanWavChunks(r io.ReadSeeker) (*wavData, error) {
	var format wavFormat
	var data []byte
	fmtFound, dataFound := false, false

	for {
		var chunkID [4]byte
		var chunkSize uint32

		if err := binary.Read(r, binary.LittleEndian, &chunkID); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading chunk header: %w", err)
		}
		if err := binary.Read(r, binary.LittleEndian, &chunkSize); err != nil {
			return nil, fmt.Errorf("reading chunk size: %w", err)
		}

		id := string(chunkID[:])
		switch id {
		case "fmt ":
			f, err := readFmtChunk(r, chunkSize)
			if err != nil {
				return nil, err
			}
			format = *f
			fmtFound = true
		case "data":
			d, err := readDataChunk(r, chunkSize)
			if err != nil {
				return nil, err
			}
			data = d
			dataFound = true
		default:
			if _, err := r.Seek(int64(chunkSize), io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("skipping chunk %s: %w", id, err)
			}
		}

		if chunkSize%2 == 1 {
			if _, err := r.Seek(1, io.SeekCurrent); err != nil {
				return nil, fmt.Errorf("seeking pad byte: %w", err)
			}
		}

		if fmtFound && dataFound {
			break
		}
	}

	if !fmtFound {
		return nil, errors.New("fmt chunk not found")
	}
	if !dataFound {
		return nil, errors.New("data chunk not found")
	}
	return &wavData{Format: format, Data: data}, nil
}

// decodeSamples maps the raw data chunk to per-channel float64 samples
// according to the WAV format: integer PCM of 16, 24 or 32 bits is divided
// by 2^(b-1), and unsigned 8-bit PCM is re-centered on 128 and divided by
// 128; 32-bit IEEE float PCM passes through unchanged. Other integer bit
// depths are rejected as unsupported.
func decodeSamples(wd *wavData) ([]float64, error) {
	bits := wd.Format.BitsPerSample
	br := bytes.NewReader(wd.Data)

	switch wd.Format.AudioFormat {
	case formatIEEEFloat:
		if bits != 32 {
			return nil, fmt.Errorf("unsupported float bit depth: %d", bits)
		}
		count := len(wd.Data) / 4
		out := make([]float64, count)
		for i := 0; i < count; i++ {
			var v float32
			if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
				return nil, fmt.Errorf("decoding float32 sample: %w", err)
			}
			out[i] = float64(v)
		}
		return out, nil

	case formatPCM:
		switch {
		case bits == 8:
			// 8-bit PCM is stored unsigned, centered at 128.
			out := make([]float64, len(wd.Data))
			for i, b := range wd.Data {
				out[i] = (float64(b) - 128) / 128.0
			}
			return out, nil
		case bits == 16:
			count := len(wd.Data) / 2
			out := make([]float64, count)
			scale := 1.0 / float64(int64(1)<<(bits-1))
			for i := 0; i < count; i++ {
				var v int16
				if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
					return nil, fmt.Errorf("decoding int16 sample: %w", err)
				}
				out[i] = float64(v) * scale
			}
			return out, nil
		case bits == 24:
			const bytesPerSample = 3
			count := len(wd.Data) / bytesPerSample
			out := make([]float64, count)
			scale := 1.0 / float64(int64(1)<<(bits-1))
			buf := make([]byte, bytesPerSample)
			for i := 0; i < count; i++ {
				if _, err := io.ReadFull(br, buf); err != nil {
					return nil, fmt.Errorf("decoding int24 sample: %w", err)
				}
				v := int32(buf[0]) | int32(buf[1])<<8 | int32(buf[2])<<16
				if v&0x800000 != 0 {
					v |= ^int32(0xFFFFFF)
				}
				out[i] = float64(v) * scale
			}
			return out, nil
		case bits == 32:
			count := len(wd.Data) / 4
			out := make([]float64, count)
			scale := 1.0 / float64(int64(1)<<(bits-1))
			for i := 0; i < count; i++ {
				var v int32
				if err := binary.Read(br, binary.LittleEndian, &v); err != nil {
					return nil, fmt.Errorf("decoding int32 sample: %w", err)
				}
				out[i] = float64(v) * scale
			}
			return out, nil
		default:
			return nil, fmt.Errorf("unsupported integer bit depth: %d", bits)
		}

	default:
		return nil, fmt.Errorf("unsupported WAV audio format code: %d", wd.Format.AudioFormat)
	}
}

// downmix averages interleaved multichannel samples down to mono. A
// single channel is returned unchanged.
func downmix(samples []float64, channels int) []float64 {
	if channels <= 1 {
		return samples
	}
	frames := len(samples) / channels
	out := make([]float64, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += samples[i*channels+c]
		}
		out[i] = sum / float64(channels)
	}
	return out
}

// Decode reads a WAV/RIFF container from r and returns mono floating-point
// PCM samples and the source sample rate. Integer PCM of 8, 16, 24 or 32
// bits is mapped by dividing by 2^(b-1) (8-bit after re-centering on 128);
// other integer bit depths return a DecodeError. 32-bit IEEE float PCM
// passes through unchanged. Multichannel input is reduced to mono by
// channel averaging.
func Decode(r io.ReadSeeker) (PCM, error) {
	if err := readRIFFHeader(r); err != nil {
		return PCM{}, pipeline.NewDecodeError("invalid RIFF header", err)
	}
	wd, err := scanWavChunks(r)
	if err != nil {
		return PCM{}, pipeline.NewDecodeError("scanning WAV chunks", err)
	}
	if wd.Format.NumChannels == 0 {
		return PCM{}, pipeline.NewDecodeError("invalid channel count", nil)
	}

	samples, err := decodeSamples(wd)
	if err != nil {
		return PCM{}, pipeline.NewDecodeError("decoding PCM samples", err)
	}

	mono := downmix(samples, int(wd.Format.NumChannels))
	if len(mono) == 0 {
		return PCM{}, pipeline.ErrEmptyInput
	}

	for _, s := range mono {
		if math.IsNaN(s) || math.IsInf(s, 0) {
			return PCM{}, pipeline.NewDecodeError("non-finite sample value", nil)
		}
	}

	return PCM{Samples: mono, SampleRate: int(wd.Format.SampleRate)}, nil
}

// DecodeFile opens path and decodes it as a WAV file. See Decode.
func DecodeFile(path string) (PCM, error) {
	f, err := os.Open(path)
	if err != nil {
		return PCM{}, pipeline.NewDecodeError("opening audio file", err)
	}
	defer f.Close()
	return Decode(f)
}

package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	const chunkSize = 32 * 1024
	buf := make([]byte, chunkSize)
	for i := range buf {
		buf[i] = 0x42
	}

	remaining := size
	for remaining > 0 {
		toWrite := int64(chunkSize)
		if remaining < toWrite {
			toWrite = remaining
		}
		if _, err := f.Write(buf[:toWrite]); err != nil {
			t.Fatalf("write %s: %v", path, err)
		}
		remaining -= toWrite
	}
}

// WriteFlac writes a parseable FLAC file: a STREAMINFO block describing a
// 16-bit 44.1kHz stereo stream, an optional VORBIS_COMMENT block, and filler
// up to size bytes standing in for audio frames. Metadata readers accept it;
// it is not decodable audio.
func WriteFlac(t testing.TB, path string, size int64, comments map[string]string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}

	data := []byte("fLaC")

	streamInfo := make([]byte, 34)
	binary.BigEndian.PutUint16(streamInfo[0:2], 4096) // min block size
	binary.BigEndian.PutUint16(streamInfo[2:4], 4096) // max block size
	// 20-bit sample rate 44100, 3-bit channels-1 = 1, 5-bit bps-1 = 15,
	// 36-bit total samples = 0, packed big-endian.
	streamInfo[10] = 0x0A
	streamInfo[11] = 0xC4
	streamInfo[12] = 0x42
	streamInfo[13] = 0xF0
	header := byte(0x00) // STREAMINFO
	if len(comments) == 0 {
		header |= 0x80 // last metadata block
	}
	data = append(data, header, 0x00, 0x00, 34)
	data = append(data, streamInfo...)

	if len(comments) > 0 {
		body := make([]byte, 4) // zero-length vendor string
		count := make([]byte, 4)
		binary.LittleEndian.PutUint32(count, uint32(len(comments)))
		body = append(body, count...)
		keys := make([]string, 0, len(comments))
		for key := range comments {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			entry := key + "=" + comments[key]
			length := make([]byte, 4)
			binary.LittleEndian.PutUint32(length, uint32(len(entry)))
			body = append(body, length...)
			body = append(body, entry...)
		}
		data = append(data, 0x84, byte(len(body)>>16), byte(len(body)>>8), byte(len(body)))
		data = append(data, body...)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	if pad := size - int64(len(data)); pad > 0 {
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			t.Fatalf("open %s: %v", path, err)
		}
		defer f.Close()
		buf := make([]byte, 32*1024)
		for i := range buf {
			buf[i] = 0x42
		}
		for pad > 0 {
			chunk := int64(len(buf))
			if pad < chunk {
				chunk = pad
			}
			if _, err := f.Write(buf[:chunk]); err != nil {
				t.Fatalf("pad %s: %v", path, err)
			}
			pad -= chunk
		}
	}
}

package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// CompressionType defines the compression algorithm used for snapshot
// blocks.
type CompressionType uint8

const (
	// CompressionNone stores blocks uncompressed.
	CompressionNone CompressionType = 0
	// CompressionLZ4 indicates LZ4 block compression (fast).
	CompressionLZ4 CompressionType = 1
	// CompressionZSTD indicates ZSTD block compression (better ratio).
	CompressionZSTD CompressionType = 2
)

// ZSTD encoder/decoder pools for efficiency
var (
	zstdEncoderPool sync.Pool
	zstdDecoderPool sync.Pool
)

func getZstdEncoder() *zstd.Encoder {
	if v := zstdEncoderPool.Get(); v != nil {
		return v.(*zstd.Encoder)
	}
	enc, _ := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	return enc
}

func putZstdEncoder(enc *zstd.Encoder) {
	zstdEncoderPool.Put(enc)
}

func getZstdDecoder() *zstd.Decoder {
	if v := zstdDecoderPool.Get(); v != nil {
		return v.(*zstd.Decoder)
	}
	dec, _ := zstd.NewReader(nil)
	return dec
}

func putZstdDecoder(dec *zstd.Decoder) {
	zstdDecoderPool.Put(dec)
}

// Block format: [UncompressedSize uint32][CompressedSize uint32][Data...]
// If CompressedSize == 0, the block is stored uncompressed.
const blockHeaderSize = 8

// compressBlock compresses a block using the specified algorithm. Blocks
// that do not compress well (ratio above 0.9) are stored raw behind the
// same header.
func compressBlock(data []byte, compressionType CompressionType) ([]byte, error) {
	var compressed []byte
	var err error

	switch compressionType {
	case CompressionLZ4:
		compressed, err = compressBlockLZ4(data)
	case CompressionZSTD:
		enc := getZstdEncoder()
		compressed = enc.EncodeAll(data, nil)
		putZstdEncoder(enc)
	}
	if err != nil {
		return nil, err
	}

	if len(compressed) == 0 || float64(len(compressed)) > float64(len(data))*0.9 {
		result := make([]byte, blockHeaderSize+len(data))
		binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
		binary.LittleEndian.PutUint32(result[4:], 0) // 0 = uncompressed
		copy(result[blockHeaderSize:], data)
		return result, nil
	}

	result := make([]byte, blockHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(result[0:], uint32(len(data)))
	binary.LittleEndian.PutUint32(result[4:], uint32(len(compressed)))
	copy(result[blockHeaderSize:], compressed)
	return result, nil
}

func compressBlockLZ4(data []byte) ([]byte, error) {
	compressed := make([]byte, lz4.CompressBlockBound(len(data)))
	n, err := lz4.CompressBlock(data, compressed, nil)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil // Incompressible
	}
	return compressed[:n], nil
}

// blockWriter writes compressed blocks to an underlying writer.
type blockWriter struct {
	w               io.Writer
	compressionType CompressionType
	blockSize       int
	buffer          *bytes.Buffer
}

const defaultBlockSize = 256 * 1024

func newBlockWriter(w io.Writer, compressionType CompressionType) *blockWriter {
	return &blockWriter{
		w:               w,
		compressionType: compressionType,
		blockSize:       defaultBlockSize,
		buffer:          bytes.NewBuffer(make([]byte, 0, defaultBlockSize)),
	}
}

func (c *blockWriter) Write(p []byte) (int, error) {
	total := 0
	for len(p) > 0 {
		space := c.blockSize - c.buffer.Len()
		if space <= 0 {
			if err := c.flushBlock(); err != nil {
				return total, err
			}
			space = c.blockSize
		}

		toWrite := len(p)
		if toWrite > space {
			toWrite = space
		}

		n, err := c.buffer.Write(p[:toWrite])
		if err != nil {
			return total, err
		}
		total += n
		p = p[n:]
	}
	return total, nil
}

func (c *blockWriter) flushBlock() error {
	if c.buffer.Len() == 0 {
		return nil
	}

	compressed, err := compressBlock(c.buffer.Bytes(), c.compressionType)
	if err != nil {
		return err
	}
	if _, err := c.w.Write(compressed); err != nil {
		return err
	}
	c.buffer.Reset()
	return nil
}

// Flush writes any remaining buffered data.
func (c *blockWriter) Flush() error {
	return c.flushBlock()
}

// decompressAll reads every block starting at offset and returns the full
// decompressed payload.
func decompressAll(data []byte, offset int, compressionType CompressionType) ([]byte, error) {
	var result []byte
	for offset < len(data) {
		if offset+blockHeaderSize > len(data) {
			return nil, errors.New("block too small for header")
		}
		uncompressedSize := binary.LittleEndian.Uint32(data[offset:])
		compressedSize := binary.LittleEndian.Uint32(data[offset+4:])
		offset += blockHeaderSize

		if compressedSize == 0 {
			if offset+int(uncompressedSize) > len(data) {
				return nil, errors.New("block extends beyond data")
			}
			result = append(result, data[offset:offset+int(uncompressedSize)]...)
			offset += int(uncompressedSize)
			continue
		}

		if offset+int(compressedSize) > len(data) {
			return nil, errors.New("compressed block extends beyond data")
		}
		compressedData := data[offset : offset+int(compressedSize)]
		offset += int(compressedSize)

		block := make([]byte, uncompressedSize)
		switch compressionType {
		case CompressionZSTD:
			dec := getZstdDecoder()
			decoded, err := dec.DecodeAll(compressedData, block[:0])
			putZstdDecoder(dec)
			if err != nil {
				return nil, err
			}
			if uint32(len(decoded)) != uncompressedSize {
				return nil, errors.New("decompressed size mismatch")
			}
			result = append(result, decoded...)

		default: // LZ4 or fallback
			n, err := lz4.UncompressBlock(compressedData, block)
			if err != nil {
				return nil, err
			}
			if uint32(n) != uncompressedSize {
				return nil, errors.New("decompressed size mismatch")
			}
			result = append(result, block...)
		}
	}
	return result, nil
}

package bytestream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"fortio.org/safecast"
)

// ErrEndOfStream is returned by Reader methods when fewer bytes than
// requested were available. It corresponds to diag.IOStreamTruncated at the
// driver boundary.
var ErrEndOfStream = errors.New("bytestream: unexpected end of stream")

// ErrShortWrite is returned by Writer methods when fewer bytes than
// requested could be written. It corresponds to diag.IOStreamShortWrite.
var ErrShortWrite = errors.New("bytestream: short write")

// Reader decodes the primitives, strings, and arrays of the interface wire
// format from an underlying io.Reader. All integers are little-endian.
type Reader struct {
	r   io.Reader
	buf [8]byte
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// fill reads exactly len(p) bytes into p, translating any short read into
// ErrEndOfStream.
func (r *Reader) fill(p []byte) error {
	_, err := io.ReadFull(r.r, p)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return ErrEndOfStream
		}
		return fmt.Errorf("bytestream: read failed: %w", err)
	}
	return nil
}

// ReadU8 reads a single byte.
func (r *Reader) ReadU8() (uint8, error) {
	b := r.buf[:1]
	if err := r.fill(b); err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadBool reads a one-byte boolean (0 = false, any other value = true).
func (r *Reader) ReadBool() (bool, error) {
	b, err := r.ReadU8()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// ReadU32 reads a little-endian uint32.
func (r *Reader) ReadU32() (uint32, error) {
	b := r.buf[:4]
	if err := r.fill(b); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadI32 reads a little-endian int32.
func (r *Reader) ReadI32() (int32, error) {
	u, err := r.ReadU32()
	if err != nil {
		return 0, err
	}
	return int32(u), nil
}

// ReadU64 reads a little-endian uint64.
func (r *Reader) ReadU64() (uint64, error) {
	b := r.buf[:8]
	if err := r.fill(b); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// ReadString reads a u32 byte-length prefix followed by that many UTF-8
// bytes.
func (r *Reader) ReadString() (string, error) {
	n, err := r.ReadU32()
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", nil
	}
	buf := make([]byte, n)
	if err := r.fill(buf); err != nil {
		return "", err
	}
	return string(buf), nil
}

// ReadArray reads a u32 element count, then invokes read once per element.
func ReadArray[T any](r *Reader, read func(*Reader) (T, error)) ([]T, error) {
	n, err := r.ReadU32()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	out := make([]T, 0, n)
	for range n {
		v, err := read(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Writer encodes the primitives, strings, and arrays of the interface wire
// format to an underlying io.Writer. All integers are little-endian.
type Writer struct {
	w   io.Writer
	buf [8]byte
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) drain(p []byte) error {
	n, err := w.w.Write(p)
	if err != nil {
		return fmt.Errorf("bytestream: write failed: %w", err)
	}
	if n != len(p) {
		return ErrShortWrite
	}
	return nil
}

// WriteU8 writes a single byte.
func (w *Writer) WriteU8(v uint8) error {
	b := w.buf[:1]
	b[0] = v
	return w.drain(b)
}

// WriteBool writes a one-byte boolean.
func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.WriteU8(1)
	}
	return w.WriteU8(0)
}

// WriteU32 writes a little-endian uint32.
func (w *Writer) WriteU32(v uint32) error {
	b := w.buf[:4]
	binary.LittleEndian.PutUint32(b, v)
	return w.drain(b)
}

// WriteI32 writes a little-endian int32.
func (w *Writer) WriteI32(v int32) error {
	return w.WriteU32(uint32(v))
}

// WriteU64 writes a little-endian uint64.
func (w *Writer) WriteU64(v uint64) error {
	b := w.buf[:8]
	binary.LittleEndian.PutUint64(b, v)
	return w.drain(b)
}

// WriteString writes a u32 byte-length prefix followed by the UTF-8 bytes
// of s.
func (w *Writer) WriteString(s string) error {
	n, err := safecast.Conv[uint32](len(s))
	if err != nil {
		panic(fmt.Errorf("bytestream: string length overflow: %w", err))
	}
	if err := w.WriteU32(n); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	return w.drain([]byte(s))
}

// WriteArray writes a u32 element count, then invokes write once per
// element in order.
func WriteArray[T any](w *Writer, items []T, write func(*Writer, T) error) error {
	n, err := safecast.Conv[uint32](len(items))
	if err != nil {
		panic(fmt.Errorf("bytestream: array length overflow: %w", err))
	}
	if err := w.WriteU32(n); err != nil {
		return err
	}
	for _, item := range items {
		if err := write(w, item); err != nil {
			return err
		}
	}
	return nil
}

package formats

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Faultbox/cityexport/pkg/encoding"
	"github.com/Faultbox/cityexport/pkg/math"
)

// Magic is the four byte signature of a km2B container.
const Magic = "km2B"

// DefaultFormatName is the format name written after the magic.
const DefaultFormatName = "MidtownMadness2"

// km2B format errors.
var (
	ErrInvalidMagic   = errors.New("invalid container magic: expected 'km2B'")
	ErrTruncatedData  = errors.New("truncated container data")
	ErrStringTooLong  = errors.New("string longer than 255 bytes")
	ErrIndexOverflow  = errors.New("index does not fit in uint16")
	ErrEncodingFailed = errors.New("string cannot be encoded")
)

// Container is a decoded km2B file.
type Container struct {
	FormatName string
	Elements   []*Element
}

type binWriter struct {
	w   *bufio.Writer
	err error
}

func (bw *binWriter) write(v any) {
	if bw.err != nil {
		return
	}
	bw.err = binary.Write(bw.w, binary.LittleEndian, v)
}

func (bw *binWriter) putByte(b byte) {
	if bw.err != nil {
		return
	}
	bw.err = bw.w.WriteByte(b)
}

func (bw *binWriter) putBool(b bool) {
	if b {
		bw.putByte(1)
	} else {
		bw.putByte(0)
	}
}

func (bw *binWriter) putUint32(v int) {
	bw.write(uint32(v))
}

func (bw *binWriter) putUint16(v int) {
	if bw.err != nil {
		return
	}
	if v < 0 || v > 0xFFFF {
		bw.err = fmt.Errorf("%w: %d", ErrIndexOverflow, v)
		return
	}
	bw.write(uint16(v))
}

func (bw *binWriter) putString(s string) {
	if bw.err != nil {
		return
	}
	data, err := encoding.UTF8ToWindows1252(s)
	if err != nil {
		bw.err = fmt.Errorf("%w: %v", ErrEncodingFailed, err)
		return
	}
	if len(data) > 255 {
		bw.err = fmt.Errorf("%w: %q", ErrStringTooLong, s)
		return
	}
	bw.putByte(byte(len(data)))
	if len(data) > 0 && bw.err == nil {
		_, bw.err = bw.w.Write(data)
	}
}

// vec3 writes v swizzled to (x, z, y).
func (bw *binWriter) putVec3(v math.Vec3) {
	bw.write([3]float32{v.X, v.Z, v.Y})
}

func (bw *binWriter) putVec2(v math.Vec2) {
	bw.write([2]float32{v.X, v.Y})
}

func (bw *binWriter) reversedIndices(indices []int) {
	for i := len(indices) - 1; i >= 0; i-- {
		bw.putUint16(indices[i])
	}
}

func (bw *binWriter) element(e *Element) {
	bw.putBool(e.IsMesh)
	bw.putString(e.Name)

	bw.putUint32(e.Properties.Len())
	for _, p := range e.Properties.entries {
		bw.putString(p.Key)
		bw.putString(p.Value)
	}

	bw.putUint32(len(e.Vertices))
	for _, v := range e.Vertices {
		bw.putVec3(v)
	}

	if e.IsMesh {
		bw.putUint32(len(e.Submeshes))
		for _, sm := range e.Submeshes {
			bw.putUint32(len(sm))
			bw.reversedIndices(sm)
		}
		for _, n := range e.Normals {
			bw.putVec3(n)
		}
		for _, uv := range e.UVs {
			bw.putVec2(uv)
		}
	} else {
		bw.putUint32(len(e.Indices))
		bw.reversedIndices(e.Indices)
	}

	mats := e.MaterialList()
	bw.putUint32(len(mats))
	for _, m := range mats {
		bw.putString(m)
	}

	if e.Transform.IsIdentity() {
		bw.putByte(0)
		return
	}
	bw.putByte(1)
	bw.putVec3(e.Transform.Translation)
	bw.putVec3(e.Transform.Scale)
	q := e.Transform.Rotation
	bw.write([4]float32{-q.W, q.X, q.Z, q.Y})
}

// Write encodes elements as a km2B container.
func Write(w io.Writer, formatName string, elements []*Element) error {
	bw := &binWriter{w: bufio.NewWriter(w)}
	if _, err := bw.w.WriteString(Magic); err != nil {
		return err
	}
	bw.putString(formatName)
	bw.putUint32(len(elements))
	for i, e := range elements {
		bw.element(e)
		if bw.err != nil {
			return fmt.Errorf("writing element %d (%s): %w", i, e.Name, bw.err)
		}
	}
	if bw.err != nil {
		return bw.err
	}
	return bw.w.Flush()
}

// WriteFile encodes elements into the file at path.
func WriteFile(path, formatName string, elements []*Element) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := Write(f, formatName, elements); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read decodes a km2B container. Mesh elements are assumed to store one
// normal and one UV per vertex, as the exporter writes them.
func Read(data []byte) (*Container, error) {
	if len(data) < 4 {
		return nil, ErrTruncatedData
	}
	if string(data[0:4]) != Magic {
		return nil, ErrInvalidMagic
	}

	r := bytes.NewReader(data[4:])
	name, err := readString(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading format name", ErrTruncatedData)
	}

	var count uint32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: reading element count", ErrTruncatedData)
	}

	c := &Container{FormatName: name}
	for i := uint32(0); i < count; i++ {
		e, err := readElement(r)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		c.Elements = append(c.Elements, e)
	}
	return c, nil
}

// ReadFile reads and decodes a km2B container from disk.
func ReadFile(path string) (*Container, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}
	return Read(data)
}

func readString(r *bytes.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return "", err
	}
	return encoding.Windows1252ToUTF8(buf), nil
}

func readVec3(r *bytes.Reader) (math.Vec3, error) {
	var v [3]float32
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return math.Vec3{}, err
	}
	return math.Vec3{X: v[0], Y: v[2], Z: v[1]}, nil
}

func readVec3s(r *bytes.Reader, n uint32) ([]math.Vec3, error) {
	out := make([]math.Vec3, 0, n)
	for i := uint32(0); i < n; i++ {
		v, err := readVec3(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func readReversedIndices(r *bytes.Reader, n uint32) ([]int, error) {
	raw := make([]uint16, n)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, err
	}
	out := make([]int, n)
	for i, v := range raw {
		out[int(n)-1-i] = int(v)
	}
	return out, nil
}

func readElement(r *bytes.Reader) (*Element, error) {
	e := NewElement("")

	flag, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: reading mesh flag", ErrTruncatedData)
	}
	e.IsMesh = flag != 0

	if e.Name, err = readString(r); err != nil {
		return nil, fmt.Errorf("%w: reading name", ErrTruncatedData)
	}

	var propCount uint32
	if err := binary.Read(r, binary.LittleEndian, &propCount); err != nil {
		return nil, fmt.Errorf("%w: reading property count", ErrTruncatedData)
	}
	for i := uint32(0); i < propCount; i++ {
		k, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading property %d key", ErrTruncatedData, i)
		}
		v, err := readString(r)
		if err != nil {
			return nil, fmt.Errorf("%w: reading property %q value", ErrTruncatedData, k)
		}
		e.Properties.Set(k, v)
	}

	var vertCount uint32
	if err := binary.Read(r, binary.LittleEndian, &vertCount); err != nil {
		return nil, fmt.Errorf("%w: reading vertex count", ErrTruncatedData)
	}
	if e.Vertices, err = readVec3s(r, vertCount); err != nil {
		return nil, fmt.Errorf("%w: reading vertices", ErrTruncatedData)
	}

	var indexCount uint32
	if err := binary.Read(r, binary.LittleEndian, &indexCount); err != nil {
		return nil, fmt.Errorf("%w: reading index count", ErrTruncatedData)
	}
	if e.IsMesh {
		for i := uint32(0); i < indexCount; i++ {
			var n uint32
			if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
				return nil, fmt.Errorf("%w: reading submesh %d size", ErrTruncatedData, i)
			}
			sm, err := readReversedIndices(r, n)
			if err != nil {
				return nil, fmt.Errorf("%w: reading submesh %d indices", ErrTruncatedData, i)
			}
			e.Submeshes = append(e.Submeshes, sm)
		}
		if e.Normals, err = readVec3s(r, vertCount); err != nil {
			return nil, fmt.Errorf("%w: reading normals", ErrTruncatedData)
		}
		uvs := make([][2]float32, vertCount)
		if err := binary.Read(r, binary.LittleEndian, uvs); err != nil {
			return nil, fmt.Errorf("%w: reading uvs", ErrTruncatedData)
		}
		e.UVs = make([]math.Vec2, vertCount)
		for i, uv := range uvs {
			e.UVs[i] = math.Vec2{X: uv[0], Y: uv[1]}
		}
	} else if e.Indices, err = readReversedIndices(r, indexCount); err != nil {
		return nil, fmt.Errorf("%w: reading indices", ErrTruncatedData)
	}

	var matCount uint32
	if err := binary.Read(r, binary.LittleEndian, &matCount); err != nil {
		return nil, fmt.Errorf("%w: reading material count", ErrTruncatedData)
	}
	mats := make([]string, matCount)
	for i := range mats {
		if mats[i], err = readString(r); err != nil {
			return nil, fmt.Errorf("%w: reading material %d", ErrTruncatedData, i)
		}
	}
	e.Materials = strings.Join(mats, ",")

	hasTransform, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: reading transform flag", ErrTruncatedData)
	}
	if hasTransform != 0 {
		if e.Transform.Translation, err = readVec3(r); err != nil {
			return nil, fmt.Errorf("%w: reading translation", ErrTruncatedData)
		}
		if e.Transform.Scale, err = readVec3(r); err != nil {
			return nil, fmt.Errorf("%w: reading scale", ErrTruncatedData)
		}
		var q [4]float32
		if err := binary.Read(r, binary.LittleEndian, &q); err != nil {
			return nil, fmt.Errorf("%w: reading rotation", ErrTruncatedData)
		}
		e.Transform.Rotation = math.Quat{X: q[1], Y: q[3], Z: q[2], W: -q[0]}
	}
	return e, nil
}


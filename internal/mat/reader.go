package mat

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// MAT5 数据元素类型编号。
const (
	miINT8       = 1
	miUINT8      = 2
	miINT16      = 3
	miUINT16     = 4
	miINT32      = 5
	miUINT32     = 6
	miSINGLE     = 7
	miDOUBLE     = 9
	miINT64      = 12
	miUINT64     = 13
	miMATRIX     = 14
	miCOMPRESSED = 15
)

// 数组类编号，仅数值类会被解析。
const (
	mxDOUBLE = 6
	mxSINGLE = 7
	mxINT8   = 8
	mxUINT8  = 9
	mxINT16  = 10
	mxUINT16 = 11
	mxINT32  = 12
	mxUINT32 = 13
	mxINT64  = 14
	mxUINT64 = 15
)

// Array 是一个命名数值数组，Data 按文件内的列主序存放。
type Array struct {
	Name string
	Dims []int
	Data []float64
}

// File 按变量名索引文件内的全部数值数组。
type File map[string]*Array

// ErrNotMAT5 表示文件头不符合 level-5 MAT 格式。
var ErrNotMAT5 = errors.New("not a level 5 MAT-file")

// Open 读取并解析一个 MAT5 文件。
func Open(path string) (File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read 解析 MAT5 字节流，跳过不支持的数组类（cell/struct/char 等）。
func Read(r io.Reader) (File, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(raw) < 128 {
		return nil, ErrNotMAT5
	}

	order, err := headerByteOrder(raw)
	if err != nil {
		return nil, err
	}

	file := File{}
	cursor := raw[128:]
	for len(cursor) >= 8 {
		elType, payload, rest, err := readElement(cursor, order, true)
		if err != nil {
			return nil, err
		}
		cursor = rest

		switch elType {
		case miCOMPRESSED:
			inner, err := inflate(payload)
			if err != nil {
				return nil, fmt.Errorf("inflate compressed element: %w", err)
			}
			innerType, innerPayload, _, err := readElement(inner, order, false)
			if err != nil {
				return nil, err
			}
			if innerType != miMATRIX {
				continue
			}
			if arr, err := parseMatrix(innerPayload, order); err != nil {
				return nil, err
			} else if arr != nil {
				file[arr.Name] = arr
			}
		case miMATRIX:
			if arr, err := parseMatrix(payload, order); err != nil {
				return nil, err
			} else if arr != nil {
				file[arr.Name] = arr
			}
		default:
			// 顶层允许出现其他元素类型，忽略。
		}
	}

	if len(file) == 0 {
		return nil, fmt.Errorf("%w: no numeric variables", ErrNotMAT5)
	}
	return file, nil
}

// headerByteOrder 校验 128 字节文件头并返回字节序。
func headerByteOrder(raw []byte) (binary.ByteOrder, error) {
	switch {
	case raw[126] == 'I' && raw[127] == 'M':
		return binary.LittleEndian, nil
	case raw[126] == 'M' && raw[127] == 'I':
		return binary.BigEndian, nil
	default:
		return nil, ErrNotMAT5
	}
}

// readElement 读取一个数据元素，支持 small data element 压缩形式。
// pad 控制是否按 8 字节对齐跳过填充（压缩元素之后不做填充）。
func readElement(b []byte, order binary.ByteOrder, pad bool) (uint32, []byte, []byte, error) {
	if len(b) < 8 {
		return 0, nil, nil, fmt.Errorf("%w: truncated element tag", ErrNotMAT5)
	}

	elType := order.Uint32(b)
	if small := elType >> 16; small != 0 {
		if small > 4 {
			return 0, nil, nil, fmt.Errorf("%w: bad small element size %d", ErrNotMAT5, small)
		}
		return elType & 0xFFFF, b[4 : 4+small], b[8:], nil
	}

	size := int(order.Uint32(b[4:]))
	if size < 0 || len(b) < 8+size {
		return 0, nil, nil, fmt.Errorf("%w: truncated element body", ErrNotMAT5)
	}
	payload := b[8 : 8+size]

	next := 8 + size
	if pad && elType != miCOMPRESSED {
		if rem := next % 8; rem != 0 {
			next += 8 - rem
		}
	}
	if next > len(b) {
		next = len(b)
	}
	return elType, payload, b[next:], nil
}

func inflate(payload []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	return io.ReadAll(zr)
}

// parseMatrix 解析 miMATRIX 负载；不支持的数组类返回 (nil, nil) 以便跳过。
func parseMatrix(payload []byte, order binary.ByteOrder) (*Array, error) {
	flagsType, flags, rest, err := readElement(payload, order, true)
	if err != nil {
		return nil, err
	}
	if flagsType != miUINT32 || len(flags) < 8 {
		return nil, fmt.Errorf("%w: bad array flags", ErrNotMAT5)
	}
	class := int(order.Uint32(flags) & 0xFF)

	dimsType, dimsRaw, rest, err := readElement(rest, order, true)
	if err != nil {
		return nil, err
	}
	if dimsType != miINT32 {
		return nil, fmt.Errorf("%w: bad dimensions element", ErrNotMAT5)
	}
	dims := make([]int, len(dimsRaw)/4)
	for i := range dims {
		dims[i] = int(int32(order.Uint32(dimsRaw[i*4:])))
	}

	_, nameRaw, rest, err := readElement(rest, order, true)
	if err != nil {
		return nil, err
	}
	name := string(nameRaw)

	if class < mxDOUBLE || class > mxUINT64 {
		return nil, nil
	}

	dataType, dataRaw, _, err := readElement(rest, order, true)
	if err != nil {
		return nil, err
	}
	values, err := decodeNumeric(dataType, dataRaw, order)
	if err != nil {
		return nil, err
	}

	return &Array{Name: name, Dims: dims, Data: values}, nil
}

// decodeNumeric 将任意存储类型的数值负载转换为 float64 序列。
// MAT5 允许把 double 数组用更小的整型压缩存储，因此按存储类型转换。
func decodeNumeric(dataType uint32, raw []byte, order binary.ByteOrder) ([]float64, error) {
	switch dataType {
	case miDOUBLE:
		out := make([]float64, len(raw)/8)
		for i := range out {
			out[i] = math.Float64frombits(order.Uint64(raw[i*8:]))
		}
		return out, nil
	case miSINGLE:
		out := make([]float64, len(raw)/4)
		for i := range out {
			out[i] = float64(math.Float32frombits(order.Uint32(raw[i*4:])))
		}
		return out, nil
	case miINT8:
		out := make([]float64, len(raw))
		for i, b := range raw {
			out[i] = float64(int8(b))
		}
		return out, nil
	case miUINT8:
		out := make([]float64, len(raw))
		for i, b := range raw {
			out[i] = float64(b)
		}
		return out, nil
	case miINT16:
		out := make([]float64, len(raw)/2)
		for i := range out {
			out[i] = float64(int16(order.Uint16(raw[i*2:])))
		}
		return out, nil
	case miUINT16:
		out := make([]float64, len(raw)/2)
		for i := range out {
			out[i] = float64(order.Uint16(raw[i*2:]))
		}
		return out, nil
	case miINT32:
		out := make([]float64, len(raw)/4)
		for i := range out {
			out[i] = float64(int32(order.Uint32(raw[i*4:])))
		}
		return out, nil
	case miUINT32:
		out := make([]float64, len(raw)/4)
		for i := range out {
			out[i] = float64(order.Uint32(raw[i*4:]))
		}
		return out, nil
	case miINT64:
		out := make([]float64, len(raw)/8)
		for i := range out {
			out[i] = float64(int64(order.Uint64(raw[i*8:])))
		}
		return out, nil
	case miUINT64:
		out := make([]float64, len(raw)/8)
		for i := range out {
			out[i] = float64(order.Uint64(raw[i*8:]))
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: unsupported numeric storage type %d", ErrNotMAT5, dataType)
	}
}

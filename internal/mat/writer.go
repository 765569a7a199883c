package mat

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// Write 以小端、非压缩、double 存储写出若干数值数组，足够生成测试夹具
// 与小型导出文件。Dims 为空时按 1×len(Data) 写出。
func Write(w io.Writer, arrays ...*Array) error {
	header := make([]byte, 128)
	copy(header, []byte("MATLAB 5.0 MAT-file, Platform: bdds"))
	for i := len("MATLAB 5.0 MAT-file, Platform: bdds"); i < 116; i++ {
		header[i] = ' '
	}
	binary.LittleEndian.PutUint16(header[124:], 0x0100)
	header[126] = 'I'
	header[127] = 'M'
	if _, err := w.Write(header); err != nil {
		return err
	}

	for _, arr := range arrays {
		if err := writeMatrix(w, arr); err != nil {
			return fmt.Errorf("write variable %s: %w", arr.Name, err)
		}
	}
	return nil
}

// WriteFile 将数组写入指定路径的新文件。
func WriteFile(path string, arrays ...*Array) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, arrays...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeMatrix(w io.Writer, arr *Array) error {
	dims := arr.Dims
	if len(dims) == 0 {
		dims = []int{1, len(arr.Data)}
	}

	var body bytes.Buffer

	// Array flags: class + 保留字。
	writeTag(&body, miUINT32, 8)
	binary.Write(&body, binary.LittleEndian, uint32(mxDOUBLE))
	binary.Write(&body, binary.LittleEndian, uint32(0))

	// Dimensions.
	writeTag(&body, miINT32, 4*len(dims))
	for _, d := range dims {
		binary.Write(&body, binary.LittleEndian, int32(d))
	}
	padTo8(&body)

	// Name.
	writeTag(&body, miINT8, len(arr.Name))
	body.WriteString(arr.Name)
	padTo8(&body)

	// Real part.
	writeTag(&body, miDOUBLE, 8*len(arr.Data))
	for _, v := range arr.Data {
		binary.Write(&body, binary.LittleEndian, math.Float64bits(v))
	}
	padTo8(&body)

	writeTag(w, miMATRIX, body.Len())
	_, err := w.Write(body.Bytes())
	return err
}

func writeTag(w io.Writer, elType, size int) {
	binary.Write(w, binary.LittleEndian, uint32(elType))
	binary.Write(w, binary.LittleEndian, uint32(size))
}

func padTo8(buf *bytes.Buffer) {
	for buf.Len()%8 != 0 {
		buf.WriteByte(0)
	}
}

package mat

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.mat")

	feat := &Array{
		Name: "feat",
		Dims: []int{2, 3},
		Data: []float64{1, 2, 3, 4, 5, 6},
	}
	accuracy := &Array{
		Name: "accuracy",
		Data: []float64{0.25, 0.5},
	}

	if err := WriteFile(path, feat, accuracy); err != nil {
		t.Fatalf("write error: %v", err)
	}

	file, err := Open(path)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	if len(file) != 2 {
		t.Fatalf("unexpected variable count: %d", len(file))
	}

	got, ok := file["feat"]
	if !ok {
		t.Fatalf("feat variable missing")
	}
	if len(got.Dims) != 2 || got.Dims[0] != 2 || got.Dims[1] != 3 {
		t.Fatalf("unexpected dims: %v", got.Dims)
	}
	for i, v := range feat.Data {
		if got.Data[i] != v {
			t.Fatalf("data mismatch at %d: %v", i, got.Data[i])
		}
	}

	// Dims 为空时按 1×N 写出。
	acc := file["accuracy"]
	if acc == nil || len(acc.Dims) != 2 || acc.Dims[0] != 1 || acc.Dims[1] != 2 {
		t.Fatalf("unexpected accuracy dims: %v", acc)
	}
}

func TestReadCompressedElement(t *testing.T) {
	// 先生成普通文件，再把 miMATRIX 元素整体包进 miCOMPRESSED。
	var plain bytes.Buffer
	arr := &Array{Name: "rank", Data: []float64{7, 8, 9}}
	if err := Write(&plain, arr); err != nil {
		t.Fatalf("write error: %v", err)
	}

	raw := plain.Bytes()
	var compressed bytes.Buffer
	zw := zlib.NewWriter(&compressed)
	if _, err := zw.Write(raw[128:]); err != nil {
		t.Fatalf("compress error: %v", err)
	}
	zw.Close()

	var out bytes.Buffer
	out.Write(raw[:128])
	binary.Write(&out, binary.LittleEndian, uint32(miCOMPRESSED))
	binary.Write(&out, binary.LittleEndian, uint32(compressed.Len()))
	out.Write(compressed.Bytes())

	file, err := Read(&out)
	if err != nil {
		t.Fatalf("read compressed error: %v", err)
	}
	got, ok := file["rank"]
	if !ok {
		t.Fatalf("rank variable missing")
	}
	if len(got.Data) != 3 || got.Data[2] != 9 {
		t.Fatalf("unexpected data: %v", got.Data)
	}
}

func TestReadIntegerStorage(t *testing.T) {
	// double 数组允许用更小的整型压缩存储，读取后仍是 float64。
	var buf bytes.Buffer
	header := make([]byte, 128)
	binary.LittleEndian.PutUint16(header[124:], 0x0100)
	header[126] = 'I'
	header[127] = 'M'
	buf.Write(header)

	var body bytes.Buffer
	writeTag(&body, miUINT32, 8)
	binary.Write(&body, binary.LittleEndian, uint32(mxDOUBLE))
	binary.Write(&body, binary.LittleEndian, uint32(0))
	writeTag(&body, miINT32, 8)
	binary.Write(&body, binary.LittleEndian, int32(1))
	binary.Write(&body, binary.LittleEndian, int32(4))
	writeTag(&body, miINT8, 1)
	body.WriteString("v")
	padTo8(&body)
	writeTag(&body, miUINT8, 4)
	body.Write([]byte{10, 20, 30, 40})
	padTo8(&body)

	writeTag(&buf, miMATRIX, body.Len())
	buf.Write(body.Bytes())

	file, err := Read(&buf)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	got := file["v"]
	if got == nil || len(got.Data) != 4 || got.Data[3] != 40 {
		t.Fatalf("unexpected data: %v", got)
	}
}

func TestReadRejectsNonMAT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not.mat")
	if err := os.WriteFile(path, []byte("definitely not a MAT file"), 0o644); err != nil {
		t.Fatalf("write error: %v", err)
	}
	_, err := Open(path)
	if !errors.Is(err, ErrNotMAT5) {
		t.Fatalf("expected ErrNotMAT5, got %v", err)
	}
}

func TestReadRejectsTruncated(t *testing.T) {
	var plain bytes.Buffer
	if err := Write(&plain, &Array{Name: "x", Data: []float64{1}}); err != nil {
		t.Fatalf("write error: %v", err)
	}
	raw := plain.Bytes()

	if _, err := Read(bytes.NewReader(raw[:64])); !errors.Is(err, ErrNotMAT5) {
		t.Fatalf("expected truncated header to fail, got %v", err)
	}
	if _, err := Read(bytes.NewReader(raw[:140])); err == nil {
		t.Fatalf("expected truncated body to fail")
	}
}

func TestReadNaN(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nan.mat")
	if err := WriteFile(path, &Array{Name: "feat", Data: []float64{math.NaN()}}); err != nil {
		t.Fatalf("write error: %v", err)
	}
	file, err := Open(path)
	if err != nil {
		t.Fatalf("open error: %v", err)
	}
	if !math.IsNaN(file["feat"].Data[0]) {
		t.Fatalf("NaN not preserved: %v", file["feat"].Data[0])
	}
}

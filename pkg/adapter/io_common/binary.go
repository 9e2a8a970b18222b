// 指示: miu200521358
package io_common

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
)

// BinaryReader はリトルエンディアンのバイト列を先頭から読み進める。
type BinaryReader struct {
	buf []byte
	pos int
}

// NewBinaryReader はBinaryReaderを生成する。
func NewBinaryReader(buf []byte) *BinaryReader {
	return &BinaryReader{buf: buf}
}

// Pos は現在位置を返す。
func (r *BinaryReader) Pos() int {
	return r.pos
}

// Remaining は残りバイト数を返す。
func (r *BinaryReader) Remaining() int {
	return len(r.buf) - r.pos
}

// ReadBytes はnバイトを読む。戻り値は元バッファを共有しない。
func (r *BinaryReader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, fmt.Errorf("データが不足しています: pos=%d need=%d remain=%d", r.pos, n, r.Remaining())
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// Skip はnバイト読み飛ばす。
func (r *BinaryReader) Skip(n int) error {
	if n < 0 || r.Remaining() < n {
		return fmt.Errorf("データが不足しています: pos=%d need=%d remain=%d", r.pos, n, r.Remaining())
	}
	r.pos += n
	return nil
}

// ReadUint8 は1バイト符号なし整数を読む。
func (r *BinaryReader) ReadUint8() (uint8, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadInt8 は1バイト符号付き整数を読む。
func (r *BinaryReader) ReadInt8() (int8, error) {
	v, err := r.ReadUint8()
	return int8(v), err
}

// ReadUint16 は2バイト符号なし整数を読む。
func (r *BinaryReader) ReadUint16() (uint16, error) {
	b, err := r.ReadBytes(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadInt16 は2バイト符号付き整数を読む。
func (r *BinaryReader) ReadInt16() (int16, error) {
	v, err := r.ReadUint16()
	return int16(v), err
}

// ReadUint32 は4バイト符号なし整数を読む。
func (r *BinaryReader) ReadUint32() (uint32, error) {
	b, err := r.ReadBytes(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadInt32 は4バイト符号付き整数を読む。
func (r *BinaryReader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// ReadFloat32 は4バイト浮動小数を読む。
func (r *BinaryReader) ReadFloat32() (float64, error) {
	v, err := r.ReadUint32()
	if err != nil {
		return 0, err
	}
	return float64(math.Float32frombits(v)), nil
}

// ReadVec3 は浮動小数3つをベクトルとして読む。
func (r *BinaryReader) ReadVec3() (mmath.Vec3, error) {
	var values [3]float64
	for i := range values {
		v, err := r.ReadFloat32()
		if err != nil {
			return mmath.Vec3{}, err
		}
		values[i] = v
	}
	return mmath.NewVec3(values[0], values[1], values[2]), nil
}

// ReadIndex はサイズ(1/2/4)に応じた符号付きインデックスを読む。
func (r *BinaryReader) ReadIndex(size int) (int, error) {
	switch size {
	case 1:
		v, err := r.ReadInt8()
		return int(v), err
	case 2:
		v, err := r.ReadInt16()
		return int(v), err
	case 4:
		v, err := r.ReadInt32()
		return int(v), err
	}
	return 0, fmt.Errorf("インデックスサイズが不正です: %d", size)
}

// BinaryWriter はリトルエンディアンでバイト列を書き出す。
type BinaryWriter struct {
	buf bytes.Buffer
}

// NewBinaryWriter はBinaryWriterを生成する。
func NewBinaryWriter() *BinaryWriter {
	return &BinaryWriter{}
}

// Bytes は書き出したバイト列を返す。
func (w *BinaryWriter) Bytes() []byte {
	return w.buf.Bytes()
}

// WriteBytes はバイト列をそのまま書く。
func (w *BinaryWriter) WriteBytes(b []byte) {
	w.buf.Write(b)
}

// WriteFixedBytes はsizeバイトに切り詰め・ゼロ埋めして書く。
func (w *BinaryWriter) WriteFixedBytes(b []byte, size int) {
	fixed := make([]byte, size)
	copy(fixed, b)
	w.buf.Write(fixed)
}

// WriteUint8 は1バイト符号なし整数を書く。
func (w *BinaryWriter) WriteUint8(v uint8) {
	w.buf.WriteByte(v)
}

// WriteInt8 は1バイト符号付き整数を書く。
func (w *BinaryWriter) WriteInt8(v int8) {
	w.buf.WriteByte(byte(v))
}

// WriteUint16 は2バイト符号なし整数を書く。
func (w *BinaryWriter) WriteUint16(v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	w.buf.Write(b[:])
}

// WriteUint32 は4バイト符号なし整数を書く。
func (w *BinaryWriter) WriteUint32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	w.buf.Write(b[:])
}

// WriteInt32 は4バイト符号付き整数を書く。
func (w *BinaryWriter) WriteInt32(v int32) {
	w.WriteUint32(uint32(v))
}

// WriteFloat32 は4バイト浮動小数を書く。
func (w *BinaryWriter) WriteFloat32(v float64) {
	w.WriteUint32(math.Float32bits(float32(v)))
}

// WriteVec3 はベクトルを浮動小数3つとして書く。
func (w *BinaryWriter) WriteVec3(v mmath.Vec3) {
	w.WriteFloat32(v.X)
	w.WriteFloat32(v.Y)
	w.WriteFloat32(v.Z)
}

// WriteIndex はサイズ(1/2/4)に応じた符号付きインデックスを書く。
func (w *BinaryWriter) WriteIndex(v int, size int) {
	switch size {
	case 1:
		w.WriteInt8(int8(v))
	case 2:
		w.WriteUint16(uint16(int16(v)))
	default:
		w.WriteInt32(int32(v))
	}
}

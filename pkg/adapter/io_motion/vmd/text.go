// 指示: miu200521358
package vmd

import (
	"bytes"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
)

// decodeName はゼロ終端のShift-JIS固定長バイト列を文字列に変換する。
func decodeName(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		b = b[:i]
	}
	decoded, err := japanese.ShiftJIS.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(decoded)
}

// encodeName は文字列をShift-JISに変換し、size以内に文字境界で切り詰める。
func encodeName(name string, size int) []byte {
	encoder := encoding.ReplaceUnsupported(japanese.ShiftJIS.NewEncoder())
	out := make([]byte, 0, size)
	for _, r := range name {
		encoded, err := encoder.Bytes([]byte(string(r)))
		if err != nil {
			continue
		}
		if len(out)+len(encoded) > size {
			break
		}
		out = append(out, encoded...)
	}
	return out
}

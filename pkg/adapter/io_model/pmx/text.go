// 指示: miu200521358
package pmx

import (
	"fmt"

	"golang.org/x/text/encoding/unicode"

	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_common"
)

const (
	pmxEncodingUtf16 = 0
	pmxEncodingUtf8  = 1
)

// readText は長さ付きテキストをヘッダのエンコードに従って読む。
func readText(r *io_common.BinaryReader, encodingType uint8) (string, error) {
	length, err := r.ReadInt32()
	if err != nil {
		return "", err
	}
	if length < 0 || int(length) > r.Remaining() {
		return "", fmt.Errorf("テキスト長が不正です: %d", length)
	}
	b, err := r.ReadBytes(int(length))
	if err != nil {
		return "", err
	}
	switch encodingType {
	case pmxEncodingUtf16:
		decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(b)
		if err != nil {
			return "", fmt.Errorf("UTF-16テキストの変換に失敗しました: %w", err)
		}
		return string(decoded), nil
	case pmxEncodingUtf8:
		return string(b), nil
	default:
		return "", fmt.Errorf("未対応のエンコードです: %d", encodingType)
	}
}

// skipText は長さ付きテキストを読み飛ばす。
func skipText(r *io_common.BinaryReader) error {
	length, err := r.ReadInt32()
	if err != nil {
		return err
	}
	if length < 0 {
		return fmt.Errorf("テキスト長が不正です: %d", length)
	}
	return r.Skip(int(length))
}

// 指示: miu200521358
// Package io_common はファイル入出力アダプタ共通のエラーとバイナリ読み書きを提供する。
package io_common

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/merr"
)

const (
	// ErrorIDIoFileNotFound はファイル未検出のエラーID。
	ErrorIDIoFileNotFound = "14101"
	// ErrorIDIoExtInvalid は拡張子不正のエラーID。
	ErrorIDIoExtInvalid = "14102"
	// ErrorIDIoParseFailed は解析失敗のエラーID。
	ErrorIDIoParseFailed = "14103"
	// ErrorIDIoSaveFailed は保存失敗のエラーID。
	ErrorIDIoSaveFailed = "14104"
)

// NewIoFileNotFound はファイル未検出エラーを生成する。
func NewIoFileNotFound(path string, cause error) error {
	return merr.NewCommonError(ErrorIDIoFileNotFound, merr.KindIo, fmt.Sprintf("ファイルが見つかりません: %s", path), cause)
}

// NewIoExtInvalid は拡張子不正エラーを生成する。
func NewIoExtInvalid(path string, cause error) error {
	return merr.NewCommonError(ErrorIDIoExtInvalid, merr.KindIo, fmt.Sprintf("対応していない拡張子です: %s", path), cause)
}

// NewIoParseFailed は解析失敗エラーを生成する。
func NewIoParseFailed(message string, cause error) error {
	return merr.NewCommonError(ErrorIDIoParseFailed, merr.KindIo, message, cause)
}

// NewIoSaveFailed は保存失敗エラーを生成する。
func NewIoSaveFailed(message string, cause error) error {
	return merr.NewCommonError(ErrorIDIoSaveFailed, merr.KindIo, message, cause)
}

// HasExt は拡張子が一致するか大文字小文字を無視して判定する。
func HasExt(path string, ext string) bool {
	return strings.EqualFold(filepath.Ext(path), ext)
}

// InferName はパスから表示名を推定する。
func InferName(path string) string {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext == "" {
		return base
	}
	return strings.TrimSuffix(base, ext)
}

// 指示: miu200521358
package minteractor

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	outputSuffix    = "bone_smooth"
	outputStampFmt  = "20060102_150405"
	outputExtension = ".vmd"
)

var nowFunc = time.Now

// BuildDefaultOutputPath は入力VMDパスから既定の出力パスを生成する。
func BuildDefaultOutputPath(inputPath string) string {
	return buildDefaultOutputPathAt(inputPath, nowFunc())
}

// buildDefaultOutputPathAt は指定時刻で既定の出力パスを生成する。
func buildDefaultOutputPathAt(inputPath string, now time.Time) string {
	dir := filepath.Dir(inputPath)
	base := strings.TrimSpace(strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath)))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return ""
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s%s", base, outputSuffix, now.Format(outputStampFmt), outputExtension))
}

// resolveVmdOutputPath は保存先パスを解決し、拡張子を検証する。
func resolveVmdOutputPath(inputPath string, outputPath string) (string, error) {
	resolved := strings.TrimSpace(outputPath)
	if resolved == "" {
		resolved = BuildDefaultOutputPath(inputPath)
	}
	if resolved == "" {
		return "", fmt.Errorf("保存先VMDパスが未指定です")
	}
	if !strings.EqualFold(filepath.Ext(resolved), outputExtension) {
		return "", fmt.Errorf("保存先拡張子が .vmd ではありません: %s", resolved)
	}
	return resolved, nil
}

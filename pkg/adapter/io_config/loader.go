// 指示: miu200521358
// Package io_config は平滑化設定ファイル(YAML)の読込を提供する。
package io_config

import (
	"bytes"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_common"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/smooth"
)

// ConfigLoader はYAML設定の読込を表す。
type ConfigLoader struct{}

// NewConfigLoader はConfigLoaderを生成する。
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (l *ConfigLoader) CanLoad(path string) bool {
	return io_common.HasExt(path, ".yaml") || io_common.HasExt(path, ".yml")
}

// Load はbaseにファイルの記載項目だけを上書きした設定を返す。
func (l *ConfigLoader) Load(path string, base smooth.Config) (smooth.Config, error) {
	if !l.CanLoad(path) {
		return base, io_common.NewIoExtInvalid(path, nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return base, io_common.NewIoFileNotFound(path, err)
		}
		return base, io_common.NewIoParseFailed("設定ファイルの読み取りに失敗しました", err)
	}
	cfg, err := Decode(b, base)
	if err != nil {
		return base, err
	}
	return cfg, nil
}

// Decode はYAMLバイト列をbaseに重ねて検証済みの設定を返す。未知の項目はエラーにする。
func Decode(b []byte, base smooth.Config) (smooth.Config, error) {
	cfg := base
	decoder := yaml.NewDecoder(bytes.NewReader(b))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return base, io_common.NewIoParseFailed("設定ファイルの解析に失敗しました", err)
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

// Encode は設定をYAMLに変換する。
func Encode(cfg smooth.Config) ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return nil, io_common.NewIoSaveFailed("設定の変換に失敗しました", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, io_common.NewIoSaveFailed("設定の変換に失敗しました", err)
	}
	return buf.Bytes(), nil
}

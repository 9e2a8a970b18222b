// 指示: miu200521358
// Package pmx はPMXモデルからボーン階層を読み取る。
package pmx

import (
	"os"
	"path/filepath"

	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_common"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/model"
	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/logging"
)

// PmxRepository はPMXのボーン階層読込を表す。
type PmxRepository struct{}

// NewPmxRepository はPmxRepositoryを生成する。
func NewPmxRepository() *PmxRepository {
	return &PmxRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *PmxRepository) CanLoad(path string) bool {
	return io_common.HasExt(path, ".pmx")
}

// Load はPMXを読み込み、ボーン階層だけを持つモデルを返す。
func (r *PmxRepository) Load(path string) (*model.Model, error) {
	if !r.CanLoad(path) {
		return nil, io_common.NewIoExtInvalid(path, nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, io_common.NewIoFileNotFound(path, err)
		}
		return nil, io_common.NewIoParseFailed("PMXファイルの読み取りに失敗しました", err)
	}
	m, err := parsePmx(b, path)
	if err != nil {
		return nil, io_common.NewIoParseFailed("PMXファイルの解析に失敗しました", err)
	}
	if logger := logging.DefaultLogger(); logger != nil {
		logger.Info("PMX読込完了: file=%s model=%s bones=%d", filepath.Base(path), m.Name, m.Bones.Len())
	}
	return m, nil
}

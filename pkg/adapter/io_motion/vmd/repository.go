// 指示: miu200521358
// Package vmd はVMDモーションファイルの読み書きを提供する。
package vmd

import (
	"os"
	"path/filepath"

	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_common"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/logging"
)

// VmdRepository はVMDファイルの読み書きを表す。
type VmdRepository struct{}

// NewVmdRepository はVmdRepositoryを生成する。
func NewVmdRepository() *VmdRepository {
	return &VmdRepository{}
}

// CanLoad は拡張子に応じて読み込み可否を判定する。
func (r *VmdRepository) CanLoad(path string) bool {
	return io_common.HasExt(path, ".vmd")
}

// InferName はパスから表示名を推定する。
func (r *VmdRepository) InferName(path string) string {
	return io_common.InferName(path)
}

// Load はVMDを読み込む。
func (r *VmdRepository) Load(path string) (*motion.Motion, error) {
	if !r.CanLoad(path) {
		return nil, io_common.NewIoExtInvalid(path, nil)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, io_common.NewIoFileNotFound(path, err)
		}
		return nil, io_common.NewIoParseFailed("VMDファイルの読み取りに失敗しました", err)
	}
	logVmdVerbose("VMD読込ステップ: ファイル読み取り完了 bytes=%d", len(b))

	m, err := parseVmd(b, path)
	if err != nil {
		return nil, io_common.NewIoParseFailed("VMDファイルの解析に失敗しました", err)
	}
	logVmdInfo("VMD読込完了: file=%s model=%s bones=%d boneFrames=%d morphFrames=%d",
		filepath.Base(path), m.ModelName, len(m.BoneNames()), m.BoneFrameCount(), len(m.MorphFrames))
	return m, nil
}

// Save はキーのボーンフレームと付随フレームをVMDとして保存する。
func (r *VmdRepository) Save(path string, m *motion.Motion) error {
	if !r.CanLoad(path) {
		return io_common.NewIoExtInvalid(path, nil)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return io_common.NewIoSaveFailed("出力フォルダの作成に失敗しました", err)
		}
	}
	b := buildVmd(m)
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return io_common.NewIoSaveFailed("VMDファイルの保存に失敗しました", err)
	}
	logVmdInfo("VMD保存完了: file=%s bytes=%d", filepath.Base(path), len(b))
	return nil
}

// logVmdInfo はVMD入出力のINFOログを出力する。
func logVmdInfo(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Info(format, params...)
}

// logVmdVerbose はモーション詳細チャネルが有効なときだけ出力する。
func logVmdVerbose(format string, params ...any) {
	logger := logging.DefaultLogger()
	if logger == nil {
		return
	}
	logger.Verbose(logging.VERBOSE_INDEX_MOTION, format, params...)
}

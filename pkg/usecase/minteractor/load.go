// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/model"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
	"github.com/miu200521358/mu_vmd_smooth/pkg/usecase/port/moutput"
)

// LoadMotion はVMDモーションを読み込む。
func (uc *SmoothUsecase) LoadMotion(rep moutput.IMotionReader, path string) (*motion.Motion, error) {
	repo := rep
	if repo == nil {
		repo = uc.motionReader
	}
	if repo == nil {
		return nil, fmt.Errorf("モーション読み込みリポジトリが設定されていません")
	}
	m, err := repo.Load(path)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, fmt.Errorf("モーション読み込み結果が空です")
	}
	return m, nil
}

// LoadBones はモデルからボーン階層を読み込む。パスが空ならnilを返す。
func (uc *SmoothUsecase) LoadBones(rep moutput.IModelReader, path string) (*model.Bones, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	repo := rep
	if repo == nil {
		repo = uc.modelReader
	}
	if repo == nil {
		return nil, fmt.Errorf("モデル読み込みリポジトリが設定されていません")
	}
	loaded, err := repo.Load(path)
	if err != nil {
		return nil, err
	}
	if loaded == nil {
		return nil, fmt.Errorf("モデル読み込み結果が空です")
	}
	return loaded.Bones, nil
}

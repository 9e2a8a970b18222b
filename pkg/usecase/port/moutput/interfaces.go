// 指示: miu200521358
package moutput

import (
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/model"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
)

// IMotionReader はモーション読み込み契約を表す。
type IMotionReader interface {
	CanLoad(path string) bool
	Load(path string) (*motion.Motion, error)
}

// IMotionWriter はモーション保存契約を表す。
type IMotionWriter interface {
	Save(path string, m *motion.Motion) error
}

// IModelReader はボーン階層を持つモデルの読み込み契約を表す。
type IModelReader interface {
	CanLoad(path string) bool
	Load(path string) (*model.Model, error)
}

// IRotationSpreader は平滑化前に回転を階層へ分散する前処理の契約を表す。
// 既定実装は持たない。
type IRotationSpreader interface {
	Spread(m *motion.Motion, bones *model.Bones) error
}

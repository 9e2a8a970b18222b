// 指示: miu200521358
// Package model はモデルのボーン階層情報を表す。
package model

import "github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"

// Bone はボーン階層のメタ情報を表す。
type Bone struct {
	Index       int
	Name        string
	EnglishName string
	ParentIndex int
	// FixedAxis はゼロなら制限なし、非ゼロならその軸まわりのひねりのみ許可。
	FixedAxis mmath.Vec3
	Layer     int
}

// NewBone はボーンを生成する。
func NewBone(index int, name string, parentIndex int) *Bone {
	return &Bone{Index: index, Name: name, ParentIndex: parentIndex}
}

// IsAxisLimited は軸制限(ひねり)ボーンか判定する。
func (b *Bone) IsAxisLimited() bool {
	return b != nil && !b.FixedAxis.IsZero()
}

// HasParent は親ボーンを持つか判定する。
func (b *Bone) HasParent() bool {
	return b != nil && b.ParentIndex >= 0
}

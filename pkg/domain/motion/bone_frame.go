// 指示: miu200521358
package motion

import "github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"

// BoneFrame は1フレーム分のボーン姿勢を表す。
// Curves は直前の有効キーから自身までの遷移を表す。
type BoneFrame struct {
	Index    int
	Position mmath.Vec3
	Rotation mmath.Quaternion
	Curves   CurveBlock
	// Key は出力対象のキーか。
	Key bool
	// Read は走査済みか。
	Read bool
}

// NewBoneFrame は既定値(単位回転・線形補間)のボーンフレームを生成する。
func NewBoneFrame(index int) *BoneFrame {
	return &BoneFrame{
		Index:    index,
		Rotation: mmath.NewQuaternion(),
		Curves:   NewCurveBlock(),
	}
}

// Copy は独立したコピーを返す。
func (bf *BoneFrame) Copy() *BoneFrame {
	if bf == nil {
		return nil
	}
	copied := *bf
	return &copied
}

// TranslateValue は移動チャネルの値を返す。
func (bf *BoneFrame) TranslateValue(ch CurveChannel) float64 {
	return bf.Position.Get(int(ch))
}

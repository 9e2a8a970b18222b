// 指示: miu200521358
package smooth

import (
	"sort"

	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/model"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
)

// RotationDeltas はフレームごとのフィルタ前→後の回転差分(raw⁻¹·filtered)の累積を表す。
type RotationDeltas map[int]mmath.Quaternion

// Record はフレームの回転差分を累積する。
func (d RotationDeltas) Record(frame int, raw, filtered mmath.Quaternion) {
	delta := raw.Inverted().Muled(filtered).Normalized()
	if current, ok := d[frame]; ok {
		delta = current.Muled(delta).Normalized()
	}
	d[frame] = delta
}

// Frames は差分のあるフレーム番号を昇順で返す。
func (d RotationDeltas) Frames() []int {
	frames := make([]int, 0, len(d))
	for frame := range d {
		frames = append(frames, frame)
	}
	sort.Ints(frames)
	return frames
}

// Changed は恒等でない差分を含むか判定する。
func (d RotationDeltas) Changed() bool {
	identity := mmath.NewQuaternion()
	for _, delta := range d {
		if !delta.NearEquals(identity, 1e-12) && !delta.Negated().NearEquals(identity, 1e-12) {
			return true
		}
	}
	return false
}

// RedistributeResult は子ボーンへの再配分結果を表す。
type RedistributeResult struct {
	// Adjusted は補正したボーン名と補正フレーム数。
	Adjusted map[string]int
	// Exempt は軸制限のため補正しなかったボーン名。
	Exempt []string
}

// RotationRedistributor は親ボーンのフィルタ差分を子ボーンで打ち消す。
type RotationRedistributor struct {
	bones *model.Bones
}

// NewRotationRedistributor は再配分器を生成する。
func NewRotationRedistributor(bones *model.Bones) *RotationRedistributor {
	return &RotationRedistributor{bones: bones}
}

// Redistribute はparentの差分を直下の子ボーンへ child = Δ⁻¹·child で適用する。
// 子チャネルに差分フレームが無ければ、子の見た目の値を補間してキーとして追加してから補正する。
// 軸制限の子ボーンは補正しない。
func (r *RotationRedistributor) Redistribute(
	parentName string, deltas RotationDeltas, channelOf func(boneName string) (*motion.BoneChannel, bool),
) RedistributeResult {
	result := RedistributeResult{Adjusted: map[string]int{}}
	if r == nil || r.bones == nil || !deltas.Changed() {
		return result
	}
	parent, ok := r.bones.GetByName(parentName)
	if !ok {
		return result
	}

	frames := deltas.Frames()
	for _, child := range r.bones.Children(parent.Index) {
		if child.IsAxisLimited() {
			result.Exempt = append(result.Exempt, child.Name)
			continue
		}
		channel, exists := channelOf(child.Name)
		if !exists {
			continue
		}
		// 補正後のキーが後続フレームの補間に混ざらないよう、先に全フレームを取り出す
		targets := sampleVisibleFrames(channel, frames)
		for _, bf := range targets {
			bf.Rotation = deltas[bf.Index].Inverted().Muled(bf.Rotation).Normalized()
			bf.Key = true
			channel.Put(bf)
		}
		if len(targets) > 0 {
			result.Adjusted[child.Name] = len(targets)
		}
	}
	return result
}

// sampleVisibleFrames はframesの各フレームについて、出力時に見える値のフレームを返す。
// キーはそのまま、それ以外は前後キーから補間したコピーを返す。
func sampleVisibleFrames(channel *motion.BoneChannel, frames []int) []*motion.BoneFrame {
	sampler := NewSampler(mmath.ZERO_VEC3)
	targets := make([]*motion.BoneFrame, 0, len(frames))
	for _, frame := range frames {
		if bf, stored := channel.Get(frame); stored && bf.Key {
			targets = append(targets, bf)
			continue
		}
		bf, err := sampler.Interpolate(channel, frame)
		if err != nil {
			continue
		}
		bf.Index = frame
		bf.Read = false
		targets = append(targets, bf)
	}
	return targets
}

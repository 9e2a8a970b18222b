// 指示: miu200521358
package smooth

import (
	"math"

	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
)

// ResolveMode はフレーム解決方法を表す。
type ResolveMode int

const (
	// RESOLVE_EXACT は登録済みフレームのみ返す。
	RESOLVE_EXACT ResolveMode = iota
	// RESOLVE_NEAREST は指定フレーム以降で最初のキーを返す。
	RESOLVE_NEAREST
	// RESOLVE_INTERPOLATE は前後キーと補間曲線から値を合成する。
	RESOLVE_INTERPOLATE
)

// ResolveOptions は解決時のオプションを表す。
type ResolveOptions struct {
	// Authoritative はEXACTで登録済みフレームそのものを返すか。falseならコピーを返す。
	Authoritative bool
	// ClampToLast はNEARESTで該当が無いとき最後のキーを返すか。
	ClampToLast bool
	// IncludeTransient はNEARESTでキー以外の登録済みフレームも対象にするか。
	IncludeTransient bool
}

// Sampler はボーンチャネルから任意フレームの値を取り出す。
// 軸制限ボーンでは回転補間を軸まわりのひねり角で行う。
type Sampler struct {
	fixedAxis mmath.Vec3
}

// NewSampler はサンプラーを生成する。fixedAxisがゼロなら制限なし。
func NewSampler(fixedAxis mmath.Vec3) *Sampler {
	return &Sampler{fixedAxis: fixedAxis}
}

// Resolve はモードに応じてフレームを解決する。
func (s *Sampler) Resolve(
	channel *motion.BoneChannel, frame int, mode ResolveMode, options ResolveOptions,
) (*motion.BoneFrame, error) {
	switch mode {
	case RESOLVE_EXACT:
		return s.Exact(channel, frame, options.Authoritative)
	case RESOLVE_NEAREST:
		return s.Nearest(channel, frame, options)
	default:
		return s.Interpolate(channel, frame)
	}
}

// Exact は登録済みフレームを返す。authoritativeなら格納値そのもの、そうでなければコピーを返す。
func (s *Sampler) Exact(channel *motion.BoneChannel, frame int, authoritative bool) (*motion.BoneFrame, error) {
	bf, ok := channel.Get(frame)
	if !ok {
		return nil, newMissingNeighbor(channel.Name(), frame, "登録済み")
	}
	if authoritative {
		return bf, nil
	}
	return bf.Copy(), nil
}

// Nearest はframe以降で最初のキーを返す。
func (s *Sampler) Nearest(channel *motion.BoneChannel, frame int, options ResolveOptions) (*motion.BoneFrame, error) {
	var (
		bf *motion.BoneFrame
		ok bool
	)
	if options.IncludeTransient {
		bf, ok = channel.NextStored(frame)
	} else {
		bf, ok = channel.NextKey(frame)
	}
	if ok {
		return bf, nil
	}
	if options.ClampToLast {
		if last, exists := channel.LastKey(); exists {
			return last, nil
		}
	}
	return nil, newMissingNeighbor(channel.Name(), frame, "以降の")
}

// Interpolate は前後キーと補間曲線からframeの値を合成して返す。
// frameがキーならそのコピーを返す。戻り値はチャネルに登録されない。
func (s *Sampler) Interpolate(channel *motion.BoneChannel, frame int) (*motion.BoneFrame, error) {
	stored, hasStored := channel.Get(frame)
	if hasStored && stored.Key {
		return stored.Copy(), nil
	}

	prev, hasPrev := channel.PrevKey(frame)
	next, hasNext := channel.NextKey(frame + 1)
	if !hasPrev && !hasNext && !hasStored {
		return nil, newMissingNeighbor(channel.Name(), frame, "前後の")
	}

	if !hasPrev {
		// 前キーが無い場合は自身の仮値で代用する
		switch {
		case hasStored:
			prev = stored
		default:
			prev = next
		}
		prev = reindexed(prev, frame)
	}
	if !hasNext {
		if hasStored {
			next = stored
		} else {
			next = prev
		}
		next = reindexed(next, frame)
	}

	return s.interpolateBetween(prev, next, frame), nil
}

// interpolateBetween はprev→nextの区間でframeの値を合成する。曲線はnextのものを使う。
func (s *Sampler) interpolateBetween(prev, next *motion.BoneFrame, frame int) *motion.BoneFrame {
	bf := motion.NewBoneFrame(frame)

	if prev.Position.NearEquals(next.Position, 0) {
		bf.Position = prev.Position
	} else {
		for _, ch := range []motion.CurveChannel{motion.CURVE_TRANSLATE_X, motion.CURVE_TRANSLATE_Y, motion.CURVE_TRANSLATE_Z} {
			axis := int(ch)
			t := next.Curves.Decode(ch).Evaluate(prev.Index, next.Index, frame)
			start, end := prev.Position.Get(axis), next.Position.Get(axis)
			bf.Position = bf.Position.With(axis, interpolateScalar(start, end, t))
		}
	}

	t := next.Curves.Decode(motion.CURVE_ROTATE).Evaluate(prev.Index, next.Index, frame)
	bf.Rotation = s.interpolateRotation(prev.Rotation, next.Rotation, t)
	return bf
}

// interpolateRotation は回転を補間する。軸制限ボーンではひねり角を線形補間する。
func (s *Sampler) interpolateRotation(start, end mmath.Quaternion, t float64) mmath.Quaternion {
	if t <= 0 {
		return start
	}
	if t >= 1 {
		return end
	}
	if s.fixedAxis.IsZero() {
		return start.Slerp(end, t)
	}

	startSwing, _ := start.SwingTwist(s.fixedAxis)
	endSwing, _ := end.SwingTwist(s.fixedAxis)
	startAngle := start.TwistAngle(s.fixedAxis)
	endAngle := unwrapAngle(startAngle, end.TwistAngle(s.fixedAxis))
	angle := interpolateScalar(startAngle, endAngle, t)
	return startSwing.Slerp(endSwing, t).Muled(mmath.NewQuaternionFromAxisAngle(s.fixedAxis, angle)).Normalized()
}

func interpolateScalar(start, end, t float64) float64 {
	if t <= 0 {
		return start
	}
	if t >= 1 {
		return end
	}
	return start + (end-start)*t
}

// unwrapAngle はangleをbaseから±πの範囲に収まるよう2π単位でずらす。
func unwrapAngle(base, angle float64) float64 {
	for angle-base > math.Pi {
		angle -= 2 * math.Pi
	}
	for angle-base < -math.Pi {
		angle += 2 * math.Pi
	}
	return angle
}

func reindexed(bf *motion.BoneFrame, frame int) *motion.BoneFrame {
	copied := bf.Copy()
	copied.Index = frame
	return copied
}

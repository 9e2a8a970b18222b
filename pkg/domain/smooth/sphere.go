// 指示: miu200521358
package smooth

import (
	"math"

	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
)

const sphereEpsilon = 1e-9

// Arc は3点を通る円弧を表す。
type Arc struct {
	Center mmath.Vec3
	Radius float64
}

// ArcInterpolator は3点を通る円弧上の補間を行う。
type ArcInterpolator struct {
	zeroRadiusPrecision float64
	maxRadiusRatio      float64
}

// NewArcInterpolator は設定から円弧補間器を生成する。
func NewArcInterpolator(cfg Config) *ArcInterpolator {
	return &ArcInterpolator{
		zeroRadiusPrecision: cfg.ZeroRadiusPrecision,
		maxRadiusRatio:      cfg.MaxArcRadiusRatio,
	}
}

// FitArc はp,w,nを通る円の中心と半径を求める。
// 点の重複・一直線・半径ゼロ相当・極端に大きい半径はDegenerateGeometryを返す。
func (ai *ArcInterpolator) FitArc(p, w, n mmath.Vec3) (Arc, error) {
	if p.NearEquals(w, sphereEpsilon) || w.NearEquals(n, sphereEpsilon) || p.NearEquals(n, sphereEpsilon) {
		return Arc{}, newDegenerateGeometry(0)
	}

	halfChord := math.Max(p.Distance(w), math.Max(w.Distance(n), p.Distance(n))) / 2
	if mmath.RoundTo(halfChord, ai.zeroRadiusPrecision) == 0 {
		return Arc{}, newDegenerateGeometry(halfChord)
	}

	a := p.Subed(n)
	b := w.Subed(n)
	axb := a.Cross(b)
	denom := 2 * axb.LengthSqr()
	if denom <= sphereEpsilon*halfChord*halfChord {
		return Arc{}, newDegenerateGeometry(math.Inf(1))
	}

	offset := b.MuledScalar(a.LengthSqr()).Subed(a.MuledScalar(b.LengthSqr())).Cross(axb).MuledScalar(1 / denom)
	center := n.Added(offset)
	radius := offset.Length()

	if mmath.RoundTo(radius, ai.zeroRadiusPrecision) == 0 || radius > halfChord*ai.maxRadiusRatio {
		return Arc{}, newDegenerateGeometry(radius)
	}
	return Arc{Center: center, Radius: radius}, nil
}

// Position はfrom→toを円弧に沿ってtで補間した位置を返す。
func (arc Arc) Position(from, to mmath.Vec3, t float64) mmath.Vec3 {
	if t <= 0 {
		return from
	}
	if t >= 1 {
		return to
	}
	fromDir := from.Subed(arc.Center)
	toDir := to.Subed(arc.Center)
	q := mmath.NewQuaternionRotate(fromDir.Normalized(), toDir.Normalized())
	qt := mmath.NewQuaternion().Slerp(q, t)
	radius := fromDir.Length() + (toDir.Length()-fromDir.Length())*t
	return arc.Center.Added(qt.MulVec3(fromDir).Normalized().MuledScalar(radius))
}

// InterpolatePosition はprev→nowの区間のframeにおける位置を、nextを含む3点の円弧上で求める。
// 全3点で同値の軸はwの値を保つ。
func (ai *ArcInterpolator) InterpolatePosition(
	prev, now, next mmath.Vec3, prevFrame, nowFrame, frame int,
) (mmath.Vec3, error) {
	arc, err := ai.FitArc(prev, now, next)
	if err != nil {
		return mmath.Vec3{}, err
	}
	t := linearFraction(prevFrame, nowFrame, frame)
	pos := arc.Position(prev, now, t)
	for axis := 0; axis < 3; axis++ {
		if prev.Get(axis) == now.Get(axis) && now.Get(axis) == next.Get(axis) {
			pos = pos.With(axis, now.Get(axis))
		}
	}
	return pos, nil
}

// InterpolateTwist は軸制限ボーンのひねり角を(フレーム, 角度)平面の円弧で補間し、
// baseのひねり成分を置き換えた回転を返す。
func (ai *ArcInterpolator) InterpolateTwist(
	axis mmath.Vec3, prev, now, next mmath.Quaternion, prevFrame, nowFrame, nextFrame, frame int, base mmath.Quaternion,
) (mmath.Quaternion, error) {
	if nextFrame <= prevFrame {
		return mmath.Quaternion{}, newDegenerateGeometry(0)
	}
	prevAngle := prev.TwistAngle(axis)
	nowAngle := unwrapAngle(prevAngle, now.TwistAngle(axis))
	nextAngle := unwrapAngle(nowAngle, next.TwistAngle(axis))

	// フレームは区間全体で0-1に正規化して角度と同程度のスケールに揃える
	width := float64(nextFrame - prevFrame)
	toPoint := func(f int, angle float64) mmath.Vec3 {
		return mmath.NewVec3(float64(f-prevFrame)/width, angle, 0)
	}
	p := toPoint(prevFrame, prevAngle)
	w := toPoint(nowFrame, nowAngle)
	n := toPoint(nextFrame, nextAngle)

	arc, err := ai.FitArc(p, w, n)
	if err != nil {
		return mmath.Quaternion{}, err
	}

	// wと同じ側の半円を採る。3点が同じ半円上に無ければ角度をフレームの関数にできない
	sign := 1.0
	if w.Y < arc.Center.Y {
		sign = -1.0
	}
	branch := func(x float64) float64 {
		dx := x - arc.Center.X
		under := arc.Radius*arc.Radius - dx*dx
		if under < 0 {
			under = 0
		}
		return arc.Center.Y + sign*math.Sqrt(under)
	}
	for _, point := range []mmath.Vec3{p, n} {
		if y := branch(point.X); math.Abs(y-point.Y) > 1e-6*math.Max(1, arc.Radius) {
			return mmath.Quaternion{}, newDegenerateGeometry(arc.Radius)
		}
	}
	angle := branch(float64(frame-prevFrame) / width)

	swing, _ := base.SwingTwist(axis)
	return swing.Muled(mmath.NewQuaternionFromAxisAngle(axis, angle)).Normalized(), nil
}

func linearFraction(start, end, frame int) float64 {
	if end <= start || frame >= end {
		return 1
	}
	if frame <= start {
		return 0
	}
	return float64(frame-start) / float64(end-start)
}

// 指示: miu200521358
package smooth

import (
	"math"

	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
)

const (
	fitSearchStep  = 16
	fitFlatEpsilon = 1e-9
)

var fitHandles = fitCandidateHandles()

// FitResult は3点への補間曲線当てはめ結果を表す。
type FitResult struct {
	// Applicable はフレームが単調増加で当てはめ可能だったか。falseのときは制約なしとして扱う。
	Applicable bool
	// Accepted は許容誤差内の曲線が見つかったか。
	Accepted bool
	// Curve は採用した曲線。不採用時は線形。
	Curve motion.Curve
	// Error は採用曲線(不採用時は最良候補)の中間点誤差。
	Error float64
}

// FitBezier は(x1,y1)→(x3,y3)を結ぶ曲線が中間点(x2,y2)を通るよう制御点を探す。
// offsetMarginは区間延長時に変化量比で加える追加許容誤差。
func FitBezier(x1, y1, x2, y2, x3, y3, offsetMargin, tolerance float64) FitResult {
	if ValidateFitFrames(x1, x2, x3) != nil {
		return FitResult{Applicable: false, Accepted: true, Curve: motion.LINEAR_CURVE}
	}

	span := y3 - y1
	allowed := tolerance + offsetMargin*math.Abs(span)

	if math.Abs(span) <= fitFlatEpsilon {
		diff := math.Abs(y2 - y1)
		return FitResult{Applicable: true, Accepted: diff <= allowed, Curve: motion.LINEAR_CURVE, Error: diff}
	}

	tx := (x2 - x1) / (x3 - x1)
	ty := (y2 - y1) / span

	best := FitResult{Applicable: true, Curve: motion.LINEAR_CURVE, Error: math.Inf(1)}
	for _, handles := range fitHandles {
		curve, fitErr, ok := fitWithHandles(handles[0], handles[1], tx, ty)
		if !ok {
			continue
		}
		fitErr *= math.Abs(span)
		if fitErr < best.Error {
			best.Curve = curve
			best.Error = fitErr
		}
		if fitErr <= allowed {
			best.Accepted = true
			return best
		}
	}
	if math.IsInf(best.Error, 1) {
		best.Curve = motion.LINEAR_CURVE
	}
	return best
}

// ValidateFitFrames は当てはめ対象フレームの順序を検証する。
func ValidateFitFrames(x1, x2, x3 float64) error {
	if !(x1 < x2 && x2 < x3) {
		return newDegenerateFit(x1, x2, x3)
	}
	return nil
}

// fitWithHandles はX制御点(a,c)を固定してY制御点を最小補正で求める。
func fitWithHandles(a, c, tx, ty float64) (motion.Curve, float64, bool) {
	x1, x2 := a/motion.CURVE_MAX, c/motion.CURVE_MAX
	s := motion.SolveBezierParam(tx, x1, x2)
	u := 1 - s
	ca := 3 * u * u * s
	cb := 3 * u * s * s
	norm := ca*ca + cb*cb
	if norm == 0 {
		return motion.Curve{}, 0, false
	}

	// Y制御点の初期値はX制御点と同じ(線形)とし、中間点を通る最小ノルム補正を加える
	residual := ty - s*s*s - ca*x1 - cb*x2
	y1 := (x1 + ca*residual/norm) * motion.CURVE_MAX
	y2 := (x2 + cb*residual/norm) * motion.CURVE_MAX

	var (
		best    motion.Curve
		bestErr = math.Inf(1)
	)
	for _, qy1 := range quantizedCandidates(y1) {
		for _, qy2 := range quantizedCandidates(y2) {
			got := motion.BezierComponent(s, qy1/motion.CURVE_MAX, qy2/motion.CURVE_MAX)
			if e := math.Abs(got - ty); e < bestErr {
				bestErr = e
				best = motion.Curve{X1: a, Y1: qy1, X2: c, Y2: qy2}
			}
		}
	}
	if math.IsInf(bestErr, 1) {
		return motion.Curve{}, 0, false
	}
	return best, bestErr, true
}

// quantizedCandidates は0～127に丸めた切り捨て・切り上げ候補を返す。
func quantizedCandidates(v float64) []float64 {
	lo := mmath.Clamped(math.Floor(v), 0, motion.CURVE_MAX)
	hi := mmath.Clamped(math.Ceil(v), 0, motion.CURVE_MAX)
	if lo == hi {
		return []float64{lo}
	}
	return []float64{lo, hi}
}

// fitCandidateHandles はX制御点の探索順を返す。先頭は線形既定値。
func fitCandidateHandles() [][2]float64 {
	linear := motion.LINEAR_CURVE
	handles := [][2]float64{{linear.X1, linear.X2}}
	var steps []float64
	for v := 0; v < motion.CURVE_MAX; v += fitSearchStep {
		steps = append(steps, float64(v))
	}
	steps = append(steps, motion.CURVE_MAX)
	for _, a := range steps {
		for _, c := range steps {
			handles = append(handles, [2]float64{a, c})
		}
	}
	return handles
}

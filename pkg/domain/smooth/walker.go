// 指示: miu200521358
package smooth

import (
	"math"

	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mfilter"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/model"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
)

// WalkerState は1ボーン分の処理状態を表す。
type WalkerState int

const (
	// WALKER_SCANNING は処理開始前。
	WALKER_SCANNING WalkerState = iota
	// WALKER_STAMPING は全フレーム打ち込み中(パス0)。
	WALKER_STAMPING
	// WALKER_MERGING は曲線当てはめによるキー結合中(パス1以降)。
	WALKER_MERGING
	// WALKER_DONE は処理完了。
	WALKER_DONE
)

// segmentWalker は1ボーンチャネルの打ち込み・フィルタ・結合を行う。
type segmentWalker struct {
	cfg       Config
	observer  Observer
	channel   *motion.BoneChannel
	fixedAxis mmath.Vec3
	sampler   *Sampler
	arc       *ArcInterpolator
	state     WalkerState
	pass      int
	deltas    RotationDeltas
	report    *BoneReport
}

func newSegmentWalker(cfg Config, observer Observer, channel *motion.BoneChannel, bone *model.Bone) *segmentWalker {
	fixedAxis := mmath.ZERO_VEC3
	if bone != nil && bone.IsAxisLimited() {
		fixedAxis = bone.FixedAxis.Normalized()
	}
	return &segmentWalker{
		cfg:       cfg,
		observer:  observer,
		channel:   channel,
		fixedAxis: fixedAxis,
		sampler:   NewSampler(fixedAxis),
		arc:       NewArcInterpolator(cfg),
		state:     WALKER_SCANNING,
		deltas:    RotationDeltas{},
		report:    &BoneReport{BoneName: channel.Name(), KeysBefore: channel.KeyCount()},
	}
}

func (w *segmentWalker) isAxisLimited() bool {
	return !w.fixedAxis.IsZero()
}

// run は全パスを実行する。パス単位の失敗は記録して次のパスへ進む。
func (w *segmentWalker) run() *BoneReport {
	defer func() {
		w.state = WALKER_DONE
		w.report.KeysAfter = w.channel.KeyCount()
	}()

	if w.report.KeysBefore < MIN_SMOOTH_KEY_COUNT {
		w.report.Skipped = true
		w.observer.OnBoneSkipped(w.channel.Name(), w.report.KeysBefore)
		return w.report
	}

	for w.pass = 0; w.pass < w.cfg.Passes; w.pass++ {
		w.observer.OnPass(w.channel.Name(), w.pass)
		w.clearRead()

		var err error
		if w.pass == 0 {
			w.state = WALKER_STAMPING
			err = w.stampPass()
		} else {
			w.state = WALKER_MERGING
			err = w.mergePass()
		}
		if err != nil {
			w.report.Aborted = append(w.report.Aborted, err)
			w.observer.OnPassAborted(w.channel.Name(), w.pass, err)
			continue
		}
		w.report.PassesCompleted++
	}
	return w.report
}

func (w *segmentWalker) clearRead() {
	w.channel.ForEach(func(bf *motion.BoneFrame) bool {
		bf.Read = false
		return true
	})
}

func (w *segmentWalker) outcome(err error) {
	w.report.Outcomes = append(w.report.Outcomes, err)
	w.observer.OnOutcome(w.channel.Name(), w.pass, err)
}

// firstKey は先頭キーを格納値のまま返す。
func (w *segmentWalker) firstKey() (*motion.BoneFrame, error) {
	first, ok := w.channel.NextKey(math.MinInt32)
	if !ok {
		return nil, newMissingNeighbor(w.channel.Name(), 0, "先頭")
	}
	return w.sampler.Exact(w.channel, first.Index, true)
}

// stampPass は隣接キー間の欠けたフレームを全て合成してキーにする。
func (w *segmentWalker) stampPass() error {
	prev, err := w.firstKey()
	if err != nil {
		return err
	}
	now, err := w.sampler.Nearest(w.channel, prev.Index+1, ResolveOptions{})
	if err != nil {
		return err
	}
	last, _ := w.channel.LastKey()

	seams := make([]int, 0)
	for {
		prev.Read = true
		now.Read = true

		next, err := w.sampler.Nearest(w.channel, now.Index+1, ResolveOptions{})
		if err != nil {
			next = w.terminator(prev, now)
		}

		// 区間内の補間は元のキーを参照するため、書き込みは区間ごとにまとめて行う
		planned := w.stampGap(prev, now, next)
		for _, bf := range planned {
			w.channel.Put(bf)
		}
		w.report.Synthesized += len(planned)

		if next.Index > last.Index {
			break
		}
		seams = append(seams, now.Index)
		prev, now = now, next
	}

	if !w.cfg.SeamSmoothing {
		return nil
	}
	if w.isAxisLimited() {
		w.report.SeamExempt = true
		return nil
	}
	for _, seam := range seams {
		filtered, err := w.filterRange(seam-w.cfg.SeamHalfWindow, seam+w.cfg.SeamHalfWindow, true, true)
		if err != nil {
			return err
		}
		w.report.Filtered += filtered
	}
	return nil
}

// stampGap はprev→nowの間の各フレームを合成する。円弧補間ではnextを3点目に使う。
func (w *segmentWalker) stampGap(prev, now, next *motion.BoneFrame) []*motion.BoneFrame {
	if now.Index-prev.Index <= 1 {
		return nil
	}
	planned := make([]*motion.BoneFrame, 0, now.Index-prev.Index-1)
	degenerate := false
	for frame := prev.Index + 1; frame < now.Index; frame++ {
		bf, err := w.sampler.Interpolate(w.channel, frame)
		if err != nil {
			continue
		}
		if w.cfg.Circular {
			if err := w.applyArc(bf, prev, now, next); err != nil && !degenerate {
				degenerate = true
				w.outcome(err)
			}
		}
		bf.Key = true
		bf.Read = true
		planned = append(planned, bf)
	}
	return planned
}

// applyArc は3点の円弧で位置(軸制限ボーンはひねり角も)を置き換える。退化時は元の補間値を残す。
func (w *segmentWalker) applyArc(bf, prev, now, next *motion.BoneFrame) error {
	var firstErr error
	pos, err := w.arc.InterpolatePosition(prev.Position, now.Position, next.Position, prev.Index, now.Index, bf.Index)
	if err == nil {
		bf.Position = pos
	} else {
		firstErr = err
	}

	if w.isAxisLimited() {
		rot, err := w.arc.InterpolateTwist(
			w.fixedAxis, prev.Rotation, now.Rotation, next.Rotation,
			prev.Index, now.Index, next.Index, bf.Index, bf.Rotation,
		)
		if err == nil {
			bf.Rotation = rot
		} else if firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// terminator は最後のキーの先に置く仮フレームを返す。チャネルには登録しない。
func (w *segmentWalker) terminator(prev, now *motion.BoneFrame) *motion.BoneFrame {
	gap := now.Index - prev.Index
	if gap < 1 {
		gap = 1
	}
	t := now.Copy()
	t.Index = now.Index + gap
	t.Key = false

	direction := now.Position.Subed(prev.Position).Normalized()
	if direction.IsZero() {
		direction = mmath.UNIT_X_VEC3
	}
	t.Position = now.Position.Added(direction.MuledScalar(w.cfg.TerminatorPositionNudge))
	t.Rotation = extrapolateRotation(prev.Rotation, now.Rotation, w.cfg.TerminatorRotationScale)
	return t
}

// extrapolateRotation はprev→nowの回転をscale倍まで延長した回転を返す。
func extrapolateRotation(prev, now mmath.Quaternion, scale float64) mmath.Quaternion {
	delta := prev.Inverted().Muled(now).Normalized()
	if delta.W() < 0 {
		delta = delta.Negated()
	}
	v := delta.Vec3()
	angle := 2 * math.Atan2(v.Length(), delta.W())
	if angle < 1e-12 {
		return now
	}
	extra := mmath.NewQuaternionFromAxisAngle(v.Normalized(), angle*(scale-1))
	return now.Muled(extra).Normalized()
}

// frameFilters は1ボーン分の6本のフィルタ(移動XYZ・回転オイラーXYZ)を表す。
type frameFilters struct {
	position [3]*mfilter.OneEuroFilter
	rotation [3]*mfilter.OneEuroFilter
}

func newFrameFilters(params mfilter.OneEuroParams) (*frameFilters, error) {
	ff := &frameFilters{}
	for i := 0; i < 3; i++ {
		var err error
		if ff.position[i], err = mfilter.NewOneEuroFilter(params); err != nil {
			return nil, err
		}
		if ff.rotation[i], err = mfilter.NewOneEuroFilter(params); err != nil {
			return nil, err
		}
	}
	return ff, nil
}

type plannedFilter struct {
	bf       *motion.BoneFrame
	position mmath.Vec3
	rotation mmath.Quaternion
	rotated  bool
}

// filterRange はfrom～toの格納フレームをフィルタし、結果をまとめて書き戻す。
// 回転をフィルタした範囲は全フレームの差分を記録する。戻り値は書き換えたフレーム数。
func (w *segmentWalker) filterRange(from, to int, position, rotation bool) (int, error) {
	filters, err := newFrameFilters(w.cfg.Filter)
	if err != nil {
		return 0, err
	}

	frames := make([]*motion.BoneFrame, 0)
	w.channel.ForEach(func(bf *motion.BoneFrame) bool {
		if bf.Index > to {
			return false
		}
		if bf.Index >= from {
			frames = append(frames, bf)
		}
		return true
	})

	planned := make([]plannedFilter, 0, len(frames))
	var prevEuler mmath.Vec3
	for i, bf := range frames {
		var next *motion.BoneFrame
		if i+1 < len(frames) {
			next = frames[i+1]
		}
		item := plannedFilter{bf: bf, position: bf.Position, rotation: bf.Rotation}

		if position {
			similar := next != nil && bf.Position.Dot(next.Position) >= w.cfg.SimilarityThreshold
			for axis := 0; axis < 3; axis++ {
				value := bf.Position.Get(axis)
				if similar {
					item.position = item.position.With(axis, filters.position[axis].Update(value, bf.Index))
				} else {
					filters.position[axis].Skip(value, bf.Index)
				}
			}
		}

		if rotation {
			euler := bf.Rotation.ToDegrees()
			if i > 0 {
				euler = unwrapEulerDegrees(prevEuler, euler)
			}
			prevEuler = euler
			similar := next != nil && math.Abs(bf.Rotation.Dot(next.Rotation)) >= w.cfg.SimilarityThreshold
			filtered := euler
			for axis := 0; axis < 3; axis++ {
				value := euler.Get(axis)
				if similar {
					filtered = filtered.With(axis, filters.rotation[axis].Update(value, bf.Index))
				} else {
					filters.rotation[axis].Skip(value, bf.Index)
				}
			}
			if similar && !filtered.NearEquals(euler, 1e-9) {
				item.rotation = mmath.NewQuaternionFromDegrees(filtered.X, filtered.Y, filtered.Z)
				item.rotated = true
			}
		}
		planned = append(planned, item)
	}

	count := 0
	for _, item := range planned {
		changed := !item.bf.Position.NearEquals(item.position, 0)
		item.bf.Position = item.position
		if rotation {
			// 変化しなかったフレームも恒等差分として残し、子ボーンの値を固定させる
			w.deltas.Record(item.bf.Index, item.bf.Rotation, item.rotation)
		}
		if item.rotated {
			item.bf.Rotation = item.rotation
			changed = true
		}
		if changed {
			count++
		}
	}
	return count, nil
}

// unwrapEulerDegrees は各成分を直前値から±180度以内になるよう360度単位でずらす。
func unwrapEulerDegrees(prev, current mmath.Vec3) mmath.Vec3 {
	for axis := 0; axis < 3; axis++ {
		value := mmath.RadToDeg(unwrapAngle(mmath.DegToRad(prev.Get(axis)), mmath.DegToRad(current.Get(axis))))
		current = current.With(axis, value)
	}
	return current
}

// mergePass はチャネル全体をフィルタした後、曲線当てはめでキーを結合する。
func (w *segmentWalker) mergePass() error {
	if w.cfg.NeedsFilter() {
		filtered, err := w.filterRange(math.MinInt32, math.MaxInt32, w.cfg.FilterPosition, w.cfg.FilterRotation)
		if err != nil {
			return err
		}
		w.report.Filtered += filtered
	}

	prev, err := w.firstKey()
	if err != nil {
		return err
	}
	last, _ := w.channel.LastKey()

	for {
		prev.Read = true
		next, err := w.sampler.Nearest(w.channel, prev.Index+2, ResolveOptions{})
		if err != nil {
			// 結合できる範囲が残っていない
			return nil
		}

		var accepted *motion.BoneFrame
		margin := 0.0
		for {
			if !w.mergeSpan(prev, next, margin) {
				break
			}
			accepted = next
			w.report.Merged++
			margin = w.cfg.FitOffsetMargin

			candidate, err := w.sampler.Nearest(w.channel, next.Index+2, ResolveOptions{})
			if err != nil {
				candidate, err = w.sampler.Nearest(w.channel, next.Index+1, ResolveOptions{})
			}
			if err != nil {
				candidate = w.terminator(prev, next)
			}
			if candidate.Index > last.Index {
				break
			}
			next = candidate
		}

		if accepted != nil {
			prev = accepted
			continue
		}
		following, err := w.sampler.Nearest(w.channel, prev.Index+1, ResolveOptions{})
		if err != nil {
			return nil
		}
		prev = following
	}
}

// mergeSpan はprev→nextを1区間に結合できるか当てはめ、全チャネル採用なら曲線を書き込んで間のキーを降格する。
func (w *segmentWalker) mergeSpan(prev, next *motion.BoneFrame, margin float64) bool {
	mid, ok := w.channel.NextStored((prev.Index + next.Index) / 2)
	midIndex := next.Index
	if ok {
		midIndex = mid.Index
	}
	if err := ValidateFitFrames(float64(prev.Index), float64(midIndex), float64(next.Index)); err != nil {
		// 中間フレームが無ければ制約なしで結合する
		w.outcome(err)
		w.demoteBetween(prev.Index, next.Index)
		return true
	}
	mid.Read = true
	next.Read = true

	var curves [4]motion.Curve
	var applicable [4]bool
	for _, ch := range motion.CurveChannels {
		x1, x2, x3 := float64(prev.Index), float64(mid.Index), float64(next.Index)
		var y1, y2, y3, tolerance float64
		if ch == motion.CURVE_ROTATE {
			y1, y2, y3 = 0, w.rotationValue(prev.Rotation, mid.Rotation), w.rotationValue(prev.Rotation, next.Rotation)
			tolerance = mmath.DegToRad(w.cfg.RotationToleranceDegree)
		} else {
			y1, y2, y3 = prev.TranslateValue(ch), mid.TranslateValue(ch), next.TranslateValue(ch)
			tolerance = w.cfg.PositionTolerance
		}

		result := FitBezier(x1, y1, x2, y2, x3, y3, margin, tolerance)
		if result.Accepted && ch == motion.CURVE_ROTATE && result.Applicable && !w.isAxisLimited() {
			// 回転量が合っても経路が外れていれば採用しない
			t := result.Curve.Evaluate(prev.Index, next.Index, mid.Index)
			deviation := prev.Rotation.Slerp(next.Rotation, t).AngleTo(mid.Rotation)
			result.Accepted = deviation <= tolerance+margin*math.Abs(y3-y1)
		}
		if !result.Accepted {
			w.outcome(newRejectedFit(w.channel.Name(), prev.Index, next.Index, ch))
			return false
		}
		curves[ch] = result.Curve
		applicable[ch] = result.Applicable
	}

	for _, ch := range motion.CurveChannels {
		if applicable[ch] {
			next.Curves.Encode(ch, curves[ch])
		}
	}
	w.demoteBetween(prev.Index, next.Index)
	return true
}

// rotationValue はbaseからの回転量を返す。軸制限ボーンは符号付きひねり角差。
func (w *segmentWalker) rotationValue(base, rot mmath.Quaternion) float64 {
	if w.isAxisLimited() {
		baseAngle := base.TwistAngle(w.fixedAxis)
		return unwrapAngle(baseAngle, rot.TwistAngle(w.fixedAxis)) - baseAngle
	}
	return base.AngleTo(rot)
}

func (w *segmentWalker) demoteBetween(start, end int) {
	for bf, ok := w.channel.NextStored(start + 1); ok && bf.Index < end; bf, ok = w.channel.NextStored(bf.Index + 1) {
		bf.Key = false
	}
}

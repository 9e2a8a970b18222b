// 指示: miu200521358
package smooth

import (
	"testing"

	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/merr"
)

func TestSamplerExactReturnsStoredOrCopy(t *testing.T) {
	stored := newKey(3, mmath.NewVec3(1, 2, 3), mmath.NewQuaternion())
	channel := newChannel("センター", stored)
	sampler := NewSampler(mmath.ZERO_VEC3)

	got, err := sampler.Exact(channel, 3, true)
	if err != nil {
		t.Fatalf("exact failed: %v", err)
	}
	if got != stored {
		t.Fatalf("authoritative exact should return stored frame")
	}

	copied, err := sampler.Resolve(channel, 3, RESOLVE_EXACT, ResolveOptions{})
	if err != nil {
		t.Fatalf("exact failed: %v", err)
	}
	if copied == stored {
		t.Fatalf("non-authoritative exact should return a copy")
	}
	assertVecNear(t, "copy position", copied.Position, stored.Position, 0)

	_, err = sampler.Exact(channel, 4, false)
	if !merr.IsKind(err, merr.KindMissingNeighbor) {
		t.Fatalf("missing frame should be MissingNeighbor: %v", err)
	}
	if merr.ExtractErrorID(err) != ErrorIDMissingNeighbor {
		t.Fatalf("unexpected error id: %s", merr.ExtractErrorID(err))
	}
}

func TestSamplerNearest(t *testing.T) {
	transient := newKey(5, mmath.ZERO_VEC3, mmath.NewQuaternion())
	transient.Key = false
	channel := newChannel("センター",
		newKey(0, mmath.ZERO_VEC3, mmath.NewQuaternion()),
		transient,
		newKey(10, mmath.ZERO_VEC3, mmath.NewQuaternion()),
	)
	sampler := NewSampler(mmath.ZERO_VEC3)

	if got, err := sampler.Nearest(channel, 1, ResolveOptions{}); err != nil || got.Index != 10 {
		t.Fatalf("nearest key after 1 should be 10: %v %v", got, err)
	}
	if got, err := sampler.Nearest(channel, 1, ResolveOptions{IncludeTransient: true}); err != nil || got.Index != 5 {
		t.Fatalf("nearest stored after 1 should be 5: %v %v", got, err)
	}
	if _, err := sampler.Nearest(channel, 11, ResolveOptions{}); !merr.IsKind(err, merr.KindMissingNeighbor) {
		t.Fatalf("nearest beyond last should be MissingNeighbor: %v", err)
	}
	if got, err := sampler.Nearest(channel, 11, ResolveOptions{ClampToLast: true}); err != nil || got.Index != 10 {
		t.Fatalf("clamped nearest should be last key: %v %v", got, err)
	}
}

func TestSamplerInterpolateEndpointsAndMidpoint(t *testing.T) {
	prevRot := mmath.NewQuaternion()
	nextRot := mmath.NewQuaternionFromDegrees(0, 90, 0)
	prev := newKey(0, mmath.NewVec3(0, 0, 0), prevRot)
	next := newKey(10, mmath.NewVec3(10, 20, 0), nextRot)
	channel := newChannel("センター", prev, next)
	sampler := NewSampler(mmath.ZERO_VEC3)

	atPrev, err := sampler.Resolve(channel, 0, RESOLVE_INTERPOLATE, ResolveOptions{})
	if err != nil {
		t.Fatalf("interpolate failed: %v", err)
	}
	if atPrev.Position != prev.Position || atPrev.Rotation != prev.Rotation {
		t.Fatalf("interpolate at prev should equal prev exactly: %v", atPrev)
	}
	atNext, _ := sampler.Interpolate(channel, 10)
	if atNext.Position != next.Position || atNext.Rotation != next.Rotation {
		t.Fatalf("interpolate at next should equal next exactly: %v", atNext)
	}

	mid, err := sampler.Interpolate(channel, 5)
	if err != nil {
		t.Fatalf("interpolate failed: %v", err)
	}
	assertVecNear(t, "midpoint position", mid.Position, mmath.NewVec3(5, 10, 0), 1e-9)
	want := mmath.NewQuaternionFromDegrees(0, 45, 0)
	assertNear(t, "midpoint rotation", mid.Rotation.AngleTo(want), 0, 1e-6)
	if mid.Key {
		t.Fatalf("interpolated frame should not be a key")
	}
	if _, stored := channel.Get(5); stored {
		t.Fatalf("interpolate should not register frames")
	}
}

func TestSamplerInterpolateUsesNextCurve(t *testing.T) {
	next := newKey(10, mmath.NewVec3(10, 0, 0), mmath.NewQuaternion())
	curve := motion.Curve{X1: 64, Y1: 0, X2: 127, Y2: 64}
	next.Curves.Encode(motion.CURVE_TRANSLATE_X, curve)
	channel := newChannel("センター", newKey(0, mmath.ZERO_VEC3, mmath.NewQuaternion()), next)

	got, err := NewSampler(mmath.ZERO_VEC3).Interpolate(channel, 4)
	if err != nil {
		t.Fatalf("interpolate failed: %v", err)
	}
	want := 10 * curve.Evaluate(0, 10, 4)
	assertNear(t, "curved x", got.Position.X, want, 1e-9)
	if want > 3.9 {
		t.Fatalf("ease-in curve should lag behind linear: %v", want)
	}
}

func TestSamplerInterpolateOutsideKeysHoldsNearestKey(t *testing.T) {
	first := newKey(5, mmath.NewVec3(1, 0, 0), mmath.NewQuaternion())
	last := newKey(10, mmath.NewVec3(3, 0, 0), mmath.NewQuaternion())
	channel := newChannel("センター", first, last)
	sampler := NewSampler(mmath.ZERO_VEC3)

	before, err := sampler.Interpolate(channel, 2)
	if err != nil {
		t.Fatalf("interpolate failed: %v", err)
	}
	assertVecNear(t, "before first", before.Position, first.Position, 0)
	if before.Index != 2 {
		t.Fatalf("interpolated frame should carry requested index: %d", before.Index)
	}

	after, err := sampler.Interpolate(channel, 15)
	if err != nil {
		t.Fatalf("interpolate failed: %v", err)
	}
	assertVecNear(t, "after last", after.Position, last.Position, 0)

	if _, err := sampler.Interpolate(motion.NewBoneChannel("空"), 0); !merr.IsKind(err, merr.KindMissingNeighbor) {
		t.Fatalf("empty channel should be MissingNeighbor: %v", err)
	}
}

func TestSamplerInterpolateAxisLimitedUsesTwistAngle(t *testing.T) {
	axis := mmath.UNIT_X_VEC3
	prev := newKey(0, mmath.ZERO_VEC3, mmath.NewQuaternion())
	next := newKey(10, mmath.ZERO_VEC3, mmath.NewQuaternionFromAxisAngle(axis, mmath.DegToRad(120)))
	channel := newChannel("左腕捩", prev, next)

	mid, err := NewSampler(axis).Interpolate(channel, 5)
	if err != nil {
		t.Fatalf("interpolate failed: %v", err)
	}
	assertNear(t, "twist angle", mmath.RadToDeg(mid.Rotation.TwistAngle(axis)), 60, 1e-6)
	swing, _ := mid.Rotation.SwingTwist(axis)
	if !swing.IsIdent() {
		t.Fatalf("axis limited interpolation should not introduce swing: %v", swing)
	}
}

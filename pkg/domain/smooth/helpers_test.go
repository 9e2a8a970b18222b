// 指示: miu200521358
package smooth

import (
	"math"
	"testing"

	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
)

func newKey(index int, pos mmath.Vec3, rot mmath.Quaternion) *motion.BoneFrame {
	bf := motion.NewBoneFrame(index)
	bf.Position = pos
	bf.Rotation = rot
	bf.Key = true
	return bf
}

func newChannel(name string, frames ...*motion.BoneFrame) *motion.BoneChannel {
	channel := motion.NewBoneChannel(name)
	for _, bf := range frames {
		channel.Put(bf)
	}
	return channel
}

func assertNear(t *testing.T, label string, got, want, epsilon float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Fatalf("%s: got=%v want=%v", label, got, want)
	}
}

func assertVecNear(t *testing.T, label string, got, want mmath.Vec3, epsilon float64) {
	t.Helper()
	if !got.NearEquals(want, epsilon) {
		t.Fatalf("%s: got=%v want=%v", label, got, want)
	}
}

// recordingObserver は通知を記録する。
type recordingObserver struct {
	passes   map[string][]int
	skipped  []string
	aborted  []string
	outcomes []error
	exempt   [][2]string
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{passes: map[string][]int{}}
}

func (o *recordingObserver) OnPass(boneName string, pass int) {
	o.passes[boneName] = append(o.passes[boneName], pass)
}

func (o *recordingObserver) OnBoneSkipped(boneName string, _ int) {
	o.skipped = append(o.skipped, boneName)
}

func (o *recordingObserver) OnPassAborted(boneName string, _ int, _ error) {
	o.aborted = append(o.aborted, boneName)
}

func (o *recordingObserver) OnOutcome(_ string, _ int, outcome error) {
	o.outcomes = append(o.outcomes, outcome)
}

func (o *recordingObserver) OnChildExempt(parentName, childName string) {
	o.exempt = append(o.exempt, [2]string{parentName, childName})
}

// 指示: miu200521358
package motion

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
)

func newKeyFrame(index int, x float64) *BoneFrame {
	bf := NewBoneFrame(index)
	bf.Position = mmath.NewVec3(x, 0, 0)
	bf.Key = true
	return bf
}

func TestBoneChannelKeepsIndexesSorted(t *testing.T) {
	channel := NewBoneChannel("センター")
	for _, index := range []int{10, 0, 5, 20, 5} {
		channel.Put(newKeyFrame(index, float64(index)))
	}

	if diff := cmp.Diff([]int{0, 5, 10, 20}, channel.Indexes()); diff != "" {
		t.Fatalf("indexes mismatch (-want +got):\n%s", diff)
	}
	if channel.Len() != 4 {
		t.Fatalf("len mismatch: %d", channel.Len())
	}
}

func TestBoneChannelKeyLookups(t *testing.T) {
	channel := NewBoneChannel("センター")
	channel.Put(newKeyFrame(0, 0))
	transient := newKeyFrame(5, 5)
	transient.Key = false
	channel.Put(transient)
	channel.Put(newKeyFrame(10, 10))

	next, ok := channel.NextKey(1)
	if !ok || next.Index != 10 {
		t.Fatalf("next key should skip transient: %v", next)
	}
	stored, ok := channel.NextStored(1)
	if !ok || stored.Index != 5 {
		t.Fatalf("next stored should include transient: %v", stored)
	}
	prev, ok := channel.PrevKey(10)
	if !ok || prev.Index != 0 {
		t.Fatalf("prev key should skip transient: %v", prev)
	}
	if _, ok := channel.NextKey(11); ok {
		t.Fatalf("no key after last")
	}
	if channel.KeyCount() != 2 {
		t.Fatalf("key count mismatch: %d", channel.KeyCount())
	}
	last, ok := channel.LastKey()
	if !ok || last.Index != 10 {
		t.Fatalf("last key mismatch: %v", last)
	}
}

func TestBoneChannelCopyIsIndependent(t *testing.T) {
	channel := NewBoneChannel("右腕")
	channel.Put(newKeyFrame(0, 1))

	copied := channel.Copy()
	bf, _ := copied.Get(0)
	bf.Position = mmath.NewVec3(99, 0, 0)

	original, _ := channel.Get(0)
	if original.Position.X != 1 {
		t.Fatalf("original should be unchanged: %v", original.Position)
	}
}

func TestMotionCopyDeepCopiesPassthrough(t *testing.T) {
	m := NewMotion("dance.vmd")
	m.ModelName = "初音ミク"
	m.AppendBoneFrame("センター", newKeyFrame(0, 1))
	m.MorphFrames = []MorphFrame{{Name: "あ", Index: 3, Ratio: 0.5}}
	m.IkFrames = []IkFrame{{Index: 0, Visible: true, Iks: []IkEnabled{{Name: "左足ＩＫ", Enabled: true}}}}
	m.CameraFrames = []CameraFrame{{Index: 1, Distance: -45, ViewOfAngle: 30}}
	m.LightFrames = []LightFrame{{Index: 2, Color: mmath.NewVec3(0.6, 0.6, 0.6)}}
	m.ShadowFrames = []ShadowFrame{{Index: 4, Mode: 1, Distance: 0.1}}

	copied, err := m.Copy()
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	if diff := cmp.Diff(m.MorphFrames, copied.MorphFrames); diff != "" {
		t.Fatalf("morph mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m.IkFrames, copied.IkFrames); diff != "" {
		t.Fatalf("ik mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(m.CameraFrames, copied.CameraFrames); diff != "" {
		t.Fatalf("camera mismatch (-want +got):\n%s", diff)
	}

	copied.IkFrames[0].Iks[0].Enabled = false
	if !m.IkFrames[0].Iks[0].Enabled {
		t.Fatalf("ik list should be deep copied")
	}
	copiedBf, _ := copied.BoneChannel("センター").Get(0)
	copiedBf.Key = false
	originalBf, _ := m.BoneChannel("センター").Get(0)
	if !originalBf.Key {
		t.Fatalf("bone frames should be deep copied")
	}
	if copied.ModelName != "初音ミク" {
		t.Fatalf("model name mismatch: %s", copied.ModelName)
	}
}

func TestMotionKeyBoneFramesInRegistrationOrder(t *testing.T) {
	m := NewMotion("")
	m.AppendBoneFrame("上半身", newKeyFrame(5, 0))
	m.AppendBoneFrame("センター", newKeyFrame(0, 0))
	hidden := newKeyFrame(7, 0)
	hidden.Key = false
	m.AppendBoneFrame("上半身", hidden)
	m.AppendBoneFrame("上半身", newKeyFrame(1, 0))

	got := []string{}
	for _, nbf := range m.KeyBoneFrames() {
		got = append(got, nbf.Name)
	}
	if diff := cmp.Diff([]string{"上半身", "上半身", "センター"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if m.MaxFrame() != 7 {
		t.Fatalf("max frame mismatch: %d", m.MaxFrame())
	}
}

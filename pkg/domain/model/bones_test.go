// 指示: miu200521358
package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
)

// newTestBones は子が親より前に並ぶボーン一覧を生成する。
func newTestBones() *Bones {
	bones := NewBones()
	bones.Append(NewBone(0, "左ひじ", 2))
	bones.Append(NewBone(1, "センター", -1))
	bones.Append(NewBone(2, "左腕", 3))
	bones.Append(NewBone(3, "上半身", 1))
	twist := NewBone(4, "左腕捩", 2)
	twist.FixedAxis = mmath.NewVec3(0.8, -0.6, 0)
	bones.Append(twist)
	return bones
}

func TestBonesHierarchyOrderPutsParentsFirst(t *testing.T) {
	bones := newTestBones()

	names := []string{}
	for _, bone := range bones.HierarchyOrder() {
		names = append(names, bone.Name)
	}
	want := []string{"センター", "上半身", "左腕", "左ひじ", "左腕捩"}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestBonesHierarchyOrderSurvivesCycle(t *testing.T) {
	bones := NewBones()
	bones.Append(NewBone(0, "A", 1))
	bones.Append(NewBone(1, "B", 0))

	if got := len(bones.HierarchyOrder()); got != 2 {
		t.Fatalf("cycle should still order all bones: %d", got)
	}
}

func TestBonesChildren(t *testing.T) {
	bones := newTestBones()
	arm, ok := bones.GetByName("左腕")
	if !ok {
		t.Fatalf("arm not found")
	}

	children := bones.Children(arm.Index)
	if len(children) != 2 {
		t.Fatalf("children count mismatch: %d", len(children))
	}
	if children[0].Name != "左ひじ" || children[1].Name != "左腕捩" {
		t.Fatalf("children mismatch: %s, %s", children[0].Name, children[1].Name)
	}
	if children[0].IsAxisLimited() || !children[1].IsAxisLimited() {
		t.Fatalf("axis limitation mismatch")
	}
}

func TestBonesCopyIsIndependent(t *testing.T) {
	bones := newTestBones()
	copied, err := bones.Copy()
	if err != nil {
		t.Fatalf("copy failed: %v", err)
	}
	bone, _ := copied.GetByName("左腕捩")
	bone.FixedAxis = mmath.ZERO_VEC3

	original, _ := bones.GetByName("左腕捩")
	if !original.IsAxisLimited() {
		t.Fatalf("original should keep fixed axis")
	}
	if copied.Len() != bones.Len() {
		t.Fatalf("len mismatch: %d", copied.Len())
	}
}

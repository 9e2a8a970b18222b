// 指示: miu200521358
package vmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_common"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/merr"
)

func newSampleMotion() *motion.Motion {
	m := motion.NewMotion("sample.vmd")
	m.ModelName = "初音ミク"

	first := motion.NewBoneFrame(0)
	first.Position = mmath.NewVec3(1.5, -2, 0.25)
	first.Rotation = mmath.NewQuaternionByValues(0, 0, 0.5, 0.5)
	first.Key = true
	m.AppendBoneFrame("センター", first)

	transient := motion.NewBoneFrame(5)
	m.AppendBoneFrame("センター", transient)

	last := motion.NewBoneFrame(10)
	last.Position = mmath.NewVec3(3, 0, -1)
	last.Curves.Encode(motion.CURVE_TRANSLATE_X, motion.Curve{X1: 64, Y1: 0, X2: 127, Y2: 64})
	last.Curves.Encode(motion.CURVE_ROTATE, motion.Curve{X1: 10, Y1: 30, X2: 90, Y2: 120})
	last.Key = true
	m.AppendBoneFrame("センター", last)

	long := motion.NewBoneFrame(3)
	long.Key = true
	m.AppendBoneFrame("右腕捩じり補助ボーン", long)

	m.MorphFrames = []motion.MorphFrame{{Name: "あ", Index: 2, Ratio: 0.5}}
	m.CameraFrames = []motion.CameraFrame{{
		Index:         1,
		Distance:      -45,
		Position:      mmath.NewVec3(0, 10, 0),
		Rotation:      mmath.NewVec3(0.5, 0, 0),
		Curves:        [24]byte{20, 107, 20, 107},
		ViewOfAngle:   30,
		IsPerspective: true,
	}}
	m.LightFrames = []motion.LightFrame{{Index: 0, Color: mmath.NewVec3(0.5, 0.5, 0.5), Position: mmath.NewVec3(-0.5, -1, 0.5)}}
	m.ShadowFrames = []motion.ShadowFrame{{Index: 0, Mode: 1, Distance: 0.125}}
	m.IkFrames = []motion.IkFrame{{
		Index:   0,
		Visible: true,
		Iks:     []motion.IkEnabled{{Name: "左足ＩＫ", Enabled: false}, {Name: "右足ＩＫ", Enabled: true}},
	}}
	return m
}

func TestVmdRepositorySaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "sample.vmd")
	repo := NewVmdRepository()
	source := newSampleMotion()

	if err := repo.Save(path, source); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := repo.Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if loaded.ModelName != "初音ミク" {
		t.Fatalf("model name mismatch: %q", loaded.ModelName)
	}
	if diff := cmp.Diff([]string{"センター", "右腕捩じり補助"}, loaded.BoneNames()); diff != "" {
		t.Fatalf("bone names mismatch (-want +got):\n%s", diff)
	}

	center := loaded.BoneChannel("センター")
	if diff := cmp.Diff([]int{0, 10}, center.Indexes()); diff != "" {
		t.Fatalf("only key frames should be written (-want +got):\n%s", diff)
	}
	for _, index := range []int{0, 10} {
		want, _ := source.BoneChannel("センター").Get(index)
		got, _ := center.Get(index)
		if !got.Key {
			t.Fatalf("loaded frame %d should be a key", index)
		}
		if !got.Position.NearEquals(want.Position, 1e-6) || !got.Rotation.NearEquals(want.Rotation, 1e-6) {
			t.Fatalf("frame %d pose mismatch: got=%+v want=%+v", index, got, want)
		}
		if got.Curves != want.Curves {
			t.Fatalf("frame %d curves mismatch", index)
		}
	}
	lastLoaded, _ := center.Get(10)
	if curve := lastLoaded.Curves.Decode(motion.CURVE_ROTATE); curve != (motion.Curve{X1: 10, Y1: 30, X2: 90, Y2: 120}) {
		t.Fatalf("rotation curve mismatch: %+v", curve)
	}

	if diff := cmp.Diff(source.MorphFrames, loaded.MorphFrames); diff != "" {
		t.Fatalf("morph frames mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(source.CameraFrames, loaded.CameraFrames); diff != "" {
		t.Fatalf("camera frames mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(source.LightFrames, loaded.LightFrames); diff != "" {
		t.Fatalf("light frames mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(source.ShadowFrames, loaded.ShadowFrames); diff != "" {
		t.Fatalf("shadow frames mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(source.IkFrames, loaded.IkFrames); diff != "" {
		t.Fatalf("ik frames mismatch (-want +got):\n%s", diff)
	}
}

func TestVmdRepositoryLoadsLegacyHeaderWithoutOptionalSections(t *testing.T) {
	w := io_common.NewBinaryWriter()
	w.WriteFixedBytes([]byte(vmdLegacySignature), vmdHeaderSize)
	w.WriteFixedBytes(encodeName("ミク", vmdLegacyModelNameSize), vmdLegacyModelNameSize)
	w.WriteUint32(1)
	w.WriteFixedBytes(encodeName("頭", vmdBoneNameSize), vmdBoneNameSize)
	w.WriteUint32(7)
	w.WriteVec3(mmath.NewVec3(0, 1, 0))
	for _, v := range []float64{0, 0, 0, 1} {
		w.WriteFloat32(v)
	}
	block := motion.NewCurveBlock()
	w.WriteBytes(block[:])

	path := filepath.Join(t.TempDir(), "legacy.vmd")
	if err := os.WriteFile(path, w.Bytes(), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	loaded, err := NewVmdRepository().Load(path)
	if err != nil {
		t.Fatalf("legacy load failed: %v", err)
	}
	if loaded.ModelName != "ミク" {
		t.Fatalf("model name mismatch: %q", loaded.ModelName)
	}
	head, ok := loaded.BoneChannel("頭").Get(7)
	if !ok || head.Position.Y != 1 || !head.Key {
		t.Fatalf("bone frame mismatch: %+v", head)
	}
	if len(loaded.MorphFrames) != 0 || len(loaded.CameraFrames) != 0 {
		t.Fatalf("missing sections should load as empty")
	}
}

func TestVmdRepositoryLoadErrors(t *testing.T) {
	dir := t.TempDir()
	repo := NewVmdRepository()

	if _, err := repo.Load(filepath.Join(dir, "motion.txt")); merr.ExtractErrorID(err) != io_common.ErrorIDIoExtInvalid {
		t.Fatalf("expected ext invalid: %v", err)
	}
	if _, err := repo.Load(filepath.Join(dir, "missing.vmd")); merr.ExtractErrorID(err) != io_common.ErrorIDIoFileNotFound {
		t.Fatalf("expected not found: %v", err)
	}

	broken := filepath.Join(dir, "broken.vmd")
	full := buildVmd(newSampleMotion())
	// ボーンフレームの途中で切る
	if err := os.WriteFile(broken, full[:vmdHeaderSize+vmdModelNameSize+4+50], 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	_, err := repo.Load(broken)
	if merr.ExtractErrorID(err) != io_common.ErrorIDIoParseFailed || !merr.IsKind(err, merr.KindIo) {
		t.Fatalf("expected parse failed: %v", err)
	}

	notVmd := filepath.Join(dir, "not.vmd")
	if err := os.WriteFile(notVmd, make([]byte, 64), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if _, err := repo.Load(notVmd); merr.ExtractErrorID(err) != io_common.ErrorIDIoParseFailed {
		t.Fatalf("expected parse failed for bad header: %v", err)
	}
}

func TestEncodeNameTruncatesOnCharacterBoundary(t *testing.T) {
	encoded := encodeName("右腕捩じり補助ボーン", vmdBoneNameSize)
	if len(encoded) != 14 {
		t.Fatalf("expected 14 bytes, got %d", len(encoded))
	}
	if got := decodeName(encoded); got != "右腕捩じり補助" {
		t.Fatalf("unexpected decoded name: %q", got)
	}
	if got := decodeName(append(encodeName("センター", 15), 0, 0xFD, 0xFD)); got != "センター" {
		t.Fatalf("padding after terminator should be ignored: %q", got)
	}
}

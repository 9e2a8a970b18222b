// 指示: miu200521358
package minteractor

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_motion/vmd"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/model"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/smooth"
	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/merr"
)

type recordingReporter struct {
	events []SmoothProgressEventType
}

func (r *recordingReporter) ReportSmoothProgress(event SmoothProgressEvent) {
	r.events = append(r.events, event.Type)
}

type recordingSpreader struct {
	called int
	err    error
}

func (s *recordingSpreader) Spread(m *motion.Motion, bones *model.Bones) error {
	s.called++
	return s.err
}

func newKeyFrame(index int, position mmath.Vec3) *motion.BoneFrame {
	bf := motion.NewBoneFrame(index)
	bf.Position = position
	bf.Key = true
	return bf
}

func writeInputMotion(t *testing.T, dir string) string {
	t.Helper()
	m := motion.NewMotion("")
	m.ModelName = "テスト"
	for _, index := range []int{0, 10, 20} {
		m.AppendBoneFrame("センター", newKeyFrame(index, mmath.NewVec3(float64(index), 0, 0)))
	}
	m.AppendBoneFrame("頭", newKeyFrame(0, mmath.ZERO_VEC3))
	m.AppendBoneFrame("頭", newKeyFrame(30, mmath.UNIT_Y_VEC3))
	m.MorphFrames = []motion.MorphFrame{{Name: "まばたき", Index: 4, Ratio: 1}}

	path := filepath.Join(dir, "input.vmd")
	if err := vmd.NewVmdRepository().Save(path, m); err != nil {
		t.Fatalf("save input failed: %v", err)
	}
	return path
}

func noFilterConfig() smooth.Config {
	cfg := smooth.NewConfig()
	cfg.FilterPosition = false
	cfg.FilterRotation = false
	return cfg
}

func newTestUsecase(spreader *recordingSpreader) *SmoothUsecase {
	repo := vmd.NewVmdRepository()
	deps := SmoothUsecaseDeps{MotionReader: repo, MotionWriter: repo}
	if spreader != nil {
		deps.RotationSpreader = spreader
	}
	return NewSmoothUsecase(deps)
}

func TestSmoothUsecaseSmoothWritesOutput(t *testing.T) {
	dir := t.TempDir()
	inPath := writeInputMotion(t, dir)
	outPath := filepath.Join(dir, "out", "smoothed.vmd")
	reporter := &recordingReporter{}

	result, err := newTestUsecase(nil).Smooth(SmoothRequest{
		InputPath:        inPath,
		OutputPath:       outPath,
		Config:           noFilterConfig(),
		ProgressReporter: reporter,
	})
	if err != nil {
		t.Fatalf("smooth failed: %v", err)
	}
	if result.OutputPath != outPath {
		t.Fatalf("output path mismatch: %s", result.OutputPath)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("output not found: %v", err)
	}

	saved, err := vmd.NewVmdRepository().Load(outPath)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	center := saved.BoneChannel("センター")
	if center.KeyCount() > 3 {
		t.Fatalf("linear motion should merge to at most 3 keys: %d", center.KeyCount())
	}
	for _, index := range []int{0, 20} {
		bf, ok := center.Get(index)
		if !ok {
			t.Fatalf("endpoint %d missing", index)
		}
		if !bf.Position.NearEquals(mmath.NewVec3(float64(index), 0, 0), 1e-4) {
			t.Fatalf("endpoint %d moved: %+v", index, bf.Position)
		}
	}
	if diff := cmp.Diff([]int{0, 30}, saved.BoneChannel("頭").Indexes()); diff != "" {
		t.Fatalf("sparse bone should be untouched (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]motion.MorphFrame{{Name: "まばたき", Index: 4, Ratio: 1}}, saved.MorphFrames); diff != "" {
		t.Fatalf("morph frames should pass through (-want +got):\n%s", diff)
	}

	head, ok := result.Report.Bone("頭")
	if !ok || !head.Skipped {
		t.Fatalf("head should be reported as skipped: %+v", head)
	}

	want := []SmoothProgressEventType{
		SmoothProgressEventTypeInputValidated,
		SmoothProgressEventTypeOutputPathResolved,
		SmoothProgressEventTypeMotionLoaded,
		SmoothProgressEventTypeSmoothed,
		SmoothProgressEventTypeSaved,
	}
	if diff := cmp.Diff(want, reporter.events); diff != "" {
		t.Fatalf("progress events mismatch (-want +got):\n%s", diff)
	}
}

func TestSmoothUsecaseRunsSpreaderOnlyWithBones(t *testing.T) {
	dir := t.TempDir()
	inPath := writeInputMotion(t, dir)

	spreader := &recordingSpreader{}
	uc := newTestUsecase(spreader)
	if _, err := uc.Smooth(SmoothRequest{InputPath: inPath, OutputPath: filepath.Join(dir, "a.vmd"), Config: noFilterConfig()}); err != nil {
		t.Fatalf("smooth failed: %v", err)
	}
	if spreader.called != 0 {
		t.Fatalf("spreader should not run without bones")
	}

	bones := model.NewBones()
	bones.Append(model.NewBone(0, "センター", -1))
	bones.Append(model.NewBone(1, "頭", 0))
	if _, err := uc.Smooth(SmoothRequest{InputPath: inPath, OutputPath: filepath.Join(dir, "b.vmd"), Config: noFilterConfig(), Bones: bones}); err != nil {
		t.Fatalf("smooth failed: %v", err)
	}
	if spreader.called != 1 {
		t.Fatalf("spreader should run once: %d", spreader.called)
	}

	spreader.err = errors.New("spread failed")
	if _, err := uc.Smooth(SmoothRequest{InputPath: inPath, OutputPath: filepath.Join(dir, "c.vmd"), Config: noFilterConfig(), Bones: bones}); !errors.Is(err, spreader.err) {
		t.Fatalf("spreader error should be returned: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "c.vmd")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("output should not be written when spreading fails: %v", err)
	}
}

func TestSmoothUsecaseRejectsInvalidRequests(t *testing.T) {
	uc := newTestUsecase(nil)

	if _, err := uc.Smooth(SmoothRequest{Config: smooth.NewConfig()}); err == nil {
		t.Fatalf("missing input should fail")
	}
	if _, err := uc.Smooth(SmoothRequest{InputPath: "a.vmd", OutputPath: "a.pmx", Config: smooth.NewConfig()}); err == nil {
		t.Fatalf("non-vmd output should fail")
	}
	if _, err := uc.Smooth(SmoothRequest{InputPath: "a.vmd", Config: smooth.Config{}}); !merr.IsKind(err, merr.KindInvalidConfig) {
		t.Fatalf("zero config should fail validation: %v", err)
	}

	empty := NewSmoothUsecase(SmoothUsecaseDeps{})
	if _, err := empty.Smooth(SmoothRequest{InputPath: "a.vmd", OutputPath: "b.vmd", Config: smooth.NewConfig()}); err == nil {
		t.Fatalf("missing reader should fail")
	}
}

// 指示: miu200521358
// Package smooth はボーンモーションの打ち込み・平滑化・キー間引きを行う。
package smooth

import (
	"sort"

	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/model"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
)

// BoneReport は1ボーン分の処理結果を表す。
type BoneReport struct {
	BoneName        string
	Skipped         bool
	SeamExempt      bool
	KeysBefore      int
	KeysAfter       int
	Synthesized     int
	Filtered        int
	Merged          int
	PassesCompleted int
	// Aborted はボーン単位で中断したパスのエラー。
	Aborted []error
	// Outcomes は当てはめ不採用・円弧退化など処理を継続した結果。
	Outcomes []error
	// Redistributed は回転差分を打ち消した子ボーン名と補正フレーム数。
	Redistributed map[string]int
	// ExemptChildren は軸制限のため打ち消しを行わなかった子ボーン名。
	ExemptChildren []string
}

// Report は平滑化全体の処理結果を表す。
type Report struct {
	Bones []*BoneReport
}

// Bone はボーン名から処理結果を返す。
func (r *Report) Bone(boneName string) (*BoneReport, bool) {
	for _, br := range r.Bones {
		if br.BoneName == boneName {
			return br, true
		}
	}
	return nil, false
}

// AbortedCount は中断したパスの総数を返す。
func (r *Report) AbortedCount() int {
	count := 0
	for _, br := range r.Bones {
		count += len(br.Aborted)
	}
	return count
}

// Engine はモーション全体の平滑化を行う。
type Engine struct {
	cfg      Config
	observer Observer
}

// NewEngine は設定を検証してエンジンを生成する。observerがnilなら通知しない。
func NewEngine(cfg Config, observer Observer) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if observer == nil {
		observer = NopObserver{}
	}
	return &Engine{cfg: cfg, observer: observer}, nil
}

// Config は設定を返す。
func (e *Engine) Config() Config {
	return e.cfg
}

// Run は入力モーションを複製して平滑化した結果を返す。入力は変更しない。
// bonesがnilならボーン階層なし(全ボーン制限なし・打ち消しなし)として扱う。
func (e *Engine) Run(input *motion.Motion, bones *model.Bones) (*motion.Motion, *Report, error) {
	output, err := input.Copy()
	if err != nil {
		return nil, nil, err
	}
	if bones == nil {
		bones = model.NewBones()
	}

	report := &Report{}
	redistributor := NewRotationRedistributor(bones)
	channelOf := func(boneName string) (*motion.BoneChannel, bool) {
		if !output.ContainsBone(boneName) {
			return nil, false
		}
		return output.BoneChannel(boneName), true
	}

	order := ProcessingOrder(output, bones)
	walkers := make([]*segmentWalker, 0, len(order))
	for _, boneName := range order {
		bone, _ := bones.GetByName(boneName)
		walker := newSegmentWalker(e.cfg, e.observer, output.BoneChannel(boneName), bone)
		report.Bones = append(report.Bones, walker.run())
		walkers = append(walkers, walker)
	}

	// 子ボーン自身の打ち込み・結合が済んでから親の差分を打ち消す
	for i, boneName := range order {
		if _, ok := bones.GetByName(boneName); !ok {
			continue
		}
		walker, br := walkers[i], report.Bones[i]
		result := redistributor.Redistribute(boneName, walker.deltas, channelOf)
		if len(result.Adjusted) > 0 {
			br.Redistributed = result.Adjusted
			for childName := range result.Adjusted {
				if child, ok := report.Bone(childName); ok {
					child.KeysAfter = output.BoneChannel(childName).KeyCount()
				}
			}
		}
		if walker.deltas.Changed() {
			br.ExemptChildren = result.Exempt
			for _, childName := range result.Exempt {
				e.observer.OnChildExempt(boneName, childName)
			}
		}
	}
	return output, report, nil
}

// ProcessingOrder はモーション内のボーン名を親→子の順に返す。
// モデルに無いボーンはその後ろに名前順で並べる。
func ProcessingOrder(m *motion.Motion, bones *model.Bones) []string {
	order := make([]string, 0, len(m.BoneNames()))
	seen := map[string]struct{}{}
	if bones != nil {
		for _, bone := range bones.HierarchyOrder() {
			if m.ContainsBone(bone.Name) {
				order = append(order, bone.Name)
				seen[bone.Name] = struct{}{}
			}
		}
	}

	rest := make([]string, 0)
	for _, name := range m.BoneNames() {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

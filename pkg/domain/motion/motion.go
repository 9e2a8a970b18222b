// 指示: miu200521358
// Package motion はボーンモーションと補間曲線を表す。
package motion

import (
	"fmt"
	"sort"

	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/mmath"
	"github.com/tiendc/go-deepcopy"
)

// MorphFrame はモーフフレームを表す。
type MorphFrame struct {
	Name  string
	Index int
	Ratio float64
}

// CameraFrame はカメラフレームを表す。
type CameraFrame struct {
	Index         int
	Distance      float64
	Position      mmath.Vec3
	// Rotation はファイル上のラジアン値をそのまま保持する。
	Rotation      mmath.Vec3
	Curves        [24]byte
	ViewOfAngle   int
	IsPerspective bool
}

// LightFrame は照明フレームを表す。
type LightFrame struct {
	Index    int
	Color    mmath.Vec3
	Position mmath.Vec3
}

// ShadowFrame はセルフ影フレームを表す。
type ShadowFrame struct {
	Index    int
	Mode     int
	Distance float64
}

// IkEnabled はIKボーン1本分のON/OFFを表す。
type IkEnabled struct {
	Name    string
	Enabled bool
}

// IkFrame は表示・IK切替フレームを表す。
type IkFrame struct {
	Index   int
	Visible bool
	Iks     []IkEnabled
}

// Motion はモーション全体を表す。
type Motion struct {
	Path         string
	ModelName    string
	MorphFrames  []MorphFrame
	CameraFrames []CameraFrame
	LightFrames  []LightFrame
	ShadowFrames []ShadowFrame
	IkFrames     []IkFrame

	boneNames    []string
	boneChannels map[string]*BoneChannel
}

// NewMotion はモーションを生成する。
func NewMotion(path string) *Motion {
	return &Motion{
		Path:         path,
		boneChannels: map[string]*BoneChannel{},
	}
}

// AppendBoneFrame はボーンフレームを登録する。
func (m *Motion) AppendBoneFrame(boneName string, bf *BoneFrame) {
	m.BoneChannel(boneName).Put(bf)
}

// BoneChannel はボーンチャネルを返す。未登録なら生成する。
func (m *Motion) BoneChannel(boneName string) *BoneChannel {
	if channel, ok := m.boneChannels[boneName]; ok {
		return channel
	}
	channel := NewBoneChannel(boneName)
	m.boneChannels[boneName] = channel
	m.boneNames = append(m.boneNames, boneName)
	return channel
}

// ContainsBone はボーンチャネルが登録済みか判定する。
func (m *Motion) ContainsBone(boneName string) bool {
	_, ok := m.boneChannels[boneName]
	return ok
}

// SetBoneChannel はボーンチャネルを差し替える。
func (m *Motion) SetBoneChannel(channel *BoneChannel) {
	if channel == nil {
		return
	}
	if _, ok := m.boneChannels[channel.Name()]; !ok {
		m.boneNames = append(m.boneNames, channel.Name())
	}
	m.boneChannels[channel.Name()] = channel
}

// BoneNames は登録順のボーン名を返す。
func (m *Motion) BoneNames() []string {
	names := make([]string, len(m.boneNames))
	copy(names, m.boneNames)
	return names
}

// BoneFrameCount は全ボーンの保持フレーム数を返す。
func (m *Motion) BoneFrameCount() int {
	count := 0
	for _, channel := range m.boneChannels {
		count += channel.Len()
	}
	return count
}

// MaxFrame は全ボーン・モーフの最終フレーム番号を返す。
func (m *Motion) MaxFrame() int {
	maxFrame := 0
	for _, channel := range m.boneChannels {
		if last, ok := channel.Last(); ok && last.Index > maxFrame {
			maxFrame = last.Index
		}
	}
	for _, mf := range m.MorphFrames {
		if mf.Index > maxFrame {
			maxFrame = mf.Index
		}
	}
	return maxFrame
}

// KeyBoneFrames はキーのボーンフレームをボーン登録順・フレーム昇順で返す。
func (m *Motion) KeyBoneFrames() []NamedBoneFrame {
	frames := make([]NamedBoneFrame, 0, m.BoneFrameCount())
	for _, name := range m.boneNames {
		for _, bf := range m.boneChannels[name].Keys() {
			frames = append(frames, NamedBoneFrame{Name: name, Frame: bf})
		}
	}
	return frames
}

// NamedBoneFrame はボーン名付きのボーンフレームを表す。
type NamedBoneFrame struct {
	Name  string
	Frame *BoneFrame
}

// SortMorphFrames はモーフフレームを名前・フレーム順に並べる。
func (m *Motion) SortMorphFrames() {
	sort.SliceStable(m.MorphFrames, func(i, j int) bool {
		if m.MorphFrames[i].Name != m.MorphFrames[j].Name {
			return m.MorphFrames[i].Name < m.MorphFrames[j].Name
		}
		return m.MorphFrames[i].Index < m.MorphFrames[j].Index
	})
}

// Copy はモーションの深いコピーを返す。
func (m *Motion) Copy() (*Motion, error) {
	copied := NewMotion(m.Path)
	copied.ModelName = m.ModelName
	if err := deepcopy.Copy(&copied.MorphFrames, m.MorphFrames); err != nil {
		return nil, fmt.Errorf("モーフフレームのコピーに失敗しました: %w", err)
	}
	if err := deepcopy.Copy(&copied.CameraFrames, m.CameraFrames); err != nil {
		return nil, fmt.Errorf("カメラフレームのコピーに失敗しました: %w", err)
	}
	if err := deepcopy.Copy(&copied.LightFrames, m.LightFrames); err != nil {
		return nil, fmt.Errorf("照明フレームのコピーに失敗しました: %w", err)
	}
	if err := deepcopy.Copy(&copied.ShadowFrames, m.ShadowFrames); err != nil {
		return nil, fmt.Errorf("セルフ影フレームのコピーに失敗しました: %w", err)
	}
	if err := deepcopy.Copy(&copied.IkFrames, m.IkFrames); err != nil {
		return nil, fmt.Errorf("IKフレームのコピーに失敗しました: %w", err)
	}
	for _, name := range m.boneNames {
		copied.SetBoneChannel(m.boneChannels[name].Copy())
	}
	return copied, nil
}

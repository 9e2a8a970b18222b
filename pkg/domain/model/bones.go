// 指示: miu200521358
package model

import (
	"fmt"
	"sort"

	"github.com/tiendc/go-deepcopy"
)

// Bones はボーン一覧を表す。
type Bones struct {
	values    []*Bone
	nameIndex map[string]int
}

// NewBones はボーン一覧を生成する。
func NewBones() *Bones {
	return &Bones{nameIndex: map[string]int{}}
}

// Append はボーンを末尾に追加する。Indexは追加位置で上書きする。
func (bs *Bones) Append(bone *Bone) {
	if bone == nil {
		return
	}
	bone.Index = len(bs.values)
	bs.values = append(bs.values, bone)
	if _, exists := bs.nameIndex[bone.Name]; !exists {
		bs.nameIndex[bone.Name] = bone.Index
	}
}

// Len はボーン数を返す。
func (bs *Bones) Len() int {
	if bs == nil {
		return 0
	}
	return len(bs.values)
}

// Get はindexのボーンを返す。
func (bs *Bones) Get(index int) (*Bone, bool) {
	if bs == nil || index < 0 || index >= len(bs.values) {
		return nil, false
	}
	return bs.values[index], true
}

// GetByName は名前からボーンを返す。
func (bs *Bones) GetByName(name string) (*Bone, bool) {
	if bs == nil {
		return nil, false
	}
	index, ok := bs.nameIndex[name]
	if !ok {
		return nil, false
	}
	return bs.values[index], true
}

// Values は全ボーンをindex順で返す。
func (bs *Bones) Values() []*Bone {
	if bs == nil {
		return nil
	}
	values := make([]*Bone, len(bs.values))
	copy(values, bs.values)
	return values
}

// Children は直接の子ボーンをindex順で返す。
func (bs *Bones) Children(parentIndex int) []*Bone {
	children := make([]*Bone, 0)
	if bs == nil {
		return children
	}
	for _, bone := range bs.values {
		if bone.ParentIndex == parentIndex && bone.Index != parentIndex {
			children = append(children, bone)
		}
	}
	return children
}

// HierarchyOrder は親が必ず子より先に来る順序でボーンを返す。
// 同じ深さ内はindex順。親が存在しない・循環している場合はルート扱い。
func (bs *Bones) HierarchyOrder() []*Bone {
	if bs == nil {
		return nil
	}
	depths := make(map[int]int, len(bs.values))
	for _, bone := range bs.values {
		depths[bone.Index] = bs.depth(bone)
	}
	ordered := bs.Values()
	sort.SliceStable(ordered, func(i, j int) bool {
		if depths[ordered[i].Index] != depths[ordered[j].Index] {
			return depths[ordered[i].Index] < depths[ordered[j].Index]
		}
		return ordered[i].Index < ordered[j].Index
	})
	return ordered
}

// depth はルートからの深さを返す。
func (bs *Bones) depth(bone *Bone) int {
	visited := map[int]struct{}{bone.Index: {}}
	depth := 0
	current := bone
	for current.HasParent() {
		parent, ok := bs.Get(current.ParentIndex)
		if !ok {
			break
		}
		if _, seen := visited[parent.Index]; seen {
			break
		}
		visited[parent.Index] = struct{}{}
		depth++
		current = parent
	}
	return depth
}

// Copy はボーン一覧の深いコピーを返す。
func (bs *Bones) Copy() (*Bones, error) {
	copied := NewBones()
	for _, bone := range bs.Values() {
		var b Bone
		if err := deepcopy.Copy(&b, *bone); err != nil {
			return nil, fmt.Errorf("ボーンのコピーに失敗しました: %w", err)
		}
		copied.values = append(copied.values, &b)
		if _, exists := copied.nameIndex[b.Name]; !exists {
			copied.nameIndex[b.Name] = b.Index
		}
	}
	return copied, nil
}

// Model はモデル情報のうちボーン階層を表す。
type Model struct {
	Path  string
	Name  string
	Bones *Bones
}

// NewModel はモデルを生成する。
func NewModel(path string) *Model {
	return &Model{Path: path, Bones: NewBones()}
}

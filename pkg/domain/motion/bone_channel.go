// 指示: miu200521358
package motion

import "sort"

// BoneChannel は1ボーン分のフレーム番号→ボーンフレームの疎な対応を表す。
type BoneChannel struct {
	name    string
	frames  map[int]*BoneFrame
	indexes []int
}

// NewBoneChannel はボーンチャネルを生成する。
func NewBoneChannel(name string) *BoneChannel {
	return &BoneChannel{
		name:   name,
		frames: map[int]*BoneFrame{},
	}
}

// Name はボーン名を返す。
func (c *BoneChannel) Name() string {
	return c.name
}

// Len は保持フレーム数を返す。
func (c *BoneChannel) Len() int {
	return len(c.indexes)
}

// Put はフレームを登録する。同じフレーム番号があれば置き換える。
func (c *BoneChannel) Put(bf *BoneFrame) {
	if bf == nil {
		return
	}
	if _, exists := c.frames[bf.Index]; !exists {
		i := sort.SearchInts(c.indexes, bf.Index)
		c.indexes = append(c.indexes, 0)
		copy(c.indexes[i+1:], c.indexes[i:])
		c.indexes[i] = bf.Index
	}
	c.frames[bf.Index] = bf
}

// Get は登録済みフレームをそのまま返す。
func (c *BoneChannel) Get(index int) (*BoneFrame, bool) {
	bf, ok := c.frames[index]
	return bf, ok
}

// Indexes は登録済みフレーム番号を昇順で返す。
func (c *BoneChannel) Indexes() []int {
	indexes := make([]int, len(c.indexes))
	copy(indexes, c.indexes)
	return indexes
}

// First は先頭フレームを返す。
func (c *BoneChannel) First() (*BoneFrame, bool) {
	if len(c.indexes) == 0 {
		return nil, false
	}
	return c.frames[c.indexes[0]], true
}

// Last は末尾フレームを返す。
func (c *BoneChannel) Last() (*BoneFrame, bool) {
	if len(c.indexes) == 0 {
		return nil, false
	}
	return c.frames[c.indexes[len(c.indexes)-1]], true
}

// NextStored はfrom以降で最初に登録されたフレームを返す(キー以外も含む)。
func (c *BoneChannel) NextStored(from int) (*BoneFrame, bool) {
	i := sort.SearchInts(c.indexes, from)
	if i >= len(c.indexes) {
		return nil, false
	}
	return c.frames[c.indexes[i]], true
}

// NextKey はfrom以降で最初のキーを返す。
func (c *BoneChannel) NextKey(from int) (*BoneFrame, bool) {
	for i := sort.SearchInts(c.indexes, from); i < len(c.indexes); i++ {
		if bf := c.frames[c.indexes[i]]; bf.Key {
			return bf, true
		}
	}
	return nil, false
}

// PrevKey はbefore未満で最後のキーを返す。
func (c *BoneChannel) PrevKey(before int) (*BoneFrame, bool) {
	for i := sort.SearchInts(c.indexes, before) - 1; i >= 0; i-- {
		if bf := c.frames[c.indexes[i]]; bf.Key {
			return bf, true
		}
	}
	return nil, false
}

// LastKey は最後のキーを返す。
func (c *BoneChannel) LastKey() (*BoneFrame, bool) {
	for i := len(c.indexes) - 1; i >= 0; i-- {
		if bf := c.frames[c.indexes[i]]; bf.Key {
			return bf, true
		}
	}
	return nil, false
}

// Keys はキーのみを昇順で返す。
func (c *BoneChannel) Keys() []*BoneFrame {
	keys := make([]*BoneFrame, 0, len(c.indexes))
	for _, index := range c.indexes {
		if bf := c.frames[index]; bf.Key {
			keys = append(keys, bf)
		}
	}
	return keys
}

// KeyCount はキー数を返す。
func (c *BoneChannel) KeyCount() int {
	count := 0
	for _, bf := range c.frames {
		if bf.Key {
			count++
		}
	}
	return count
}

// ForEach は昇順に全フレームを走査する。fnがfalseを返すと中断する。
func (c *BoneChannel) ForEach(fn func(bf *BoneFrame) bool) {
	for _, index := range c.indexes {
		if !fn(c.frames[index]) {
			return
		}
	}
}

// Copy は全フレームを独立コピーしたチャネルを返す。
func (c *BoneChannel) Copy() *BoneChannel {
	copied := NewBoneChannel(c.name)
	for _, index := range c.indexes {
		copied.Put(c.frames[index].Copy())
	}
	return copied
}

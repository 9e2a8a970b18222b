// 指示: miu200521358
package smooth

// Observer は平滑化の進捗通知を受け取る。
type Observer interface {
	// OnPass はボーンのパス開始を通知する。passは0始まり。
	OnPass(boneName string, pass int)
	// OnBoneSkipped はキー不足で処理しなかったボーンを通知する。
	OnBoneSkipped(boneName string, keyCount int)
	// OnPassAborted はボーン単位で中断したパスを通知する。
	OnPassAborted(boneName string, pass int, err error)
	// OnOutcome は当てはめ不採用・円弧退化など処理継続できた結果を通知する。
	OnOutcome(boneName string, pass int, outcome error)
	// OnChildExempt は軸制限のため回転差分を打ち消さなかった子ボーンを通知する。
	OnChildExempt(parentName, childName string)
}

// NopObserver は何もしないObserver。
type NopObserver struct{}

// OnPass は何もしない。
func (NopObserver) OnPass(string, int) {}

// OnBoneSkipped は何もしない。
func (NopObserver) OnBoneSkipped(string, int) {}

// OnPassAborted は何もしない。
func (NopObserver) OnPassAborted(string, int, error) {}

// OnOutcome は何もしない。
func (NopObserver) OnOutcome(string, int, error) {}

// OnChildExempt は何もしない。
func (NopObserver) OnChildExempt(string, string) {}

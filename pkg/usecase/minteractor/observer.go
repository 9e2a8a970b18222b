// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/smooth"
	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/logging"
)

// LogObserver は平滑化の進捗通知をログへ流す。
type LogObserver struct {
	logger *logging.Logger
}

// NewLogObserver はLogObserverを生成する。loggerがnilなら既定ロガーを使う。
func NewLogObserver(logger *logging.Logger) *LogObserver {
	return &LogObserver{logger: logger}
}

func (o *LogObserver) current() *logging.Logger {
	if o.logger != nil {
		return o.logger
	}
	return logging.DefaultLogger()
}

// OnPass はパス開始を詳細ログに出す。
func (o *LogObserver) OnPass(boneName string, pass int) {
	if logger := o.current(); logger != nil {
		logger.Verbose(logging.VERBOSE_INDEX_SMOOTH, messages.LogPassStart, boneName, pass+1)
	}
}

// OnBoneSkipped は処理しなかったボーンを詳細ログに出す。
func (o *LogObserver) OnBoneSkipped(boneName string, keyCount int) {
	if logger := o.current(); logger != nil {
		logger.Verbose(logging.VERBOSE_INDEX_SMOOTH, messages.LogBoneSkipped, boneName, keyCount)
	}
}

// OnPassAborted は中断したパスを警告ログに出す。
func (o *LogObserver) OnPassAborted(boneName string, pass int, err error) {
	if logger := o.current(); logger != nil {
		logger.Warn(messages.LogPassAborted, boneName, pass+1, err)
	}
}

// OnOutcome は当てはめ結果をデバッグログに出す。
func (o *LogObserver) OnOutcome(boneName string, pass int, outcome error) {
	if logger := o.current(); logger != nil {
		logger.Debug(messages.LogOutcome, boneName, pass+1, outcome)
	}
}

// OnChildExempt は打ち消し対象外の子ボーンをINFOログに出す。
func (o *LogObserver) OnChildExempt(parentName, childName string) {
	if logger := o.current(); logger != nil {
		logger.Info(messages.LogChildExempt, parentName, childName)
	}
}

// resolveObserver は未指定なら既定ロガーへ流すObserverを返す。
func resolveObserver(observer smooth.Observer) smooth.Observer {
	if observer != nil {
		return observer
	}
	return NewLogObserver(nil)
}

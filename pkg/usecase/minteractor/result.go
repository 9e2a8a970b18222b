// 指示: miu200521358
package minteractor

import (
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/model"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/smooth"
	"github.com/miu200521358/mu_vmd_smooth/pkg/usecase/port/moutput"
)

// SmoothProgressEventType は平滑化処理の進捗イベント種別を表す。
type SmoothProgressEventType string

const (
	// SmoothProgressEventTypeInputValidated は入力検証完了イベントを表す。
	SmoothProgressEventTypeInputValidated SmoothProgressEventType = "input_validated"
	// SmoothProgressEventTypeOutputPathResolved は出力パス解決完了イベントを表す。
	SmoothProgressEventTypeOutputPathResolved SmoothProgressEventType = "output_path_resolved"
	// SmoothProgressEventTypeMotionLoaded はモーション読込完了イベントを表す。
	SmoothProgressEventTypeMotionLoaded SmoothProgressEventType = "motion_loaded"
	// SmoothProgressEventTypeBonesLoaded はボーン階層読込完了イベントを表す。
	SmoothProgressEventTypeBonesLoaded SmoothProgressEventType = "bones_loaded"
	// SmoothProgressEventTypeSpreadCompleted は回転分散の前処理完了イベントを表す。
	SmoothProgressEventTypeSpreadCompleted SmoothProgressEventType = "spread_completed"
	// SmoothProgressEventTypeSmoothed は平滑化完了イベントを表す。
	SmoothProgressEventTypeSmoothed SmoothProgressEventType = "smoothed"
	// SmoothProgressEventTypeSaved は保存完了イベントを表す。
	SmoothProgressEventTypeSaved SmoothProgressEventType = "saved"
)

// SmoothProgressEvent は平滑化処理の進捗イベントを表す。
type SmoothProgressEvent struct {
	Type       SmoothProgressEventType
	BoneCount  int
	FrameCount int
	Path       string
}

// ISmoothProgressReporter は平滑化処理の進捗通知契約を表す。
type ISmoothProgressReporter interface {
	// ReportSmoothProgress は平滑化処理進捗を通知する。
	ReportSmoothProgress(event SmoothProgressEvent)
}

// SmoothRequest は平滑化要求を表す。
type SmoothRequest struct {
	InputPath  string
	ModelPath  string
	OutputPath string
	Config     smooth.Config
	// Motion が指定されていれば InputPath から読み込まない。
	Motion *motion.Motion
	// Bones が指定されていれば ModelPath から読み込まない。
	Bones            *model.Bones
	MotionReader     moutput.IMotionReader
	MotionWriter     moutput.IMotionWriter
	ModelReader      moutput.IModelReader
	Observer         smooth.Observer
	ProgressReporter ISmoothProgressReporter
}

// SmoothResult は平滑化結果を表す。
type SmoothResult struct {
	Motion     *motion.Motion
	Report     *smooth.Report
	OutputPath string
}

// reportProgress は通知先があれば進捗を通知する。
func reportProgress(reporter ISmoothProgressReporter, event SmoothProgressEvent) {
	if reporter == nil {
		return
	}
	reporter.ReportSmoothProgress(event)
}

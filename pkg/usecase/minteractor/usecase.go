// 指示: miu200521358
// Package minteractor はモーション平滑化のユースケースを提供する。
package minteractor

import "github.com/miu200521358/mu_vmd_smooth/pkg/usecase/port/moutput"

// SmoothUsecaseDeps は平滑化ユースケースの依存を表す。
type SmoothUsecaseDeps struct {
	MotionReader moutput.IMotionReader
	MotionWriter moutput.IMotionWriter
	ModelReader  moutput.IModelReader
	// RotationSpreader は任意。nilなら前処理を行わない。
	RotationSpreader moutput.IRotationSpreader
}

// SmoothUsecase はVMD読込から平滑化・保存までをまとめたユースケースを表す。
type SmoothUsecase struct {
	motionReader     moutput.IMotionReader
	motionWriter     moutput.IMotionWriter
	modelReader      moutput.IModelReader
	rotationSpreader moutput.IRotationSpreader
}

// NewSmoothUsecase は平滑化ユースケースを生成する。
func NewSmoothUsecase(deps SmoothUsecaseDeps) *SmoothUsecase {
	return &SmoothUsecase{
		motionReader:     deps.MotionReader,
		motionWriter:     deps.MotionWriter,
		modelReader:      deps.ModelReader,
		rotationSpreader: deps.RotationSpreader,
	}
}

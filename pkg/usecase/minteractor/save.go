// 指示: miu200521358
package minteractor

import (
	"fmt"
	"strings"

	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/model"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/smooth"
	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/logging"
	"github.com/miu200521358/mu_vmd_smooth/pkg/usecase/port/moutput"
)

// SaveMotion はVMDモーションを保存する。
func (uc *SmoothUsecase) SaveMotion(rep moutput.IMotionWriter, path string, m *motion.Motion) error {
	writer := rep
	if writer == nil {
		writer = uc.motionWriter
	}
	if writer == nil {
		return fmt.Errorf("モーション保存リポジトリが設定されていません")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("保存先パスが未指定です")
	}
	if m == nil {
		return fmt.Errorf("保存対象モーションが未設定です")
	}
	return writer.Save(path, m)
}

// PrepareSmooth は入力を解決し、平滑化前のモーションとボーン階層を返す。保存はしない。
func (uc *SmoothUsecase) PrepareSmooth(request SmoothRequest) (*motion.Motion, *model.Bones, string, error) {
	if strings.TrimSpace(request.InputPath) == "" && request.Motion == nil {
		return nil, nil, "", fmt.Errorf("入力VMDパスが未指定です")
	}
	reportProgress(request.ProgressReporter, SmoothProgressEvent{Type: SmoothProgressEventTypeInputValidated, Path: request.InputPath})

	outputPath, err := resolveVmdOutputPath(request.InputPath, request.OutputPath)
	if err != nil {
		return nil, nil, "", err
	}
	reportProgress(request.ProgressReporter, SmoothProgressEvent{Type: SmoothProgressEventTypeOutputPathResolved, Path: outputPath})

	m := request.Motion
	if m == nil {
		if m, err = uc.LoadMotion(request.MotionReader, request.InputPath); err != nil {
			return nil, nil, "", err
		}
	}
	reportProgress(request.ProgressReporter, SmoothProgressEvent{
		Type:       SmoothProgressEventTypeMotionLoaded,
		BoneCount:  len(m.BoneNames()),
		FrameCount: m.BoneFrameCount(),
		Path:       request.InputPath,
	})

	bones := request.Bones
	if bones == nil {
		if bones, err = uc.LoadBones(request.ModelReader, request.ModelPath); err != nil {
			return nil, nil, "", err
		}
	}
	if bones != nil {
		logInfo(messages.LogModelLoaded, request.ModelPath, bones.Len())
		reportProgress(request.ProgressReporter, SmoothProgressEvent{Type: SmoothProgressEventTypeBonesLoaded, BoneCount: bones.Len(), Path: request.ModelPath})
	} else {
		logInfo(messages.LogModelSkipped)
	}
	return m, bones, outputPath, nil
}

// Smooth はVMDを読み込み、平滑化して保存する。
func (uc *SmoothUsecase) Smooth(request SmoothRequest) (*SmoothResult, error) {
	engine, err := smooth.NewEngine(request.Config, resolveObserver(request.Observer))
	if err != nil {
		return nil, err
	}
	input, bones, outputPath, err := uc.PrepareSmooth(request)
	if err != nil {
		return nil, err
	}
	cfg := engine.Config()
	logInfo(messages.LogStart, request.InputPath, cfg.Passes, cfg.Circular, cfg.SeamSmoothing)

	if uc.rotationSpreader != nil && bones != nil {
		// 前処理はエンジンと同じく入力を変更しない
		spread, err := input.Copy()
		if err != nil {
			return nil, err
		}
		if err := uc.rotationSpreader.Spread(spread, bones); err != nil {
			return nil, fmt.Errorf("回転分散の前処理に失敗しました: %w", err)
		}
		input = spread
		logInfo(messages.LogSpreadDone)
		reportProgress(request.ProgressReporter, SmoothProgressEvent{Type: SmoothProgressEventTypeSpreadCompleted, BoneCount: bones.Len()})
	}

	output, report, err := engine.Run(input, bones)
	if err != nil {
		return nil, err
	}
	for _, br := range report.Bones {
		if br.Skipped {
			continue
		}
		logVerbose(messages.LogBoneDone, br.BoneName, br.KeysBefore, br.KeysAfter, br.Synthesized, br.Merged)
	}
	reportProgress(request.ProgressReporter, SmoothProgressEvent{
		Type:       SmoothProgressEventTypeSmoothed,
		BoneCount:  len(report.Bones),
		FrameCount: output.BoneFrameCount(),
	})

	if err := uc.SaveMotion(request.MotionWriter, outputPath, output); err != nil {
		return nil, err
	}
	logInfo(messages.LogSmoothSuccess, outputPath, len(report.Bones), report.AbortedCount())
	reportProgress(request.ProgressReporter, SmoothProgressEvent{Type: SmoothProgressEventTypeSaved, Path: outputPath})

	return &SmoothResult{Motion: output, Report: report, OutputPath: outputPath}, nil
}

// logInfo は既定ロガーがあればINFOログを出力する。
func logInfo(format string, params ...any) {
	if logger := logging.DefaultLogger(); logger != nil {
		logger.Info(format, params...)
	}
}

// logVerbose は平滑化詳細チャネルが有効なときだけ出力する。
func logVerbose(format string, params ...any) {
	if logger := logging.DefaultLogger(); logger != nil {
		logger.Verbose(logging.VERBOSE_INDEX_SMOOTH, format, params...)
	}
}

// 指示: miu200521358
package main

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_config"
	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_model/pmx"
	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_motion/vmd"
	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/model"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/smooth"
	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/logging"
	"github.com/miu200521358/mu_vmd_smooth/pkg/usecase/minteractor"
)

const (
	batchOutputDirMode = 0o755
	statusSucceeded    = "succeeded"
	statusDryRun       = "dry_run"
	statusFailed       = "failed"
)

// batchConfig はバッチ平滑化の実行設定を表す。
type batchConfig struct {
	InputDir   string
	ModelPath  string
	OutputRoot string
	Smooth     smooth.Config
	DryRun     bool
	FailFast   bool
}

// smoothEntry は1モーション分の入力情報を表す。
type smoothEntry struct {
	Index      int
	SourcePath string
	MotionName string
	OutputPath string
}

// smoothResult は1モーション分の平滑化結果を表す。
type smoothResult struct {
	Entry      smoothEntry
	Status     string
	Duration   time.Duration
	Err        error
	KeysBefore int
	KeysAfter  int
	Aborted    int
	StageInfo  string
}

// progressCollector は平滑化の進捗イベントを収集する。
type progressCollector struct {
	eventCounts map[minteractor.SmoothProgressEventType]int
	boneMax     int
	frameMax    int
}

// main はフォルダ内のVMDを一括で平滑化する。
func main() {
	os.Exit(run())
}

// run は実行設定を解決して一括平滑化を実行し、終了コードを返す。
func run() int {
	config, err := parseBatchConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "設定解析に失敗しました: %v\n", err)
		return 2
	}
	inputPaths, err := collectMotionPaths(config.InputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "入力フォルダの走査に失敗しました: %v\n", err)
		return 2
	}
	entries := buildSmoothEntries(config.OutputRoot, inputPaths)
	if len(entries) == 0 {
		fmt.Fprintln(os.Stderr, "平滑化対象のVMDがありません")
		return 2
	}
	logging.DefaultLogger().Info(messages.LogBatchStart, config.InputDir, len(entries))

	results := executeBatchSmooth(config, entries)
	if printBatchSummary(results) > 0 {
		return 1
	}
	return 0
}

// parseBatchConfig はコマンドライン引数から実行設定を構築する。
func parseBatchConfig() (batchConfig, error) {
	defaultOutputRoot, err := resolveDefaultOutputRoot()
	if err != nil {
		return batchConfig{}, err
	}
	inputDir := flag.String("dir", "", "平滑化するVMDを含むフォルダ")
	modelPath := flag.String("model", "", "ボーン階層を読むPMX")
	configPath := flag.String("config", "", "平滑化設定YAML")
	outputRoot := flag.String("output-root", defaultOutputRoot, "平滑化結果の出力ルートディレクトリ")
	dryRun := flag.Bool("dry-run", false, "平滑化せず、入力解決と出力先計画のみ表示する")
	failFast := flag.Bool("fail-fast", false, "失敗時に即時終了する")
	flag.Parse()

	trimmedInputDir := strings.TrimSpace(*inputDir)
	if trimmedInputDir == "" && flag.NArg() > 0 {
		trimmedInputDir = strings.TrimSpace(flag.Arg(0))
	}
	if trimmedInputDir == "" {
		return batchConfig{}, errors.New("dir が空です")
	}
	trimmedOutputRoot := strings.TrimSpace(*outputRoot)
	if trimmedOutputRoot == "" {
		return batchConfig{}, errors.New("output-root が空です")
	}

	cfg := smooth.NewConfig()
	if strings.TrimSpace(*configPath) != "" {
		if cfg, err = io_config.NewConfigLoader().Load(*configPath, cfg); err != nil {
			return batchConfig{}, err
		}
	}
	return batchConfig{
		InputDir:   normalizeInputPath(trimmedInputDir),
		ModelPath:  normalizeInputPath(*modelPath),
		OutputRoot: filepath.Clean(trimmedOutputRoot),
		Smooth:     cfg,
		DryRun:     *dryRun,
		FailFast:   *failFast,
	}, nil
}

// resolveDefaultOutputRoot はスクリプト配置ディレクトリ基準の既定出力先を返す。
func resolveDefaultOutputRoot() (string, error) {
	_, currentFilePath, _, ok := runtime.Caller(0)
	if !ok {
		return "", errors.New("実行ファイル位置を取得できません")
	}
	return filepath.Join(filepath.Dir(currentFilePath), "output"), nil
}

// collectMotionPaths はフォルダ配下の .vmd をパス順で返す。
func collectMotionPaths(dir string) ([]string, error) {
	paths := make([]string, 0)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".vmd") {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// buildSmoothEntries は入力パス一覧から平滑化対象エントリを生成する。
func buildSmoothEntries(outputRoot string, inputPaths []string) []smoothEntry {
	entries := make([]smoothEntry, 0, len(inputPaths))
	for i, inputPath := range inputPaths {
		motionName := resolveMotionName(inputPath)
		safeName := sanitizePathComponent(motionName)
		caseDir := filepath.Join(outputRoot, fmt.Sprintf("%03d_%s", i+1, safeName))
		entries = append(entries, smoothEntry{
			Index:      i + 1,
			SourcePath: inputPath,
			MotionName: motionName,
			OutputPath: filepath.Join(caseDir, safeName+"_bone_smooth.vmd"),
		})
	}
	return entries
}

// executeBatchSmooth は全モーションの平滑化を順次実行する。
func executeBatchSmooth(config batchConfig, entries []smoothEntry) []smoothResult {
	results := make([]smoothResult, 0, len(entries))
	vmdRepository := vmd.NewVmdRepository()
	usecase := minteractor.NewSmoothUsecase(minteractor.SmoothUsecaseDeps{
		MotionReader: vmdRepository,
		MotionWriter: vmdRepository,
		ModelReader:  pmx.NewPmxRepository(),
	})

	// ボーン階層は全モーションで共通
	var bones *model.Bones
	if !config.DryRun {
		loaded, err := usecase.LoadBones(nil, config.ModelPath)
		if err != nil {
			fmt.Printf("ボーン階層の読み込みに失敗しました: %v\n", err)
			return append(results, smoothResult{Status: statusFailed, Err: err})
		}
		bones = loaded
	}

	total := len(entries)
	for _, entry := range entries {
		fmt.Printf("[%d/%d] 平滑化開始: motion=%s\n", entry.Index, total, entry.MotionName)
		result := smoothMotionEntry(usecase, config, bones, entry)
		results = append(results, result)
		switch result.Status {
		case statusSucceeded:
			logging.DefaultLogger().Info(messages.LogBatchFileDone, entry.SourcePath, entry.OutputPath)
			fmt.Printf("[%d/%d] 平滑化成功: keys=%d->%d aborted=%d elapsed=%s %s\n",
				entry.Index, total, result.KeysBefore, result.KeysAfter, result.Aborted, result.Duration.Round(time.Millisecond), result.StageInfo)
		case statusDryRun:
			fmt.Printf("[%d/%d] DRY-RUN: input=%s output=%s\n", entry.Index, total, entry.SourcePath, entry.OutputPath)
		default:
			logging.DefaultLogger().Warn(messages.LogBatchFileFail, entry.SourcePath, result.Err)
			if config.FailFast {
				return results
			}
		}
	}
	return results
}

// smoothMotionEntry は1モーション分の平滑化を実行する。
func smoothMotionEntry(usecase *minteractor.SmoothUsecase, config batchConfig, bones *model.Bones, entry smoothEntry) smoothResult {
	result := smoothResult{Entry: entry, Status: statusFailed}
	if config.DryRun {
		result.Status = statusDryRun
		return result
	}
	if err := os.MkdirAll(filepath.Dir(entry.OutputPath), batchOutputDirMode); err != nil {
		result.Err = fmt.Errorf("出力ディレクトリ作成に失敗しました: %w", err)
		return result
	}

	startedAt := time.Now()
	collector := newProgressCollector()
	smoothed, err := usecase.Smooth(minteractor.SmoothRequest{
		InputPath:        entry.SourcePath,
		OutputPath:       entry.OutputPath,
		Config:           config.Smooth,
		Bones:            bones,
		ProgressReporter: collector,
	})
	if err != nil {
		result.Err = err
		return result
	}

	for _, br := range smoothed.Report.Bones {
		result.KeysBefore += br.KeysBefore
		result.KeysAfter += br.KeysAfter
	}
	result.Aborted = smoothed.Report.AbortedCount()
	result.Status = statusSucceeded
	result.Duration = time.Since(startedAt)
	result.StageInfo = collector.Summary()
	return result
}

// printBatchSummary は集計を表示し、失敗件数を返す。
func printBatchSummary(results []smoothResult) int {
	succeeded := 0
	failed := 0
	for _, result := range results {
		switch result.Status {
		case statusSucceeded, statusDryRun:
			succeeded++
		default:
			failed++
		}
	}
	logging.DefaultLogger().Info(messages.LogBatchCompleted, succeeded, failed)
	return failed
}

// resolveMotionName は入力パスから拡張子を除いたモーション名を返す。
func resolveMotionName(path string) string {
	base := strings.TrimSpace(filepath.Base(path))
	name := strings.TrimSpace(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		return "motion"
	}
	return name
}

// normalizeInputPath は入力パスを実行環境向けに正規化する。
func normalizeInputPath(path string) string {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return ""
	}
	return filepath.Clean(convertWindowsPathToWsl(trimmed))
}

// convertWindowsPathToWsl は Linux 実行時に Windows パスを WSL パスへ変換する。
func convertWindowsPathToWsl(path string) string {
	if runtime.GOOS != "linux" || len(path) < 2 || path[1] != ':' {
		return path
	}
	drive := strings.ToLower(path[:1])
	rest := strings.ReplaceAll(path[2:], "\\", "/")
	if !strings.HasPrefix(rest, "/") {
		rest = "/" + rest
	}
	return filepath.ToSlash(filepath.Join("/mnt", drive) + rest)
}

// sanitizePathComponent は出力ディレクトリ/ファイル名に使えない文字を置換する。
func sanitizePathComponent(name string) string {
	replaced := strings.Map(func(r rune) rune {
		switch r {
		case '<', '>', ':', '"', '/', '\\', '|', '?', '*':
			return '_'
		default:
			if r < 0x20 {
				return '_'
			}
			return r
		}
	}, strings.TrimSpace(name))
	replaced = strings.Trim(replaced, " .")
	if replaced == "" {
		return "motion"
	}
	return replaced
}

// newProgressCollector は進捗収集器を生成する。
func newProgressCollector() *progressCollector {
	return &progressCollector{eventCounts: map[minteractor.SmoothProgressEventType]int{}}
}

// ReportSmoothProgress は平滑化の進捗イベントを収集する。
func (collector *progressCollector) ReportSmoothProgress(event minteractor.SmoothProgressEvent) {
	collector.eventCounts[event.Type]++
	if event.BoneCount > collector.boneMax {
		collector.boneMax = event.BoneCount
	}
	if event.FrameCount > collector.frameMax {
		collector.frameMax = event.FrameCount
	}
}

// Summary は収集した進捗の要約文字列を返す。
func (collector *progressCollector) Summary() string {
	types := make([]string, 0, len(collector.eventCounts))
	for stageType := range collector.eventCounts {
		types = append(types, string(stageType))
	}
	sort.Strings(types)
	return fmt.Sprintf("bones=%d frames=%d stages=%s", collector.boneMax, collector.frameMax, strings.Join(types, ","))
}

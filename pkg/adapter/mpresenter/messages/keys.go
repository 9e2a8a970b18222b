// 指示: miu200521358
// Package messages は利用者に表示するメッセージを提供する。
package messages

// 利用方法・ラベル。
const (
	HelpUsageTitle = "使い方"
	HelpUsage      = "mu_vmd_smooth -in <入力VMD> [-model <PMX>] [-out <出力VMD>] [-passes N] [-circular] [-seam] [-config <YAML>]"

	LabelInputPath  = "入力VMD"
	LabelModelPath  = "ボーン階層PMX"
	LabelOutputPath = "出力VMD"
	LabelPasses     = "平滑化パス数"
	LabelCircular   = "円弧補間"
	LabelSeam       = "継ぎ目平滑化"
	LabelFilterPos  = "移動フィルタ"
	LabelFilterRot  = "回転フィルタ"
	LabelConfigPath = "設定YAML"
	LabelVerbose    = "詳細ログ"
)

// エラー表示。
const (
	MessageLoadFailed       = "読み込み失敗"
	MessageSaveFailed       = "保存失敗"
	MessageSmoothFailed     = "平滑化失敗"
	MessageInputRequired    = "入力VMDファイルを指定してください"
	MessageOutputExtInvalid = "出力先の拡張子が .vmd ではありません"
	MessageConfigFailed     = "設定読み込み失敗"
	MessageCause            = "原因"

	// MessageCrashBanner は想定外の失敗時に出す定型バナー。
	MessageCrashBanner = "■■■■■■■■■■■■■■■■■\n■　**ERROR**　\n■　予期せぬエラーが発生しました。\n■　以下のエラー内容と入力ファイルを添えて報告してください。\n■■■■■■■■■■■■■■■■■"
)

// ログ書式。
const (
	LogStart          = "平滑化開始: input=%s passes=%d circular=%t seam=%t"
	LogModelLoaded    = "ボーン階層読込: model=%s bones=%d"
	LogModelSkipped   = "ボーン階層なしで処理します"
	LogSpreadDone     = "回転分散の前処理完了"
	LogPassStart      = "[%s] パス %d 開始"
	LogBoneSkipped    = "[%s] キー数 %d のため処理しません"
	LogPassAborted    = "[%s] パス %d を中断しました: %v"
	LogOutcome        = "[%s] パス %d: %v"
	LogChildExempt    = "[%s] 軸制限の子ボーン %s は打ち消しを行いません"
	LogBoneDone       = "[%s] キー %d -> %d (打ち込み %d, 結合 %d)"
	LogSmoothSuccess  = "平滑化完了: output=%s bones=%d aborted=%d"
	LogBatchStart     = "一括平滑化開始: dir=%s files=%d"
	LogBatchFileDone  = "一括平滑化: %s -> %s"
	LogBatchFileFail  = "一括平滑化失敗: %s: %v"
	LogBatchCompleted = "一括平滑化完了: success=%d failed=%d"

	LogCrashWriteFailed = "エラー内容の出力に失敗しました: %v"
)

// 指示: miu200521358
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strings"

	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_config"
	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_model/pmx"
	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/io_motion/vmd"
	"github.com/miu200521358/mu_vmd_smooth/pkg/adapter/mpresenter/messages"
	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/smooth"
	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/logging"
	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/merr"
	"github.com/miu200521358/mu_vmd_smooth/pkg/usecase/minteractor"
)

// options はCLI引数を保持する。
type options struct {
	inputPath  string
	modelPath  string
	outputPath string
	configPath string
	verbose    bool
	config     smooth.Config
}

// main はVMDモーションの平滑化を実行する。
func main() {
	os.Exit(runMain(os.Args[1:], os.Stdout, os.Stderr))
}

// runMain は実行結果を終了コードへ変換する。パニックも失敗として扱う。
func runMain(args []string, out io.Writer, errOut io.Writer) (code int) {
	defer func() {
		if recovered := recover(); recovered != nil {
			reportCrash(errOut, fmt.Errorf("%v", recovered), debug.Stack())
			code = 1
		}
	}()
	if err := run(args, out, errOut); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		reportCrash(errOut, err, nil)
		return 1
	}
	return 0
}

// reportCrash は失敗内容を出力し、出力できなければロガーへ残す。
func reportCrash(errOut io.Writer, err error, stack []byte) {
	if writeErr := writeCrash(errOut, err, stack); writeErr != nil {
		logging.DefaultLogger().Error(messages.LogCrashWriteFailed, writeErr)
	}
}

// writeCrash は定型バナーとエラー内容を出力する。
// stackはパニック時のみ渡され、通常のエラーでは原因の連鎖を出力する。
func writeCrash(errOut io.Writer, err error, stack []byte) error {
	var buf bytes.Buffer
	buf.WriteString(messages.MessageCrashBanner + "\n")
	if id := merr.ExtractErrorID(err); id != "" {
		fmt.Fprintf(&buf, "[%s] %v\n", id, err)
	} else {
		fmt.Fprintln(&buf, err)
	}
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		if id := merr.ExtractErrorID(cause); id != "" {
			fmt.Fprintf(&buf, "  %s: [%s] %v\n", messages.MessageCause, id, cause)
		} else {
			fmt.Fprintf(&buf, "  %s: %v\n", messages.MessageCause, cause)
		}
	}
	buf.Write(stack)

	_, writeErr := errOut.Write(buf.Bytes())
	return writeErr
}

// run はCLI処理全体を実行する。
func run(args []string, out io.Writer, errOut io.Writer) error {
	opts, err := parseOptions(args, errOut)
	if err != nil {
		return err
	}

	logger := logging.NewLogger(out)
	if opts.verbose {
		logger.SetDebug(true)
		logger.EnableVerbose(logging.VERBOSE_INDEX_MOTION)
		logger.EnableVerbose(logging.VERBOSE_INDEX_SMOOTH)
	}
	logging.SetDefaultLogger(logger)
	defer logger.Sync()

	vmdRepository := vmd.NewVmdRepository()
	uc := minteractor.NewSmoothUsecase(minteractor.SmoothUsecaseDeps{
		MotionReader: vmdRepository,
		MotionWriter: vmdRepository,
		ModelReader:  pmx.NewPmxRepository(),
	})

	result, err := uc.Smooth(minteractor.SmoothRequest{
		InputPath:  opts.inputPath,
		ModelPath:  opts.modelPath,
		OutputPath: opts.outputPath,
		Config:     opts.config,
		Observer:   minteractor.NewLogObserver(logger),
	})
	if err != nil {
		return fmt.Errorf("%s: %w", messages.MessageSmoothFailed, err)
	}
	fmt.Fprintf(out, "[mu_vmd_smooth] 出力: %s\n", result.OutputPath)
	return nil
}

// parseOptions はCLI引数を解析する。設定は既定値、設定YAML、明示フラグの順に重ねる。
func parseOptions(args []string, errOut io.Writer) (options, error) {
	fs := flag.NewFlagSet("mu_vmd_smooth", flag.ContinueOnError)
	fs.SetOutput(errOut)
	fs.Usage = func() {
		fmt.Fprintf(errOut, "%s: %s\n", messages.HelpUsageTitle, messages.HelpUsage)
		fs.PrintDefaults()
	}

	defaults := smooth.NewConfig()
	in := fs.String("in", "", messages.LabelInputPath)
	modelPath := fs.String("model", "", messages.LabelModelPath)
	out := fs.String("out", "", messages.LabelOutputPath)
	configPath := fs.String("config", "", messages.LabelConfigPath)
	passes := fs.Int("passes", defaults.Passes, messages.LabelPasses)
	circular := fs.Bool("circular", defaults.Circular, messages.LabelCircular)
	seam := fs.Bool("seam", defaults.SeamSmoothing, messages.LabelSeam)
	filterPos := fs.Bool("filter-pos", defaults.FilterPosition, messages.LabelFilterPos)
	filterRot := fs.Bool("filter-rot", defaults.FilterRotation, messages.LabelFilterRot)
	verbose := fs.Bool("verbose", false, messages.LabelVerbose)
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}

	if *in == "" && fs.NArg() > 0 {
		*in = fs.Arg(0)
	}
	if *out == "" && fs.NArg() > 1 {
		*out = fs.Arg(1)
	}
	if strings.TrimSpace(*in) == "" {
		return options{}, fmt.Errorf("%s (-in)", messages.MessageInputRequired)
	}

	cfg := defaults
	if strings.TrimSpace(*configPath) != "" {
		loaded, err := io_config.NewConfigLoader().Load(*configPath, cfg)
		if err != nil {
			return options{}, fmt.Errorf("%s: %w", messages.MessageConfigFailed, err)
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "passes":
			cfg.Passes = *passes
		case "circular":
			cfg.Circular = *circular
		case "seam":
			cfg.SeamSmoothing = *seam
		case "filter-pos":
			cfg.FilterPosition = *filterPos
		case "filter-rot":
			cfg.FilterRotation = *filterRot
		}
	})

	return options{
		inputPath:  *in,
		modelPath:  *modelPath,
		outputPath: *out,
		configPath: *configPath,
		verbose:    *verbose,
		config:     cfg,
	}, nil
}

// 指示: miu200521358
package smooth

import (
	"fmt"

	"github.com/miu200521358/mu_vmd_smooth/pkg/domain/motion"
	"github.com/miu200521358/mu_vmd_smooth/pkg/shared/base/merr"
)

const (
	// ErrorIDMissingNeighbor は前後キー不足のエラーID。
	ErrorIDMissingNeighbor = "21101"
	// ErrorIDDegenerateFit はフレーム順序不正の当てはめのエラーID。
	ErrorIDDegenerateFit = "21102"
	// ErrorIDRejectedFit は許容誤差超過の当てはめのエラーID。
	ErrorIDRejectedFit = "21103"
	// ErrorIDDegenerateGeometry は半径ゼロ相当の円弧のエラーID。
	ErrorIDDegenerateGeometry = "21104"
	// ErrorIDInvalidConfig は設定不正のエラーID。
	ErrorIDInvalidConfig = "21106"
)

func newMissingNeighbor(boneName string, frame int, detail string) error {
	return merr.NewCommonError(
		ErrorIDMissingNeighbor,
		merr.KindMissingNeighbor,
		fmt.Sprintf("%s: %dF の%sキーがありません", boneName, frame, detail),
		nil,
	)
}

func newDegenerateFit(x1, x2, x3 float64) error {
	return merr.NewCommonError(
		ErrorIDDegenerateFit,
		merr.KindDegenerateFit,
		fmt.Sprintf("フレームが単調増加ではありません: %v, %v, %v", x1, x2, x3),
		nil,
	)
}

func newRejectedFit(boneName string, start, end int, ch motion.CurveChannel) error {
	return merr.NewCommonError(
		ErrorIDRejectedFit,
		merr.KindRejectedFit,
		fmt.Sprintf("%s: %dF-%dF の%s曲線が許容誤差に収まりません", boneName, start, end, ch),
		nil,
	)
}

func newDegenerateGeometry(radius float64) error {
	return merr.NewCommonError(
		ErrorIDDegenerateGeometry,
		merr.KindDegenerateGeometry,
		fmt.Sprintf("円弧の半径が不正です: %v", radius),
		nil,
	)
}

func newInvalidConfig(message string, cause error) error {
	return merr.NewCommonError(ErrorIDInvalidConfig, merr.KindInvalidConfig, message, cause)
}

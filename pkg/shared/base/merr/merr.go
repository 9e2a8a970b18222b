// 指示: miu200521358
// Package merr はエラーIDと種別を持つ共通エラーを提供する。
package merr

import (
	"errors"
	"fmt"
)

// ErrorKind はエラー種別を表す。
type ErrorKind string

const (
	// KindMissingNeighbor は前後キー不足を表す。
	KindMissingNeighbor ErrorKind = "MissingNeighbor"
	// KindDegenerateFit はフレーム順序が単調でない曲線当てはめを表す。
	KindDegenerateFit ErrorKind = "DegenerateFit"
	// KindRejectedFit は許容誤差内に収まらなかった曲線当てはめを表す。
	KindRejectedFit ErrorKind = "RejectedFit"
	// KindDegenerateGeometry は半径ゼロ相当の円・球を表す。
	KindDegenerateGeometry ErrorKind = "DegenerateGeometry"
	// KindInvalidFilterParameter はフィルタ生成パラメータ不正を表す。
	KindInvalidFilterParameter ErrorKind = "InvalidFilterParameter"
	// KindInvalidConfig は設定値不正を表す。
	KindInvalidConfig ErrorKind = "InvalidConfig"
	// KindIo は入出力失敗を表す。
	KindIo ErrorKind = "Io"
)

// CommonError はエラーIDと種別を持つエラーを表す。
type CommonError struct {
	id      string
	kind    ErrorKind
	message string
	cause   error
}

// NewCommonError はCommonErrorを生成する。
func NewCommonError(id string, kind ErrorKind, message string, cause error) *CommonError {
	return &CommonError{id: id, kind: kind, message: message, cause: cause}
}

// Error はエラーメッセージを返す。
func (e *CommonError) Error() string {
	if e == nil {
		return ""
	}
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.id, e.message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.id, e.message)
}

// Unwrap は原因エラーを返す。
func (e *CommonError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

// ErrorID はエラーIDを返す。
func (e *CommonError) ErrorID() string {
	if e == nil {
		return ""
	}
	return e.id
}

// Kind はエラー種別を返す。
func (e *CommonError) Kind() ErrorKind {
	if e == nil {
		return ""
	}
	return e.kind
}

// ExtractErrorID はエラー連鎖から最初のエラーIDを取り出す。
func ExtractErrorID(err error) string {
	var commonErr *CommonError
	if errors.As(err, &commonErr) {
		return commonErr.ErrorID()
	}
	return ""
}

// IsKind はエラー連鎖に指定種別が含まれるか判定する。
func IsKind(err error, kind ErrorKind) bool {
	for err != nil {
		var commonErr *CommonError
		if !errors.As(err, &commonErr) {
			return false
		}
		if commonErr.kind == kind {
			return true
		}
		err = commonErr.cause
	}
	return false
}

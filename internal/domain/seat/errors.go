package seat

import (
	"errors"
	"fmt"
)

// Seat ドメインのエラー定義
var (
	ErrInvalidArgument  = errors.New("不正な引数です")
	ErrSeatIDOutOfRange = fmt.Errorf("%w: 座席IDが範囲外です", ErrInvalidArgument)
	ErrOccupantRequired = fmt.Errorf("%w: 利用者は必須です", ErrInvalidArgument)
	ErrSeatIDsRequired  = fmt.Errorf("%w: 座席IDは1件以上必要です", ErrInvalidArgument)
	ErrSeatAlreadyHeld  = errors.New("座席は既に予約されています")
	ErrSeatNotHeld      = errors.New("座席は予約されていません")
	ErrStoreUnavailable = errors.New("ストアを利用できません")
)

// RangeError は座席IDが設定範囲外であることを表す
type RangeError struct {
	SeatID int
	First  int
	Last   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("座席IDは%dから%dの範囲である必要があります: %d", e.First, e.Last, e.SeatID)
}

func (e *RangeError) Unwrap() error {
	return ErrSeatIDOutOfRange
}

// ConflictError は座席が他の利用者に保持されていることを表す
// Holder はストアが報告できた場合のみ設定される
type ConflictError struct {
	SeatID int
	Holder string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("座席%dは既に予約されています", e.SeatID)
}

func (e *ConflictError) Unwrap() error {
	return ErrSeatAlreadyHeld
}

// Outcome は操作結果の分類
type Outcome string

const (
	OutcomeApplied         Outcome = "applied"
	OutcomeConflict        Outcome = "conflict"
	OutcomeNotFound        Outcome = "not_found"
	OutcomeInvalidArgument Outcome = "invalid_argument"
	OutcomeUnavailable     Outcome = "unavailable"
)

// Classify はエラーを操作結果に分類する
// 既知のドメインエラー以外はすべて Unavailable とみなす
func Classify(err error) Outcome {
	switch {
	case err == nil:
		return OutcomeApplied
	case errors.Is(err, ErrInvalidArgument):
		return OutcomeInvalidArgument
	case errors.Is(err, ErrSeatAlreadyHeld):
		return OutcomeConflict
	case errors.Is(err, ErrSeatNotHeld):
		return OutcomeNotFound
	default:
		return OutcomeUnavailable
	}
}

// IsBusinessOutcome はエラーが正常な業務結果（再試行すべきでない結果）かを返す
func IsBusinessOutcome(err error) bool {
	switch Classify(err) {
	case OutcomeInvalidArgument, OutcomeConflict, OutcomeNotFound:
		return true
	default:
		return false
	}
}

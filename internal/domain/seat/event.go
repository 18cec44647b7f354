package seat

import "time"

// Action は座席の状態遷移の種類
type Action string

const (
	ActionBooked      Action = "booked"
	ActionTransferred Action = "transferred"
	ActionReleased    Action = "released"
)

// ChangedEvent は反映済みの状態遷移を通知するイベント
type ChangedEvent struct {
	SeatID     int       `json:"seat_id"`
	Action     Action    `json:"action"`
	Occupant   string    `json:"occupant,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// NewChangedEvent は現在時刻でイベントを作成する
func NewChangedEvent(id int, action Action, occupant string) ChangedEvent {
	return ChangedEvent{SeatID: id, Action: action, Occupant: occupant, OccurredAt: time.Now().UTC()}
}

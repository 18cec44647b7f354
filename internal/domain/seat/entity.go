package seat

import (
	"fmt"
	"strings"
)

// Seat は保持中の座席エントリを表す
// エントリが存在しない座席は空席（Free）として扱う
type Seat struct {
	ID       int
	Occupant string
}

// Inventory は有効な座席IDの範囲 [First, First+Count-1] を表す
type Inventory struct {
	First int
	Count int
}

// NewInventory は新しい座席範囲を作成する
func NewInventory(first, count int) (Inventory, error) {
	if count <= 0 {
		return Inventory{}, fmt.Errorf("座席数は1以上である必要があります: %d", count)
	}
	return Inventory{First: first, Count: count}, nil
}

// Last は範囲内の最大の座席IDを返す
func (i Inventory) Last() int {
	return i.First + i.Count - 1
}

// Contains は座席IDが範囲内かを返す
func (i Inventory) Contains(id int) bool {
	return id >= i.First && id <= i.Last()
}

// IDs は範囲内の全座席IDを昇順で返す
func (i Inventory) IDs() []int {
	ids := make([]int, 0, i.Count)
	for id := i.First; id <= i.Last(); id++ {
		ids = append(ids, id)
	}
	return ids
}

// ValidateID は座席IDを検証する
func (i Inventory) ValidateID(id int) error {
	if !i.Contains(id) {
		return &RangeError{SeatID: id, First: i.First, Last: i.Last()}
	}
	return nil
}

// ValidateOccupant は占有者トークンを検証する
func ValidateOccupant(occupant string) error {
	if strings.TrimSpace(occupant) == "" {
		return ErrOccupantRequired
	}
	return nil
}

// Validate は座席エントリの検証を行う
func (i Inventory) Validate(id int, occupant string) error {
	if err := i.ValidateID(id); err != nil {
		return err
	}
	return ValidateOccupant(occupant)
}

// SeatState は座席マップの1要素（空席または保持中）
type SeatState struct {
	ID       int
	Occupant string
	Held     bool
}

// BuildSeatMap は保持中エントリから範囲内の全座席の状態を組み立てる
// 範囲外のエントリは無視する
func (i Inventory) BuildSeatMap(held []*Seat) []SeatState {
	occupants := make(map[int]string, len(held))
	for _, s := range held {
		if s != nil && i.Contains(s.ID) {
			occupants[s.ID] = s.Occupant
		}
	}
	states := make([]SeatState, 0, i.Count)
	for _, id := range i.IDs() {
		occupant, ok := occupants[id]
		states = append(states, SeatState{ID: id, Occupant: occupant, Held: ok})
	}
	return states
}

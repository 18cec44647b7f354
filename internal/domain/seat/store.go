package seat

import "context"

// WriteResult は条件付き書き込みの結果
type WriteResult struct {
	// Applied は前提条件が成立し書き込みが反映されたかを表す
	Applied bool
	// Current は拒否時にストアが保持している利用者（取得できた場合のみ）
	Current string
}

// Store は単一キーの条件付き書き込みを提供するストアのインターフェース
// 実装はキー単位で線形化可能であること、内部で再試行しないことが必要
// エラーは通信障害・タイムアウトを表し、拒否（Applied=false）とは区別される
type Store interface {
	// CreateIfAbsent はエントリが存在しない場合のみ作成する
	CreateIfAbsent(ctx context.Context, id int, occupant string) (WriteResult, error)

	// ReplaceIfPresent はエントリが存在する場合のみ利用者を上書きする
	ReplaceIfPresent(ctx context.Context, id int, occupant string) (WriteResult, error)

	// DeleteIfPresent はエントリが存在する場合のみ削除する
	DeleteIfPresent(ctx context.Context, id int) (WriteResult, error)

	// List は保持中の全エントリを返す
	List(ctx context.Context) ([]*Seat, error)

	// Ping はストアへの接続を確認する
	Ping(ctx context.Context) error
}

// Package cassandra は Cassandra の軽量トランザクション（LWT）による条件付き書き込みストアを提供する
package cassandra

import (
	"fmt"
	"time"

	"github.com/gocql/gocql"

	"github.com/sanosuguru/go-seat-reservation/internal/config"
)

const createTableCQL = `CREATE TABLE IF NOT EXISTS reservation (
	seat_id INT,
	user TEXT,
	PRIMARY KEY (seat_id)
)`

// NewClusterConfig は設定からクラスタ設定を組み立てる
// 条件付き書き込みは再試行しない（再試行の判断は呼び出し側）
func NewClusterConfig(cfg *config.CassandraConfig, timeout time.Duration) (*gocql.ClusterConfig, error) {
	consistency, err := gocql.ParseConsistencyWrapper(cfg.Consistency)
	if err != nil {
		return nil, fmt.Errorf("不正な整合性レベルです: %w", err)
	}

	cluster := gocql.NewCluster(cfg.Hosts...)
	cluster.Port = cfg.Port
	cluster.Consistency = consistency
	cluster.SerialConsistency = gocql.Serial
	cluster.RetryPolicy = &gocql.SimpleRetryPolicy{NumRetries: 0}
	if timeout > 0 {
		cluster.Timeout = timeout
		cluster.ConnectTimeout = timeout
	}
	return cluster, nil
}

// NewSession はキースペースとテーブルを作成したうえでセッションを返す
func NewSession(cfg *config.CassandraConfig, timeout time.Duration) (*gocql.Session, error) {
	cluster, err := NewClusterConfig(cfg, timeout)
	if err != nil {
		return nil, err
	}

	// キースペース作成はキースペース未指定のセッションで行う
	bootstrap, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("Cassandra接続に失敗しました: %w", err)
	}
	err = bootstrap.Query(createKeyspaceCQL(cfg.Keyspace, cfg.ReplicationFactor)).Exec()
	bootstrap.Close()
	if err != nil {
		return nil, fmt.Errorf("キースペース作成に失敗しました: %w", err)
	}

	cluster.Keyspace = cfg.Keyspace
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("Cassandra接続に失敗しました: %w", err)
	}
	if err := session.Query(createTableCQL).Exec(); err != nil {
		session.Close()
		return nil, fmt.Errorf("テーブル作成に失敗しました: %w", err)
	}
	return session, nil
}

func createKeyspaceCQL(keyspace string, replicationFactor int) string {
	if replicationFactor <= 0 {
		replicationFactor = 1
	}
	return fmt.Sprintf(
		"CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': %d}",
		keyspace, replicationFactor,
	)
}

package store

import (
	"context"
	"errors"
	"fmt"

	"wine-pairing/internal/pkg/common"

	"github.com/dgraph-io/badger/v4"
	"go.uber.org/zap"
)

// 儲存層錯誤
var (
	ErrNotFound      = errors.New("record not found")
	ErrAlreadyExists = errors.New("record already exists")
)

// Options 儲存層設定
type Options struct {
	Path     string
	InMemory bool
}

// Store 包裝 Badger 資料庫
type Store struct {
	db *badger.DB
}

// Open 開啟資料庫；InMemory 時不寫入磁碟
func Open(opts Options) (*Store, error) {
	var bopts badger.Options
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		bopts = badger.DefaultOptions(opts.Path)
		bopts.SyncWrites = true
		bopts.CompactL0OnClose = true
	}
	bopts.Logger = nil

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	common.LogInfo("Document store opened",
		zap.String("path", opts.Path),
		zap.Bool("in_memory", opts.InMemory),
	)
	return &Store{db: db}, nil
}

// Close 關閉資料庫
func (s *Store) Close() error {
	common.LogInfo("Closing document store")
	return s.db.Close()
}

// Ping 檢查資料庫是否可讀
func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return errors.New("store is closed")
	}
	return s.db.View(func(txn *badger.Txn) error { return nil })
}

package queue

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"wine-pairing/internal/core/ai/provider"
	"wine-pairing/internal/infrastructure/config"
	"wine-pairing/internal/pkg/common"

	"go.uber.org/zap"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue manager is closed")
)

// Handler 處理單一請求
type Handler func(ctx context.Context, req *provider.Request) (*provider.Response, error)

// Request 隊列請求
type Request struct {
	Context context.Context
	Request *provider.Request
	Result  chan Result
}

// Result 處理結果
type Result struct {
	Response *provider.Response
	Error    error
}

// Status 隊列狀態
type Status struct {
	QueueLength    int `json:"queue_length"`
	ProcessedCount int `json:"processed_count"`
	MaxQueueSize   int `json:"max_queue_size"`
	Workers        int `json:"workers"`
}

// Manager 隊列管理器，固定數量的 worker 消化請求
type Manager struct {
	workers   int
	maxSize   int
	queue     chan *Request
	done      chan struct{}
	processed int64
	wg        sync.WaitGroup
	startOnce sync.Once
	closeOnce sync.Once
}

// NewManager 創建新的隊列管理器
func NewManager(cfg config.QueueConfig) *Manager {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.MaxSize <= 0 {
		cfg.MaxSize = 100
	}
	return &Manager{
		workers: cfg.Workers,
		maxSize: cfg.MaxSize,
		queue:   make(chan *Request, cfg.MaxSize),
		done:    make(chan struct{}),
	}
}

// Start 啟動 worker；重複呼叫無效
func (m *Manager) Start(handler Handler) {
	m.startOnce.Do(func() {
		for i := 0; i < m.workers; i++ {
			m.wg.Add(1)
			go m.worker(i, handler)
		}
		common.LogInfo("Queue workers started", zap.Int("workers", m.workers), zap.Int("max_queue_size", m.maxSize))
	})
}

func (m *Manager) worker(id int, handler Handler) {
	defer m.wg.Done()
	for {
		select {
		case req := <-m.queue:
			m.process(req, handler)
		case <-m.done:
			common.LogDebug("Queue worker stopped", zap.Int("worker", id))
			return
		}
	}
}

func (m *Manager) process(req *Request, handler Handler) {
	if err := req.Context.Err(); err != nil {
		atomic.AddInt64(&m.processed, 1)
		req.Result <- Result{Error: err}
		return
	}
	resp, err := handler(req.Context, req.Request)
	atomic.AddInt64(&m.processed, 1)
	req.Result <- Result{Response: resp, Error: err}
}

// Enqueue 將請求加入隊列；滿時立即回傳 ErrQueueFull
func (m *Manager) Enqueue(ctx context.Context, req *provider.Request) (<-chan Result, error) {
	select {
	case <-m.done:
		return nil, ErrQueueClosed
	default:
	}

	queueReq := &Request{
		Context: ctx,
		Request: req,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- queueReq:
		common.LogDebug("Request enqueued",
			zap.Int("queue_length", len(m.queue)),
			zap.Int("max_queue_size", m.maxSize),
		)
		return queueReq.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
		return nil, ErrQueueFull
	}
}

// EnqueueWait 等待隊列有空位後加入
func (m *Manager) EnqueueWait(ctx context.Context, req *provider.Request) (<-chan Result, error) {
	queueReq := &Request{
		Context: ctx,
		Request: req,
		Result:  make(chan Result, 1),
	}

	select {
	case m.queue <- queueReq:
		return queueReq.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-m.done:
		return nil, ErrQueueClosed
	}
}

// Generate 經由隊列同步生成；隊列已滿時回傳 503 類錯誤
func (m *Manager) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	ch, err := m.Enqueue(ctx, req)
	if errors.Is(err, ErrQueueFull) || errors.Is(err, ErrQueueClosed) {
		return nil, common.NewError(common.ErrCodeServiceUnavailable, common.ErrServiceUnavailable.Message, common.ErrServiceUnavailable.Status, err)
	}
	if err != nil {
		return nil, err
	}

	select {
	case res := <-ch:
		return res.Response, res.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// GetQueueStatus 獲取隊列狀態
func (m *Manager) GetQueueStatus() *Status {
	return &Status{
		QueueLength:    len(m.queue),
		ProcessedCount: int(atomic.LoadInt64(&m.processed)),
		MaxQueueSize:   m.maxSize,
		Workers:        m.workers,
	}
}

// Close 停止 worker；尚未處理的請求回傳 ErrQueueClosed
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.done)
		m.wg.Wait()
		for {
			select {
			case req := <-m.queue:
				req.Result <- Result{Error: ErrQueueClosed}
			default:
				return
			}
		}
	})
}

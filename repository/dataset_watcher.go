package repository

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/BerniceZTT/sales_end/utils"
)

// DatasetWatcher 监听本地数据文件变化，文件稳定后触发重新加载
type DatasetWatcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	path        string
	onChange    func(ctx context.Context)
	debounceDur time.Duration
	pendingAt   time.Time
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool
}

// NewDatasetWatcher 创建监听器。监听的是文件所在目录，编辑器保存时常见的重命名替换也能捕获
func NewDatasetWatcher(path string, onChange func(ctx context.Context)) (*DatasetWatcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("解析数据文件路径失败: %w", err)
	}
	if dir, err := filepath.EvalSymlinks(filepath.Dir(abs)); err == nil {
		abs = filepath.Join(dir, filepath.Base(abs))
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监听失败: %w", err)
	}
	return &DatasetWatcher{
		watcher:     watcher,
		path:        abs,
		onChange:    onChange,
		debounceDur: 500 * time.Millisecond,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// SetDebounce 修改去抖时长，需在 Start 之前调用
func (w *DatasetWatcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debounceDur = d
}

// Start 开始监听，非阻塞
func (w *DatasetWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return fmt.Errorf("监听目录失败: %w", err)
	}
	utils.Logger.Info().Str("path", w.path).Msg("开始监听数据文件")

	go w.run(ctx)
	return nil
}

// Stop 停止监听并等待后台协程退出
func (w *DatasetWatcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		utils.Logger.Error().Err(err).Msg("关闭文件监听失败")
	}
	utils.Logger.Info().Str("path", w.path).Msg("已停止监听数据文件")
}

func (w *DatasetWatcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			utils.Logger.Error().Err(err).Msg("文件监听错误")
		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

func (w *DatasetWatcher) handleEvent(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}
	switch {
	case event.Op&fsnotify.Create != 0,
		event.Op&fsnotify.Write != 0,
		event.Op&fsnotify.Rename != 0:
	default:
		return
	}
	utils.Logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("数据文件变化")

	w.mu.Lock()
	w.pendingAt = time.Now()
	w.mu.Unlock()
}

// flush 最近一次变化超过去抖时长后触发回调
func (w *DatasetWatcher) flush(ctx context.Context) {
	w.mu.Lock()
	if w.pendingAt.IsZero() || time.Since(w.pendingAt) < w.debounceDur {
		w.mu.Unlock()
		return
	}
	w.pendingAt = time.Time{}
	w.mu.Unlock()

	w.onChange(ctx)
}

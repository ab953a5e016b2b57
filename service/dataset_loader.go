package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/BerniceZTT/sales_end/models"
	"github.com/BerniceZTT/sales_end/repository"
	"github.com/BerniceZTT/sales_end/utils"
)

// DatasetLoader 从数据源读取 CSV 并整体替换数据集。解析失败时保留原数据
type DatasetLoader struct {
	store         *repository.DealStore
	source        repository.DatasetSource
	notifications *NotificationCenter
	targets       *TargetService
	now           func() time.Time
}

// NewDatasetLoader 创建加载器，source 为空时只能通过 LoadFrom 加载
func NewDatasetLoader(store *repository.DealStore, source repository.DatasetSource, notifications *NotificationCenter, targets *TargetService) *DatasetLoader {
	return &DatasetLoader{
		store:         store,
		source:        source,
		notifications: notifications,
		targets:       targets,
		now:           time.Now,
	}
}

// HasSource 是否配置了数据源
func (l *DatasetLoader) HasSource() bool {
	return l.source != nil
}

// Load 重新读取配置的数据源
func (l *DatasetLoader) Load(ctx context.Context) (models.DatasetStatus, error) {
	if l.source == nil {
		return models.DatasetStatus{}, utils.CreateBadRequestError("未配置数据源")
	}
	return l.LoadFrom(ctx, l.source)
}

// LoadFrom 从指定数据源加载
func (l *DatasetLoader) LoadFrom(ctx context.Context, src repository.DatasetSource) (models.DatasetStatus, error) {
	start := time.Now()

	rc, err := src.Open(ctx)
	if err != nil {
		l.notify("数据加载失败", fmt.Sprintf("无法读取 %s", src.Describe()), models.NotificationWarning)
		return models.DatasetStatus{}, utils.NewAppError("读取数据源失败", http.StatusServiceUnavailable, err)
	}
	defer rc.Close()

	deals, err := IngestCSV(rc, l.now())
	if err != nil {
		reason := "读取中断"
		if errors.Is(err, ErrMalformedCSV) {
			reason = "格式错误"
		}
		l.notify("数据加载失败", fmt.Sprintf("%s %s，已保留原数据", src.Describe(), reason), models.NotificationWarning)
		return models.DatasetStatus{}, fmt.Errorf("加载 %s: %w", src.Describe(), err)
	}

	version := l.store.Replace(deals, src.Describe())
	utils.LogDatasetLoad(src.Describe(), len(deals), version, time.Since(start))
	l.notify("数据已更新", fmt.Sprintf("已从 %s 加载 %d 条成交", src.Describe(), len(deals)), models.NotificationSuccess)
	if l.targets != nil {
		l.targets.CheckExceeded()
	}
	return l.store.Status(), nil
}

func (l *DatasetLoader) notify(title, message, kind string) {
	if l.notifications != nil {
		l.notifications.Add(title, message, kind)
	}
}

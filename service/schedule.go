package service

import (
	"context"
	"fmt"
	"time"

	"github.com/BerniceZTT/sales_end/utils"
)

// ParseDailyTime 解析 HH:MM 或 HH:MM:SS
func ParseDailyTime(s string) (hour, min, sec int, err error) {
	for _, layout := range []string{"15:04:05", "15:04"} {
		if t, e := time.Parse(layout, s); e == nil {
			return t.Hour(), t.Minute(), t.Second(), nil
		}
	}
	return 0, 0, 0, fmt.Errorf("无效的时间格式: %q", s)
}

// NextDailyRun 计算 now 之后下一次执行时间
func NextDailyRun(now time.Time, hour, min, sec int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, min, sec, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// ScheduleDailyTaskAt 每天指定时间执行任务，ctx 取消后退出
func ScheduleDailyTaskAt(ctx context.Context, hour, min, sec int, task func(ctx context.Context)) {
	go func() {
		for {
			next := NextDailyRun(time.Now(), hour, min, sec)
			utils.Logger.Debug().Time("next", next).Msg("下一次定时任务")

			timer := time.NewTimer(time.Until(next))
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-timer.C:
				task(ctx)
			}
		}
	}()
}

package bulkbench

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	defaultProgressInterval = 3 * time.Second
	progressStopWait        = time.Second
)

// ProgressLogger 长任务进度播报器
// 按固定间隔输出“仍在进行中”的存活日志，只做旁路播报，不向调用方回传任何数据；
// Stop 幂等，返回前有界等待播报协程退出，保证调用方后续日志的先后顺序
type ProgressLogger struct {
	interval time.Duration
	announce func(label string, total int)

	mu     sync.Mutex
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewProgressLogger 创建进度播报器，interval <= 0 时使用 3 秒默认间隔
func NewProgressLogger(interval time.Duration) *ProgressLogger {
	if interval <= 0 {
		interval = defaultProgressInterval
	}
	return &ProgressLogger{
		interval: interval,
		announce: func(label string, total int) {
			logrus.Infof("%s：目标 %d 条记录，仍在进行中", label, total)
		},
	}
}

// Start 开始周期播报，重复调用会先终止上一轮播报
func (p *ProgressLogger) Start(label string, total int) {
	p.Stop()

	p.mu.Lock()
	stopCh := make(chan struct{})
	doneCh := make(chan struct{})
	p.stopCh = stopCh
	p.doneCh = doneCh
	p.mu.Unlock()

	go func() {
		defer close(doneCh)
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				p.announce(label, total)
			}
		}
	}()
}

// Stop 终止播报，幂等
func (p *ProgressLogger) Stop() {
	p.mu.Lock()
	stopCh := p.stopCh
	doneCh := p.doneCh
	p.stopCh = nil
	p.doneCh = nil
	p.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)

	select {
	case <-doneCh:
	case <-time.After(progressStopWait):
	}
}

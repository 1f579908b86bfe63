package bulkbench

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestProgressLoggerAnnouncesPeriodically(t *testing.T) {
	var count atomic.Int64
	p := NewProgressLogger(10 * time.Millisecond)
	p.announce = func(string, int) { count.Add(1) }

	p.Start("写入测试数据", 100)
	time.Sleep(100 * time.Millisecond)
	p.Stop()

	if count.Load() == 0 {
		t.Fatal("expected at least one announcement")
	}
}

// Stop 返回后不允许再观察到任何播报
func TestProgressLoggerStopIsFinal(t *testing.T) {
	var count atomic.Int64
	p := NewProgressLogger(5 * time.Millisecond)
	p.announce = func(string, int) { count.Add(1) }

	p.Start("写入测试数据", 100)
	time.Sleep(30 * time.Millisecond)
	p.Stop()

	after := count.Load()
	time.Sleep(50 * time.Millisecond)
	if count.Load() != after {
		t.Fatalf("announcements continued after Stop: %d -> %d", after, count.Load())
	}
}

func TestProgressLoggerStopIsIdempotent(t *testing.T) {
	p := NewProgressLogger(5 * time.Millisecond)
	p.announce = func(string, int) {}

	p.Stop() // 从未 Start 过
	p.Start("写入测试数据", 10)
	p.Stop()
	p.Stop()
	p.Stop()
}

func TestProgressLoggerRapidStartStopCycles(t *testing.T) {
	var count atomic.Int64
	p := NewProgressLogger(time.Millisecond)
	p.announce = func(string, int) { count.Add(1) }

	for i := 0; i < 100; i++ {
		p.Start("循环测试", i)
		p.Stop()
	}

	after := count.Load()
	time.Sleep(20 * time.Millisecond)
	if count.Load() != after {
		t.Fatalf("orphaned announcer survived start/stop cycles: %d -> %d", after, count.Load())
	}
}

func TestProgressLoggerStartReplacesPreviousRun(t *testing.T) {
	var count atomic.Int64
	p := NewProgressLogger(5 * time.Millisecond)
	p.announce = func(string, int) { count.Add(1) }

	p.Start("第一轮", 1)
	p.Start("第二轮", 2)
	p.Start("第三轮", 3)
	p.Stop()

	after := count.Load()
	time.Sleep(30 * time.Millisecond)
	if count.Load() != after {
		t.Fatal("previous announcer leaked past restart")
	}
}

package services

import (
	"sync"
	"time"
)

// maxEstimate is the highest progress value an upload can show before the
// service confirms it.
const maxEstimate = 99

// progressSim advances an estimated progress value on a ticker. The value is
// cosmetic; it does not track bytes on the wire.
type progressSim struct {
	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

// startProgress calls tick every interval until Stop. A zero interval
// disables the simulator.
func startProgress(interval time.Duration, tick func()) *progressSim {
	p := &progressSim{stop: make(chan struct{}), done: make(chan struct{})}
	if interval <= 0 {
		close(p.done)
		return p
	}

	go func() {
		defer close(p.done)
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-p.stop:
				return
			case <-t.C:
				tick()
			}
		}
	}()
	return p
}

// Stop halts the simulator and waits for an in-progress tick to finish, so
// no tick lands after it returns.
func (p *progressSim) Stop() {
	p.stopOnce.Do(func() { close(p.stop) })
	<-p.done
}

func clampCap(c int) int {
	if c < 0 {
		return 0
	}
	if c > maxEstimate {
		return maxEstimate
	}
	return c
}

// transferProgress maps bytes sent onto 0..ceiling.
func transferProgress(sent, total int64, ceiling int) int {
	if total <= 0 || sent <= 0 {
		return 0
	}
	if sent >= total {
		return ceiling
	}
	return int(sent * int64(ceiling) / total)
}

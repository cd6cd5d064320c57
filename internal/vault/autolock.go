package vault

import "time"

// Touch продлевает сессию: таймер автоблокировки отсчитывается заново от текущего момента.
func (s *State) Touch() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		return
	}
	s.touchLocked()
}

// touchLocked вызывается под s.mu.
func (s *State) touchLocked() {
	s.lastTouch = s.clock.Now()
	s.armLocked(s.autolock)
}

func (s *State) armLocked(d time.Duration) {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.clock.AfterFunc(d, s.checkAutolock)
}

// checkAutolock блокирует хранилище, только если реальный простой >= таймаута.
// Ранний вызов перезапускает таймер на оставшееся время и никогда не блокирует досрочно.
func (s *State) checkAutolock() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.key == nil {
		return
	}
	idle := s.clock.Since(s.lastTouch)
	if idle >= s.autolock {
		s.lockLocked("autolock")
		return
	}
	s.armLocked(s.autolock - idle)
}

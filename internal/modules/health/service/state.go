package service

import (
	"sync/atomic"
	"time"
)

type State struct {
	ready     atomic.Bool
	startedAt time.Time

	marketOpen   atomic.Bool
	feedUp       atomic.Bool
	lastTickUnix atomic.Int64 // unix seconds
	hotSize      atomic.Int64
	activeTrades atomic.Int64
}

func NewState() *State {
	s := &State{startedAt: time.Now()}
	s.ready.Store(false)
	return s
}

func (s *State) SetReady(v bool) { s.ready.Store(v) }
func (s *State) Ready() bool     { return s.ready.Load() }

func (s *State) SetMarketOpen(v bool) { s.marketOpen.Store(v) }
func (s *State) MarketOpen() bool     { return s.marketOpen.Load() }

func (s *State) SetFeedUp(v bool) { s.feedUp.Store(v) }
func (s *State) FeedUp() bool     { return s.feedUp.Load() }

func (s *State) TouchTick(t time.Time) { s.lastTickUnix.Store(t.Unix()) }
func (s *State) LastTick() time.Time {
	u := s.lastTickUnix.Load()
	if u == 0 {
		return time.Time{}
	}
	return time.Unix(u, 0)
}

func (s *State) SetTierSizes(hot, active int) {
	s.hotSize.Store(int64(hot))
	s.activeTrades.Store(int64(active))
}

func (s *State) HotSize() int      { return int(s.hotSize.Load()) }
func (s *State) ActiveTrades() int { return int(s.activeTrades.Load()) }

func (s *State) Uptime() time.Duration { return time.Since(s.startedAt) }

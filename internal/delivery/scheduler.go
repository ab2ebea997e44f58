// Copyright (c) 2026, the moviezone contributors.
// SPDX-License-Identifier: GPL-2.0-or-later

package delivery

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/moviezone/moviezone/internal/metrics"
)

const deleteCallTimeout = 15 * time.Second

// Deleter removes a previously delivered message.
type Deleter interface {
	DeleteMessage(ctx context.Context, chatID int64, messageID int64) error
}

// Ticket is one outstanding expiry obligation for a delivered message.
type Ticket struct {
	ChatID    int64
	MessageID int64
	Deadline  time.Time
}

// Scheduler expires delivered messages: one independent timer per ticket,
// a single best-effort deletion when the deadline elapses. Stopping the
// scheduler cancels pending tickets without firing them.
type Scheduler struct {
	deleter Deleter
	delay   time.Duration
	metrics *metrics.Metrics

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup

	// Clock and timer construction are injectable so tests can fire
	// countdowns without waiting them out.
	now      func() time.Time
	newTimer func(time.Duration) *time.Timer
}

func NewScheduler(deleter Deleter, delay time.Duration, m *metrics.Metrics) *Scheduler {
	return &Scheduler{
		deleter:  deleter,
		delay:    delay,
		metrics:  m,
		done:     make(chan struct{}),
		now:      time.Now,
		newTimer: time.NewTimer,
	}
}

// Delay returns the configured countdown, used to word the expiry warning.
func (s *Scheduler) Delay() time.Duration {
	return s.delay
}

// Schedule queues the expiry of one delivered message and returns
// immediately; the countdown runs independently of the caller.
func (s *Scheduler) Schedule(chatID, messageID int64) {
	ticket := Ticket{
		ChatID:    chatID,
		MessageID: messageID,
		Deadline:  s.now().Add(s.delay),
	}

	s.wg.Add(1)
	go s.expire(ticket)
}

func (s *Scheduler) expire(ticket Ticket) {
	defer s.wg.Done()

	timer := s.newTimer(ticket.Deadline.Sub(s.now()))
	defer timer.Stop()

	select {
	case <-s.done:
		return
	case <-timer.C:
	}

	ctx, cancel := context.WithTimeout(context.Background(), deleteCallTimeout)
	defer cancel()

	if err := s.deleter.DeleteMessage(ctx, ticket.ChatID, ticket.MessageID); err != nil {
		// The message may already be gone or permissions changed; either way
		// the obligation is spent.
		log.Debug().Err(err).Int64("chatID", ticket.ChatID).Int64("messageID", ticket.MessageID).Msg("expiry deletion failed")
	}

	s.metrics.Expiries.Inc()
}

// Stop cancels all pending tickets and waits for their goroutines to exit.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}

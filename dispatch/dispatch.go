// SPDX-License-Identifier: ice License 1.0

package dispatch

import (
	"container/heap"
	"context"
	"fmt"
	stdlibtime "time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"

	"github.com/ice-blockchain/courier/batch"
	appcfg "github.com/ice-blockchain/courier/config"
	"github.com/ice-blockchain/courier/log"
	"github.com/ice-blockchain/courier/schedule"
	"github.com/ice-blockchain/courier/time"
)

func New(applicationYAMLKey string, sender Sender) Scheduler {
	var cfg config
	appcfg.MustLoadFromKey(applicationYAMLKey, &cfg)

	if cfg.CourierDispatch.BatchSize == 0 {
		cfg.CourierDispatch.BatchSize = batch.DefaultSize
	}
	if cfg.CourierDispatch.SendAt == "" {
		cfg.CourierDispatch.SendAt = "09:00:00"
	}
	sendAt, err := schedule.ParseTimeOfDay(cfg.CourierDispatch.SendAt)
	log.Panic(errors.Wrapf(err, "invalid `%v`.sendAt", applicationYAMLKey)) //nolint:revive // .

	s := &scheduler{
		sender:    sender,
		nowFunc:   time.Now,
		wake:      make(chan struct{}, 1),
		closeCh:   make(chan struct{}),
		doneCh:    make(chan struct{}),
		sendAt:    sendAt,
		batchSize: cfg.CourierDispatch.BatchSize,
	}
	go s.run()

	return s
}

func (s *scheduler) SendNow(ctx context.Context, recipients []string, parcel *Parcel) *Result {
	return s.deliver(ctx, recipients, parcel)
}

func (s *scheduler) SendAt(recipients []string, parcel *Parcel, fireAt *time.Time) (TaskHandle, error) {
	if fireAt == nil || fireAt.Time == nil {
		return nil, ErrInvalidFireInstant
	}
	s.mx.Lock()
	if s.closed {
		s.mx.Unlock()

		return nil, ErrClosed
	}
	t := &task{
		fireAt:     fireAt,
		parcel:     parcel,
		id:         uuid.NewString(),
		recipients: recipients,
	}
	heap.Push(&s.tasks, t)
	s.mx.Unlock()
	select {
	case s.wake <- struct{}{}:
	default:
	}

	return t, nil
}

// SendBulk partitions recipients, delivers the first batch immediately and spreads the rest
// over the following calendar days at the configured time-of-day, one batch per day.
// A recipient list that fits into a single batch is not delivered immediately: it is deferred
// to the next occurrence of the configured time-of-day.
func (s *scheduler) SendBulk(ctx context.Context, recipients []string, parcel *Parcel) (*Result, []TaskHandle, error) {
	batches, err := batch.Split(recipients, s.batchSize)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to split %v recipients into batches", len(recipients))
	}
	if len(batches) == 0 {
		return nil, nil, nil
	}
	now := s.nowFunc()
	if len(batches) == 1 {
		handle, hErr := s.SendAt(batches[0], parcel, time.New(now.Add(schedule.DelayToNextOccurrence(now, s.sendAt))))
		if hErr != nil {
			return nil, nil, errors.Wrap(hErr, "failed to defer the only batch")
		}

		return nil, []TaskHandle{handle}, nil
	}
	result := s.deliver(ctx, batches[0], parcel)
	handles := make([]TaskHandle, 0, len(batches)-1)
	for i, b := range batches[1:] {
		handle, hErr := s.SendAt(b, parcel, schedule.FireInstantForBatch(now, i, s.sendAt))
		if hErr != nil {
			return result, handles, errors.Wrapf(hErr, "failed to defer batch %v", i+1)
		}
		handles = append(handles, handle)
	}

	return result, handles, nil
}

func (s *scheduler) Close() error {
	s.mx.Lock()
	if s.closed {
		s.mx.Unlock()

		return nil
	}
	s.closed = true
	s.tasks = nil
	s.mx.Unlock()
	close(s.closeCh)
	<-s.doneCh

	return nil
}

func (s *scheduler) run() {
	defer close(s.doneCh)
	timer := stdlibtime.NewTimer(stdlibtime.Hour)
	defer timer.Stop()
	for {
		due, wait := s.popDue()
		for _, t := range due {
			s.fire(t)
		}
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)
		select {
		case <-s.closeCh:
			return
		case <-s.wake:
		case <-timer.C:
		}
	}
}

func (s *scheduler) popDue() (due []*task, wait stdlibtime.Duration) {
	s.mx.Lock()
	defer s.mx.Unlock()
	now := s.nowFunc()
	for len(s.tasks) > 0 && !s.tasks[0].fireAt.After(*now.Time) {
		due = append(due, heap.Pop(&s.tasks).(*task)) //nolint:forcetypeassert // We know for sure.
	}
	wait = stdlibtime.Hour
	if len(s.tasks) > 0 {
		wait = s.tasks[0].fireAt.Sub(*now.Time)
	}

	return due, wait
}

func (s *scheduler) fire(t *task) {
	if !t.state.CompareAndSwap(taskPending, taskFired) {
		return
	}
	result := s.deliver(context.Background(), t.recipients, t.parcel)
	// Deferred batches have no caller to report to; logging is the only observable signal.
	if err := result.Err(); err != nil {
		log.Error(errors.Wrapf(err, "deferred batch %v partially failed", t.id), "attempted", result.Attempted, "delivered", result.Delivered)
	}
	log.Info(fmt.Sprintf("deferred batch %v fired", t.id), "attempted", result.Attempted, "delivered", result.Delivered)
}

func (s *scheduler) deliver(ctx context.Context, recipients []string, parcel *Parcel) *Result {
	result := &Result{Attempted: len(recipients)}
	for _, recipient := range recipients {
		if err := s.send(ctx, recipient, parcel); err != nil {
			result.Failures = append(result.Failures, Failure{Reason: err, Recipient: recipient})

			continue
		}
		result.Delivered++
	}

	return result
}

func (s *scheduler) send(ctx context.Context, recipient string, parcel *Parcel) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = errors.Errorf("sender panicked for %v: %v", recipient, recovered)
		}
	}()

	return s.sender.Send(ctx, recipient, parcel) //nolint:wrapcheck // It's aggregated per recipient by the caller.
}

func (r *Result) Failed() int {
	return len(r.Failures)
}

func (r *Result) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	var mErr *multierror.Error
	for i := range r.Failures {
		mErr = multierror.Append(mErr, errors.Wrapf(r.Failures[i].Reason, "failed to deliver to %v", r.Failures[i].Recipient))
	}

	return mErr.ErrorOrNil() //nolint:wrapcheck // It's the aggregation itself.
}

func (t *task) ID() string {
	return t.id
}

func (t *task) FireAt() *time.Time {
	return t.fireAt
}

func (t *task) Cancel() bool {
	return t.state.CompareAndSwap(taskPending, taskCancelled)
}

func (h taskHeap) Len() int {
	return len(h)
}

func (h taskHeap) Less(i, j int) bool {
	return h[i].fireAt.Before(*h[j].fireAt.Time)
}

func (h taskHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
}

func (h *taskHeap) Push(x any) {
	*h = append(*h, x.(*task)) //nolint:forcetypeassert // We know for sure.
}

func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]

	return t
}

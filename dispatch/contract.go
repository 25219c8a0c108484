// SPDX-License-Identifier: ice License 1.0

package dispatch

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"

	"github.com/ice-blockchain/courier/schedule"
	"github.com/ice-blockchain/courier/time"
)

// Public API.

var (
	ErrClosed             = errors.New("scheduler is closed")
	ErrInvalidFireInstant = errors.New("fire instant is required")
)

type (
	// Parcel is the immutable message payload; it is owned by the caller and read-only to the dispatch engine.
	Parcel struct {
		From    string
		Subject string
		Body    string
	}

	// Sender delivers a single message to a single recipient over some channel.
	// Any fault it raises is caught at the call site and converted into a per-recipient failure.
	Sender interface {
		Send(ctx context.Context, recipient string, parcel *Parcel) error
	}

	Failure struct {
		Reason    error
		Recipient string
	}

	// Result summarizes a single batch delivery. Per-recipient failures never abort the batch.
	Result struct {
		Failures  []Failure
		Attempted int
		Delivered int
	}

	// TaskHandle references a deferred batch. Cancel prevents delivery if the task has not fired yet;
	// tasks are one-shot and non-revocable once started.
	TaskHandle interface {
		ID() string
		FireAt() *time.Time
		Cancel() bool
	}

	Scheduler interface {
		SendNow(ctx context.Context, recipients []string, parcel *Parcel) *Result
		SendAt(recipients []string, parcel *Parcel, fireAt *time.Time) (TaskHandle, error)
		SendBulk(ctx context.Context, recipients []string, parcel *Parcel) (*Result, []TaskHandle, error)
		Close() error
	}
)

// Private API.

const (
	taskPending int32 = iota
	taskFired
	taskCancelled
)

type (
	config struct {
		CourierDispatch struct {
			SendAt    string `yaml:"sendAt" mapstructure:"sendAt"`
			BatchSize int    `yaml:"batchSize" mapstructure:"batchSize"`
		} `yaml:"courier/dispatch" mapstructure:"courier/dispatch"` //nolint:tagliatelle // Nope.
	}

	scheduler struct {
		sender    Sender
		nowFunc   func() *time.Time
		wake      chan struct{}
		closeCh   chan struct{}
		doneCh    chan struct{}
		tasks     taskHeap
		sendAt    schedule.TimeOfDay
		mx        sync.Mutex
		batchSize int
		closed    bool
	}

	task struct {
		fireAt     *time.Time
		parcel     *Parcel
		id         string
		recipients []string
		state      atomic.Int32
	}

	taskHeap []*task
)

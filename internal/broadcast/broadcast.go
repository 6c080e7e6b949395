package broadcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"OrtPrepBot/internal/utils/logger/sl"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultChunkSize       = 30
	DefaultInterChunkDelay = 50 * time.Millisecond
)

// PayloadKind discriminates what a broadcast carries.
type PayloadKind int

const (
	PayloadText PayloadKind = iota
	PayloadPhoto
)

// Payload is the content delivered to every recipient of a broadcast.
// For PayloadText only Text is set; for PayloadPhoto, PhotoID references
// an already-uploaded photo and Caption may be empty.
type Payload struct {
	Kind    PayloadKind
	Text    string
	PhotoID string
	Caption string
}

// MessageRef identifies a delivered message so it can be pinned later.
type MessageRef struct {
	ChatID    int64
	MessageID int
}

// Sender delivers a payload to a single recipient chat.
type Sender interface {
	Send(ctx context.Context, recipient int64, p Payload) (MessageRef, error)
}

// Pinner pins an already-delivered message in its chat.
type Pinner interface {
	Pin(ctx context.Context, ref MessageRef, silent bool) error
}

// DeliveryError reports a permanent per-recipient failure.
type DeliveryError struct {
	Recipient int64
	Cause     error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivery to %d failed: %v", e.Recipient, e.Cause)
}

func (e *DeliveryError) Unwrap() error { return e.Cause }

// RateLimitError signals a flood-control response from the transport.
// The whole chunk it interrupted is retried after RetryAfter elapses.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
}

// PinMode selects whether and how a group message gets pinned.
type PinMode int

const (
	PinNone PinMode = iota
	PinLoud
	PinSilent
)

// Status is a snapshot of a broadcast job. It is passed to the progress
// callback after every chunk and returned when the job finishes.
type Status struct {
	JobID      uuid.UUID
	Total      int
	Sent       int
	Failed     int
	StartedAt  time.Time
	FinishedAt time.Time
}

// ProgressFunc receives status snapshots as delivery advances. It may be nil.
type ProgressFunc func(Status)

// Manager fans a payload out to many chats in fixed-size concurrent chunks,
// pausing between chunks and backing off on flood control.
type Manager struct {
	sender    Sender
	pinner    Pinner
	chunkSize int
	delay     time.Duration
	log       *slog.Logger
}

func NewManager(logger *slog.Logger, sender Sender, pinner Pinner, chunkSize int, delay time.Duration) *Manager {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if delay <= 0 {
		delay = DefaultInterChunkDelay
	}
	return &Manager{
		sender:    sender,
		pinner:    pinner,
		chunkSize: chunkSize,
		delay:     delay,
		log:       logger,
	}
}

// Broadcast delivers p to every recipient. Recipients are processed in chunks
// of the configured size; each chunk is dispatched concurrently. A rate-limit
// error anywhere in a chunk discards that chunk's outcomes, waits out the
// longest advertised backoff and re-dispatches the same chunk, so recipients
// already reached in it may receive the payload twice. Cancellation is honored
// at chunk boundaries; the returned status always reflects work actually done.
func (m *Manager) Broadcast(ctx context.Context, p Payload, recipients []int64, onProgress ProgressFunc) (Status, error) {
	op := "broadcast.Manager.Broadcast()"
	log := m.log.With(
		slog.String("op", op),
	)

	status := Status{
		JobID:     uuid.New(),
		Total:     len(recipients),
		StartedAt: time.Now(),
	}
	log.Info("broadcast started",
		slog.String("jobID", status.JobID.String()),
		slog.Int("recipients", status.Total),
	)

	for start := 0; start < len(recipients); start += m.chunkSize {
		select {
		case <-ctx.Done():
			status.FinishedAt = time.Now()
			return status, fmt.Errorf("%s: %w", op, ctx.Err())
		default:
		}

		end := start + m.chunkSize
		if end > len(recipients) {
			end = len(recipients)
		}
		chunk := recipients[start:end]

		outcomes := m.dispatchChunk(ctx, p, chunk)

		if wait, limited := rateLimited(outcomes); limited {
			log.Warn("rate limited, retrying chunk",
				slog.String("jobID", status.JobID.String()),
				slog.Duration("retryAfter", wait),
			)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				status.FinishedAt = time.Now()
				return status, fmt.Errorf("%s: %w", op, ctx.Err())
			}
			start -= m.chunkSize
			continue
		}

		for i, err := range outcomes {
			if err != nil {
				status.Failed++
				log.Warn("delivery failed",
					slog.String("jobID", status.JobID.String()),
					slog.Int64("recipient", chunk[i]),
					sl.Err(err),
				)
				continue
			}
			status.Sent++
		}

		if onProgress != nil {
			onProgress(status)
		}

		if end < len(recipients) {
			select {
			case <-time.After(m.delay):
			case <-ctx.Done():
				status.FinishedAt = time.Now()
				return status, fmt.Errorf("%s: %w", op, ctx.Err())
			}
		}
	}

	status.FinishedAt = time.Now()
	log.Info("broadcast finished",
		slog.String("jobID", status.JobID.String()),
		slog.Int("sent", status.Sent),
		slog.Int("failed", status.Failed),
	)
	return status, nil
}

// dispatchChunk sends to every recipient of the chunk concurrently and
// collects per-recipient outcomes in order.
func (m *Manager) dispatchChunk(ctx context.Context, p Payload, chunk []int64) []error {
	outcomes := make([]error, len(chunk))

	g := new(errgroup.Group)
	for i, recipient := range chunk {
		g.Go(func() error {
			_, err := m.sender.Send(ctx, recipient, p)
			outcomes[i] = err
			return nil
		})
	}
	_ = g.Wait()

	return outcomes
}

// rateLimited reports whether any outcome carries a rate-limit error and
// returns the longest advertised backoff among them.
func rateLimited(outcomes []error) (time.Duration, bool) {
	var wait time.Duration
	var limited bool
	for _, err := range outcomes {
		var rl *RateLimitError
		if errors.As(err, &rl) {
			limited = true
			if rl.RetryAfter > wait {
				wait = rl.RetryAfter
			}
		}
	}
	return wait, limited
}

// BroadcastGroups delivers p to each group chat strictly in order, optionally
// pinning every delivered message. A rate-limit error waits out the backoff
// and retries the same group; any other error counts the group as failed and
// moves on. Pin failures do not fail the delivery.
func (m *Manager) BroadcastGroups(ctx context.Context, p Payload, groups []int64, pin PinMode, onProgress ProgressFunc) (Status, error) {
	op := "broadcast.Manager.BroadcastGroups()"
	log := m.log.With(
		slog.String("op", op),
	)

	status := Status{
		JobID:     uuid.New(),
		Total:     len(groups),
		StartedAt: time.Now(),
	}
	log.Info("group broadcast started",
		slog.String("jobID", status.JobID.String()),
		slog.Int("groups", status.Total),
		slog.Int("pin", int(pin)),
	)

	for i := 0; i < len(groups); i++ {
		select {
		case <-ctx.Done():
			status.FinishedAt = time.Now()
			return status, fmt.Errorf("%s: %w", op, ctx.Err())
		default:
		}

		group := groups[i]
		ref, err := m.sender.Send(ctx, group, p)
		if err != nil {
			var rl *RateLimitError
			if errors.As(err, &rl) {
				log.Warn("rate limited, retrying group",
					slog.String("jobID", status.JobID.String()),
					slog.Int64("group", group),
					slog.Duration("retryAfter", rl.RetryAfter),
				)
				select {
				case <-time.After(rl.RetryAfter):
				case <-ctx.Done():
					status.FinishedAt = time.Now()
					return status, fmt.Errorf("%s: %w", op, ctx.Err())
				}
				i--
				continue
			}
			status.Failed++
			log.Warn("group delivery failed",
				slog.String("jobID", status.JobID.String()),
				slog.Int64("group", group),
				sl.Err(err),
			)
			if onProgress != nil {
				onProgress(status)
			}
			continue
		}
		status.Sent++

		if pin != PinNone {
			if err := m.pinner.Pin(ctx, ref, pin == PinSilent); err != nil {
				log.Warn("pin failed",
					slog.String("jobID", status.JobID.String()),
					slog.Int64("group", group),
					sl.Err(err),
				)
			}
		}

		if onProgress != nil {
			onProgress(status)
		}

		if i < len(groups)-1 {
			select {
			case <-time.After(m.delay):
			case <-ctx.Done():
				status.FinishedAt = time.Now()
				return status, fmt.Errorf("%s: %w", op, ctx.Err())
			}
		}
	}

	status.FinishedAt = time.Now()
	log.Info("group broadcast finished",
		slog.String("jobID", status.JobID.String()),
		slog.Int("sent", status.Sent),
		slog.Int("failed", status.Failed),
	)
	return status, nil
}

package order

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"numbot/catalog"
	"numbot/clock"
	"numbot/core/logger"
	"numbot/number"
)

const component = "service.orders"

// Config carries the named, overridable timing constants of the lifecycle.
type Config struct {
	// ConfirmDelay is how long after creation the synthetic payment
	// confirmation fires.
	ConfirmDelay time.Duration
	// FollowUpDelay separates confirmation from the verification-code message.
	FollowUpDelay time.Duration
	// LeaseTTL is the activation window granted on confirmation.
	LeaseTTL time.Duration
}

// Default lifecycle timings, applied where Config fields are zero.
const (
	DefaultConfirmDelay  = 3 * time.Second
	DefaultFollowUpDelay = 4 * time.Second
	DefaultLeaseTTL      = time.Hour
)

func (c Config) withDefaults() Config {
	if c.ConfirmDelay <= 0 {
		c.ConfirmDelay = DefaultConfirmDelay
	}
	if c.FollowUpDelay <= 0 {
		c.FollowUpDelay = DefaultFollowUpDelay
	}
	if c.LeaseTTL <= 0 {
		c.LeaseTTL = DefaultLeaseTTL
	}
	return c
}

// Metrics receives lifecycle counters. A nop implementation is substituted
// when none is provided.
type Metrics interface {
	OrderCreated()
	OrderConfirmed()
	OrderRetired()
	NotifyFailed()
}

type nopMetrics struct{}

func (nopMetrics) OrderCreated()   {}
func (nopMetrics) OrderConfirmed() {}
func (nopMetrics) OrderRetired()   {}
func (nopMetrics) NotifyFailed()   {}

// Deps wires the collaborators of the state machine.
type Deps struct {
	Catalog   *catalog.Catalog
	Numbers   *number.Generator
	Orders    *Store
	Leases    *Leases
	Scheduler Scheduler
	Notifier  Notifier
	Clock     clock.Clock
	Metrics   Metrics
}

// Service is the order lifecycle state machine. It owns every transition
// between creation and retirement and all scheduling of delayed work.
type Service struct {
	catalog *catalog.Catalog
	numbers *number.Generator
	orders  *Store
	leases  *Leases
	sched   Scheduler
	notify  Notifier
	clk     clock.Clock
	metrics Metrics
	cfg     Config
}

// NewService builds the state machine from its dependencies.
func NewService(deps Deps, cfg Config) *Service {
	if deps.Clock == nil {
		deps.Clock = clock.NewSystem()
	}
	if deps.Metrics == nil {
		deps.Metrics = nopMetrics{}
	}
	return &Service{
		catalog: deps.Catalog,
		numbers: deps.Numbers,
		orders:  deps.Orders,
		leases:  deps.Leases,
		sched:   deps.Scheduler,
		notify:  deps.Notifier,
		clk:     deps.Clock,
		metrics: deps.Metrics,
		cfg:     cfg.withDefaults(),
	}
}

// CreateOrder reserves an instance of the selected variant for the user and
// schedules the confirmation transition. Each call creates an independent
// order; a prior pending order for the same user is left untouched.
func (s *Service) CreateOrder(ctx context.Context, userID int64, variantKey string, session SessionRef) (Order, error) {
	v, err := s.catalog.Get(variantKey)
	if err != nil {
		return Order{}, err
	}

	o := Order{
		ID:         uuid.NewString(),
		UserID:     userID,
		VariantKey: v.Key,
		InstanceID: s.numbers.Generate(v),
		Price:      v.Price,
		State:      StatePending,
		CreatedAt:  s.clk.Now(),
		Session:    session,
	}
	if err := s.orders.Create(o); err != nil {
		return Order{}, err
	}

	s.sched.Schedule(s.cfg.ConfirmDelay, Task{OrderID: o.ID, Stage: StageConfirm})
	s.metrics.OrderCreated()
	logger.Info(ctx, component, "order.created",
		slog.String("status", "ok"),
		slog.String("order_id", o.ID),
		slog.String("variant", o.VariantKey),
		slog.String("instance", o.InstanceID),
		slog.Int64("user_id", o.UserID),
		slog.Int("price", o.Price),
	)
	return o, nil
}

// HandleTask dispatches a fired scheduler task to its named transition.
func (s *Service) HandleTask(ctx context.Context, task Task) {
	switch task.Stage {
	case StageConfirm:
		s.onConfirmationFire(ctx, task.OrderID)
	case StageFollowUp:
		s.onFollowUpFire(ctx, task.OrderID)
	default:
		logger.Warn(ctx, component, "task.unknown_stage",
			slog.String("order_id", task.OrderID),
			slog.String("stage", string(task.Stage)),
		)
	}
}

// onConfirmationFire moves a pending order to confirmed, activates the lease,
// and notifies the session. A missing order means the timer lost a race with
// cancellation or retirement; that is a silent no-op.
func (s *Service) onConfirmationFire(ctx context.Context, orderID string) {
	o, ok := s.orders.Transition(orderID, StatePending, StateConfirmed)
	if !ok {
		logger.Debug(ctx, component, "confirm.skip",
			slog.String("status", "skip"),
			slog.String("order_id", orderID),
		)
		return
	}

	// Variant keys are validated at creation and the catalog never shrinks.
	v, _ := s.catalog.Get(o.VariantKey)

	now := s.clk.Now()
	lease := Lease{
		UserID:     o.UserID,
		InstanceID: o.InstanceID,
		VariantKey: o.VariantKey,
		ExpiresAt:  now.Add(s.cfg.LeaseTTL),
	}
	s.leases.Put(lease)
	s.metrics.OrderConfirmed()

	s.deliver(ctx, o.Session, Message{
		Text:    confirmedText(v, o.InstanceID, s.cfg.LeaseTTL),
		Replace: true,
	})
	s.sched.Schedule(s.cfg.FollowUpDelay, Task{OrderID: o.ID, Stage: StageFollowUp})

	logger.Info(ctx, component, "order.confirmed",
		slog.String("status", "ok"),
		slog.String("order_id", o.ID),
		slog.String("variant", o.VariantKey),
		slog.Int64("user_id", o.UserID),
		slog.Time("lease_expires_at", lease.ExpiresAt),
	)
}

// onFollowUpFire sends the synthetic verification code and retires the order.
// The record is removed first so a racing duplicate fire delivers nothing.
func (s *Service) onFollowUpFire(ctx context.Context, orderID string) {
	o, ok := s.orders.Remove(orderID)
	if !ok {
		logger.Debug(ctx, component, "follow_up.skip",
			slog.String("status", "skip"),
			slog.String("order_id", orderID),
		)
		return
	}

	s.deliver(ctx, o.Session, Message{Text: codeText(s.numbers.VerificationCode())})
	s.metrics.OrderRetired()

	logger.Info(ctx, component, "order.retired",
		slog.String("status", "ok"),
		slog.String("order_id", o.ID),
		slog.Int64("user_id", o.UserID),
	)
}

// ActiveLease reports the user's lease when one is still active.
func (s *Service) ActiveLease(userID int64) (Lease, bool) {
	return s.leases.Get(userID)
}

// Counts reports in-flight orders and lease records for diagnostics.
func (s *Service) Counts() (orders, leases int) {
	return s.orders.Len(), s.leases.Len()
}

// deliver pushes a notification best-effort. Failures are logged and counted
// but never undo the transition that produced the message.
func (s *Service) deliver(ctx context.Context, ref SessionRef, msg Message) {
	if s.notify == nil {
		return
	}
	if err := s.notify.Send(ref, msg); err != nil {
		s.metrics.NotifyFailed()
		logger.Warn(ctx, component, "notify.fail",
			slog.String("status", "fail"),
			slog.String("err", err.Error()),
		)
	}
}

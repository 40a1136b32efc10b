package order

import (
	"context"
	"errors"
	"math/rand/v2"
	"regexp"
	"testing"
	"time"

	"numbot/catalog"
	"numbot/clock"
	"numbot/number"
)

type scheduled struct {
	delay time.Duration
	task  Task
}

// fakeScheduler records schedules without firing them.
type fakeScheduler struct {
	calls []scheduled
}

func (f *fakeScheduler) Schedule(delay time.Duration, task Task) {
	f.calls = append(f.calls, scheduled{delay: delay, task: task})
}

type sent struct {
	ref SessionRef
	msg Message
}

// fakeNotifier records deliveries and can simulate transport failure.
type fakeNotifier struct {
	sent []sent
	err  error
}

func (f *fakeNotifier) Send(ref SessionRef, msg Message) error {
	f.sent = append(f.sent, sent{ref: ref, msg: msg})
	return f.err
}

type fixture struct {
	svc    *Service
	orders *Store
	leases *Leases
	sched  *fakeScheduler
	notif  *fakeNotifier
	now    time.Time
	cfg    Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewFixed(now)
	cfg := Config{
		ConfirmDelay:  3 * time.Second,
		FollowUpDelay: 4 * time.Second,
		LeaseTTL:      time.Hour,
	}

	f := &fixture{
		orders: NewStore(),
		leases: NewLeases(clk),
		sched:  &fakeScheduler{},
		notif:  &fakeNotifier{},
		now:    now,
		cfg:    cfg,
	}
	f.svc = NewService(Deps{
		Catalog:   catalog.Default(),
		Numbers:   number.New(rand.New(rand.NewPCG(1, 2))),
		Orders:    f.orders,
		Leases:    f.leases,
		Scheduler: f.sched,
		Notifier:  f.notif,
		Clock:     clk,
	}, cfg)
	return f
}

func TestCreateOrder(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	o, err := f.svc.CreateOrder(context.Background(), 42, "usa", "session-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	stored, ok := f.orders.Get(o.ID)
	if !ok {
		t.Fatal("expected order in store")
	}
	if stored.State != StatePending {
		t.Fatalf("expected pending, got %s", stored.State)
	}
	if !regexp.MustCompile(`^\+1\d{10}$`).MatchString(stored.InstanceID) {
		t.Fatalf("instance %q does not match the usa format rule", stored.InstanceID)
	}
	if stored.Price != 55 {
		t.Fatalf("expected price 55, got %d", stored.Price)
	}
	if !stored.CreatedAt.Equal(f.now) {
		t.Fatalf("expected createdAt %v, got %v", f.now, stored.CreatedAt)
	}

	if len(f.sched.calls) != 1 {
		t.Fatalf("expected exactly one schedule, got %d", len(f.sched.calls))
	}
	got := f.sched.calls[0]
	if got.task.Stage != StageConfirm || got.task.OrderID != o.ID {
		t.Fatalf("unexpected task: %+v", got.task)
	}
	if got.delay != f.cfg.ConfirmDelay {
		t.Fatalf("expected delay %v, got %v", f.cfg.ConfirmDelay, got.delay)
	}
}

func TestCreateOrderUnknownVariant(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	_, err := f.svc.CreateOrder(context.Background(), 42, "atlantis", nil)
	if !errors.Is(err, catalog.ErrUnknownVariant) {
		t.Fatalf("expected ErrUnknownVariant, got %v", err)
	}
	if len(f.sched.calls) != 0 {
		t.Fatal("expected nothing scheduled for a failed create")
	}
	if f.orders.Len() != 0 {
		t.Fatal("expected no order stored for a failed create")
	}
}

func TestConfirmationFire(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	o, err := f.svc.CreateOrder(ctx, 42, "ukraine", "session-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	f.svc.HandleTask(ctx, Task{OrderID: o.ID, Stage: StageConfirm})

	stored, ok := f.orders.Get(o.ID)
	if !ok {
		t.Fatal("expected order to remain until follow-up")
	}
	if stored.State != StateConfirmed {
		t.Fatalf("expected confirmed, got %s", stored.State)
	}

	lease, ok := f.svc.ActiveLease(42)
	if !ok {
		t.Fatal("expected active lease after confirmation")
	}
	if !lease.ExpiresAt.Equal(f.now.Add(f.cfg.LeaseTTL)) {
		t.Fatalf("expected expiry %v, got %v", f.now.Add(f.cfg.LeaseTTL), lease.ExpiresAt)
	}
	if lease.InstanceID != o.InstanceID {
		t.Fatalf("expected lease on %s, got %s", o.InstanceID, lease.InstanceID)
	}

	if len(f.notif.sent) != 1 {
		t.Fatalf("expected exactly one confirmation message, got %d", len(f.notif.sent))
	}
	got := f.notif.sent[0]
	if got.ref != SessionRef("session-1") {
		t.Fatalf("expected message routed to the order session, got %v", got.ref)
	}
	if !got.msg.Replace {
		t.Fatal("expected confirmation to replace the order message")
	}
	if !regexp.MustCompile("`\\+38097\\d{7}`").MatchString(got.msg.Text) {
		t.Fatalf("confirmation text does not carry the instance id: %q", got.msg.Text)
	}

	// Follow-up must be scheduled exactly once, after the confirm schedule.
	if len(f.sched.calls) != 2 {
		t.Fatalf("expected two schedules total, got %d", len(f.sched.calls))
	}
	follow := f.sched.calls[1]
	if follow.task.Stage != StageFollowUp || follow.task.OrderID != o.ID {
		t.Fatalf("unexpected follow-up task: %+v", follow.task)
	}
	if follow.delay != f.cfg.FollowUpDelay {
		t.Fatalf("expected delay %v, got %v", f.cfg.FollowUpDelay, follow.delay)
	}
}

func TestConfirmationFireOnMissingOrderIsNoop(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.svc.HandleTask(context.Background(), Task{OrderID: "gone", Stage: StageConfirm})

	if len(f.notif.sent) != 0 {
		t.Fatal("expected no notification for a missing order")
	}
	if _, ok := f.svc.ActiveLease(42); ok {
		t.Fatal("expected no lease for a missing order")
	}
	if len(f.sched.calls) != 0 {
		t.Fatal("expected no follow-up scheduled for a missing order")
	}
}

func TestFollowUpFire(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()
	o, err := f.svc.CreateOrder(ctx, 42, "usa", "session-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	f.svc.HandleTask(ctx, Task{OrderID: o.ID, Stage: StageConfirm})
	f.svc.HandleTask(ctx, Task{OrderID: o.ID, Stage: StageFollowUp})

	if _, ok := f.orders.Get(o.ID); ok {
		t.Fatal("expected order to be retired after follow-up")
	}
	if len(f.notif.sent) != 2 {
		t.Fatalf("expected confirmation plus code message, got %d", len(f.notif.sent))
	}
	code := f.notif.sent[1].msg
	if code.Replace {
		t.Fatal("expected the code to arrive as a new message")
	}
	if !regexp.MustCompile(`login code: \d{5}\.`).MatchString(code.Text) {
		t.Fatalf("expected a 5-digit code in %q", code.Text)
	}

	// A duplicate fire after retirement delivers nothing.
	f.svc.HandleTask(ctx, Task{OrderID: o.ID, Stage: StageFollowUp})
	if len(f.notif.sent) != 2 {
		t.Fatal("expected duplicate follow-up fire to be a no-op")
	}
}

func TestTwoOrdersSameUserLastConfirmedWins(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateOrder(ctx, 42, "usa", "s-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	second, err := f.svc.CreateOrder(ctx, 42, "ukraine", "s-2")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	f.svc.HandleTask(ctx, Task{OrderID: first.ID, Stage: StageConfirm})
	f.svc.HandleTask(ctx, Task{OrderID: second.ID, Stage: StageConfirm})

	lease, ok := f.svc.ActiveLease(42)
	if !ok {
		t.Fatal("expected an active lease")
	}
	if lease.InstanceID != second.InstanceID {
		t.Fatalf("expected most recently confirmed lease %s, got %s", second.InstanceID, lease.InstanceID)
	}
}

func TestNotificationFailureDoesNotRollBack(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.notif.err = errors.New("telegram is down")
	ctx := context.Background()

	o, err := f.svc.CreateOrder(ctx, 42, "usa", "s-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	f.svc.HandleTask(ctx, Task{OrderID: o.ID, Stage: StageConfirm})

	stored, ok := f.orders.Get(o.ID)
	if !ok || stored.State != StateConfirmed {
		t.Fatalf("expected confirmation to stand despite delivery failure, got %+v ok=%v", stored, ok)
	}
	if _, ok := f.svc.ActiveLease(42); !ok {
		t.Fatal("expected lease activation to stand despite delivery failure")
	}
}

func TestHandleTaskUnknownStage(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.svc.HandleTask(context.Background(), Task{OrderID: "o-1", Stage: Stage("bogus")})
	if len(f.notif.sent) != 0 || len(f.sched.calls) != 0 {
		t.Fatal("expected unknown stage to have no effect")
	}
}

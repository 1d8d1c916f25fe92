package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/kavacham/backend/internal/dedup"
	"github.com/kavacham/backend/internal/mail"
	"github.com/kavacham/backend/internal/model"
)

func TestWaitlistService_Join_New(t *testing.T) {
	repo := &memWaitlistRepo{}
	sender := &mockSender{}
	svc := NewWaitlistService(repo, newTestNotifier(t, sender), nil)

	res, err := svc.Join(context.Background(), "x@y.com")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.AlreadyExists {
		t.Error("expected alreadyExists=false on first join")
	}
	if res.Entry == nil || res.Entry.ID == "" {
		t.Fatal("expected stored entry with id")
	}
	if res.Entry.Status != "active" || res.Entry.Notified {
		t.Errorf("expected active/not-notified, got %q/%v", res.Entry.Status, res.Entry.Notified)
	}
	if sender.find(mail.KindWaitlistWelcome) == nil || sender.find(mail.KindWaitlistAdmin) == nil {
		t.Error("expected welcome and admin mails")
	}
}

func TestWaitlistService_Join_TwiceIsIdempotent(t *testing.T) {
	repo := &memWaitlistRepo{}
	sender := &mockSender{}
	svc := NewWaitlistService(repo, newTestNotifier(t, sender), nil)
	ctx := context.Background()

	first, err := svc.Join(ctx, "x@y.com")
	if err != nil || first.AlreadyExists {
		t.Fatalf("first join: %+v, %v", first, err)
	}
	second, err := svc.Join(ctx, "x@y.com")
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if !second.AlreadyExists {
		t.Error("expected alreadyExists=true on second join")
	}
	if n := repo.count("x@y.com"); n != 1 {
		t.Errorf("expected exactly 1 entry, got %d", n)
	}
	if len(sender.messages()) != 2 {
		t.Errorf("expected mails only for the first join, got %d", len(sender.messages()))
	}
}

func TestWaitlistService_Join_DuplicateOnInsertIsAlreadyExists(t *testing.T) {
	// The lookup misses but the unique index rejects the insert.
	repo := &racingRepo{memWaitlistRepo: &memWaitlistRepo{}}
	sender := &mockSender{}
	svc := NewWaitlistService(repo, newTestNotifier(t, sender), nil)

	res, err := svc.Join(context.Background(), "x@y.com")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !res.AlreadyExists {
		t.Error("expected alreadyExists=true after duplicate insert")
	}
	if len(sender.messages()) != 0 {
		t.Error("expected no mail for the losing request")
	}
}

// racingRepo inserts a competing entry between the lookup and the insert.
type racingRepo struct {
	*memWaitlistRepo
	once sync.Once
}

func (r *racingRepo) Create(ctx context.Context, entry *model.WaitlistEntry) error {
	r.once.Do(func() {
		competitor := *entry
		_ = r.memWaitlistRepo.Create(ctx, &competitor)
	})
	return r.memWaitlistRepo.Create(ctx, entry)
}

func TestWaitlistService_Join_ConcurrentSameEmail(t *testing.T) {
	repo := &memWaitlistRepo{}
	svc := NewWaitlistService(repo, newTestNotifier(t, &mockSender{}), nil)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Join(context.Background(), "x@y.com"); err != nil {
				t.Errorf("Join: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := repo.count("x@y.com"); n != 1 {
		t.Errorf("expected exactly 1 entry, got %d", n)
	}
}

func TestWaitlistService_Join_LockHeldEmptyStore(t *testing.T) {
	// The holder of the lock may still fail its insert, so a held lock
	// alone must not report the email as already joined.
	repo := &memWaitlistRepo{}
	locker := &stubLocker{acquired: false}
	sender := &mockSender{}
	svc := NewWaitlistService(repo, newTestNotifier(t, sender), locker)

	res, err := svc.Join(context.Background(), "x@y.com")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.AlreadyExists {
		t.Error("expected alreadyExists=false when nothing is stored")
	}
	if n := repo.count("x@y.com"); n != 1 {
		t.Errorf("expected exactly 1 entry, got %d", n)
	}
	if locker.released {
		t.Error("a lock held by someone else must not be released")
	}
	if len(sender.messages()) != 2 {
		t.Errorf("expected welcome and admin mails, got %d", len(sender.messages()))
	}
}

func TestWaitlistService_Join_LockHeldExistingEntry(t *testing.T) {
	repo := &memWaitlistRepo{}
	svc := NewWaitlistService(repo, newTestNotifier(t, &mockSender{}), nil)
	if _, err := svc.Join(context.Background(), "x@y.com"); err != nil {
		t.Fatalf("first join: %v", err)
	}

	held := NewWaitlistService(repo, newTestNotifier(t, &mockSender{}), &stubLocker{acquired: false})
	res, err := held.Join(context.Background(), "x@y.com")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if !res.AlreadyExists {
		t.Error("expected alreadyExists=true for a stored email")
	}
	if n := repo.count("x@y.com"); n != 1 {
		t.Errorf("expected exactly 1 entry, got %d", n)
	}
}

func TestWaitlistService_Join_ReleasesLock(t *testing.T) {
	locker := &stubLocker{acquired: true}
	svc := NewWaitlistService(&memWaitlistRepo{}, newTestNotifier(t, &mockSender{}), locker)

	if _, err := svc.Join(context.Background(), " x@y.com "); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if locker.key != "x@y.com" {
		t.Errorf("expected trimmed lock key, got %q", locker.key)
	}
	if !locker.released {
		t.Error("expected lock to be released")
	}
}

func TestWaitlistService_Join_LookupError(t *testing.T) {
	repo := &memWaitlistRepo{findErr: errors.New("timeout")}
	svc := NewWaitlistService(repo, newTestNotifier(t, &mockSender{}), nil)

	_, err := svc.Join(context.Background(), "x@y.com")
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
}

func TestWaitlistService_Join_InsertError(t *testing.T) {
	repo := &memWaitlistRepo{createErr: errors.New("write concern")}
	sender := &mockSender{}
	svc := NewWaitlistService(repo, newTestNotifier(t, sender), nil)

	_, err := svc.Join(context.Background(), "x@y.com")
	var storeErr *StoreError
	if !errors.As(err, &storeErr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if len(sender.messages()) != 0 {
		t.Error("expected no mail after failed insert")
	}
}

func TestWaitlistService_Join_MailFailureStillSucceeds(t *testing.T) {
	sender := &mockSender{
		sendFunc: func(ctx context.Context, msg *mail.Message) error { return errSMTPDown },
	}
	svc := NewWaitlistService(&memWaitlistRepo{}, newTestNotifier(t, sender), nil)

	res, err := svc.Join(context.Background(), "x@y.com")
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if res.Entry == nil || res.Entry.ID == "" {
		t.Error("expected record id despite mail failure")
	}
}

type stubLocker struct {
	acquired bool
	key      string
	released bool
}

func (l *stubLocker) Acquire(ctx context.Context, id string) (func(), bool) {
	l.key = id
	if !l.acquired {
		return func() {}, false
	}
	return func() { l.released = true }, true
}

func TestWaitlistService_Join_RedisLockHeldByOtherRequest(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	// Another join for the same email took the lock and has not finished.
	if err := mr.Set("lock:waitlist:x@y.com", "other-token"); err != nil {
		t.Fatal(err)
	}

	repo := &memWaitlistRepo{}
	lock := dedup.NewJoinLock(rdb, "waitlist", 10*time.Second)
	svc := NewWaitlistService(repo, newTestNotifier(t, &mockSender{}), lock)

	res, err := svc.Join(context.Background(), "x@y.com")
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if res.AlreadyExists {
		t.Error("expected alreadyExists=false with an empty store")
	}
	if n := repo.count("x@y.com"); n != 1 {
		t.Errorf("expected 1 stored entry, got %d", n)
	}
	if got, _ := mr.Get("lock:waitlist:x@y.com"); got != "other-token" {
		t.Errorf("the other request's lock must survive, got %q", got)
	}
}

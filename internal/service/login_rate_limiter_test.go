package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// fakeRedisCounter emula el script INCR+EXPIRE con contadores en memoria.
type fakeRedisCounter struct {
	counts  map[string]int64
	windows map[string]interface{}
	evalErr error
}

func newFakeRedisCounter() *fakeRedisCounter {
	return &fakeRedisCounter{counts: map[string]int64{}, windows: map[string]interface{}{}}
}

func (f *fakeRedisCounter) Eval(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	cmd := redis.NewCmd(ctx)
	if f.evalErr != nil {
		cmd.SetErr(f.evalErr)
		return cmd
	}
	f.counts[keys[0]]++
	if f.counts[keys[0]] == 1 && len(args) > 0 {
		f.windows[keys[0]] = args[0]
	}
	cmd.SetVal(f.counts[keys[0]])
	return cmd
}

func (f *fakeRedisCounter) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	for _, k := range keys {
		delete(f.counts, k)
	}
	cmd.SetVal(int64(len(keys)))
	return cmd
}

// lockoutFixture crea un UserService con una cuenta activa y el limiter dado.
func lockoutFixture(t *testing.T, limiter LoginRateLimiter) *UserService {
	t.Helper()
	svc := NewUserService(zap.NewNop(), newMockUserRepo(), limiter)
	for _, email := range []string{"ana@example.com", "beto@example.com"} {
		if _, err := svc.Signup(context.Background(), CreateUserInput{FullName: "Alumno", Email: email, Password: "supersecret"}); err != nil {
			t.Fatalf("signup %s: %v", email, err)
		}
	}
	return svc
}

func failLogins(svc *UserService, email string, n int) {
	for i := 0; i < n; i++ {
		_, _ = svc.Authenticate(context.Background(), email, "wrong-password")
	}
}

func TestAuthenticateLockout(t *testing.T) {
	limiters := map[string]func() LoginRateLimiter{
		"memory": func() LoginRateLimiter { return NewMemoryLoginRateLimiter(time.Minute, 3) },
		"redis": func() LoginRateLimiter {
			return &redisLoginRateLimiter{client: newFakeRedisCounter(), window: time.Minute, max: 3, prefix: "kairos:login:"}
		},
	}

	for name, build := range limiters {
		t.Run(name+"/locks email after max failures", func(t *testing.T) {
			svc := lockoutFixture(t, build())
			failLogins(svc, "ana@example.com", 3)

			_, err := svc.Authenticate(context.Background(), "ana@example.com", "supersecret")
			if !errors.Is(err, ErrRateLimited) {
				t.Fatalf("expected lockout even with the right password, got %v", err)
			}
		})

		t.Run(name+"/email variants share one counter", func(t *testing.T) {
			svc := lockoutFixture(t, build())
			failLogins(svc, "ANA@example.com", 1)
			failLogins(svc, "  ana@EXAMPLE.com ", 1)
			failLogins(svc, "ana@example.com", 1)

			if _, err := svc.Authenticate(context.Background(), "Ana@Example.Com", "supersecret"); !errors.Is(err, ErrRateLimited) {
				t.Fatalf("expected normalized emails to count together, got %v", err)
			}
		})

		t.Run(name+"/other emails unaffected", func(t *testing.T) {
			svc := lockoutFixture(t, build())
			failLogins(svc, "ana@example.com", 5)

			if _, err := svc.Authenticate(context.Background(), "beto@example.com", "supersecret"); err != nil {
				t.Fatalf("expected other account to log in, got %v", err)
			}
		})

		t.Run(name+"/success resets failures", func(t *testing.T) {
			svc := lockoutFixture(t, build())
			failLogins(svc, "ana@example.com", 2)
			if _, err := svc.Authenticate(context.Background(), "ana@example.com", "supersecret"); err != nil {
				t.Fatalf("expected login before limit, got %v", err)
			}
			failLogins(svc, "ana@example.com", 2)
			if _, err := svc.Authenticate(context.Background(), "ana@example.com", "supersecret"); err != nil {
				t.Fatalf("expected counter reset after success, got %v", err)
			}
		})
	}
}

func TestMemoryLoginRateLimiter_WindowExpires(t *testing.T) {
	l := NewMemoryLoginRateLimiter(40*time.Millisecond, 1)
	if !l.Allow("ana@example.com") {
		t.Fatalf("first attempt must pass")
	}
	if l.Allow("ana@example.com") {
		t.Fatalf("second attempt inside window must be limited")
	}
	time.Sleep(60 * time.Millisecond)
	if !l.Allow("ana@example.com") {
		t.Fatalf("attempt after window must pass")
	}
	if l.Allow("   ") {
		t.Fatalf("blank key must be rejected")
	}
}

func TestRedisLoginRateLimiter_WindowAndFailOpen(t *testing.T) {
	counter := newFakeRedisCounter()
	l := &redisLoginRateLimiter{client: counter, window: 2 * time.Minute, max: 2, prefix: "kairos:login:"}

	l.Allow(" Ana@Example.com ")
	if counter.counts["kairos:login:ana@example.com"] != 1 {
		t.Fatalf("unexpected counters: %+v", counter.counts)
	}
	if counter.windows["kairos:login:ana@example.com"] != 120 {
		t.Fatalf("expected 120s expiry on first hit, got %+v", counter.windows)
	}

	l.Reset("ANA@example.com")
	if _, ok := counter.counts["kairos:login:ana@example.com"]; ok {
		t.Fatalf("reset must delete the counter")
	}

	counter.evalErr = errors.New("redis down")
	for i := 0; i < 5; i++ {
		if !l.Allow("ana@example.com") {
			t.Fatalf("expected fail-open while redis is down")
		}
	}

	var nilLimiter *redisLoginRateLimiter
	if !nilLimiter.Allow("ana@example.com") {
		t.Fatalf("nil limiter must allow")
	}
	nilLimiter.Reset("ana@example.com")
}

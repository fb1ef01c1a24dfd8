package supervisor_test

import (
	"net"
	"testing"
	"time"

	"github.com/bamboo-mc/bamboo/supervisor"
)

func TestBackpressureTripsAtHighWaterMark(t *testing.T) {
	bp := supervisor.NewBackpressure(2, 1)
	if !bp.Allow() {
		t.Fatal("fresh gate should allow")
	}
	bp.Enter()
	bp.Enter()
	if bp.Allow() {
		t.Fatal("gate should have tripped at high water mark")
	}
	bp.Leave()
	if bp.Allow() {
		t.Fatal("gate should still be tripped at the low water mark")
	}
	bp.Leave()
	if !bp.Allow() {
		t.Fatal("gate should have cleared below the low water mark")
	}
}

func TestBackpressureDisabledWhenHighIsZero(t *testing.T) {
	bp := supervisor.NewBackpressure(0, 0)
	for i := 0; i < 1000; i++ {
		bp.Enter()
	}
	if !bp.Allow() {
		t.Fatal("a zero high water mark should disable the gate")
	}
}

type fakeAddr struct{ s string }

func (a fakeAddr) Network() string { return "tcp" }
func (a fakeAddr) String() string  { return a.s }

func TestLoginLimiterAllowsUnderLimit(t *testing.T) {
	limiter := supervisor.NewLoginLimiter(5, time.Minute, time.Minute, time.Minute)
	addr := fakeAddr{"127.0.0.1:1234"}
	for i := 0; i < 5; i++ {
		if !limiter.Allow(addr, "Notch") {
			t.Fatalf("attempt %d should be allowed under the limit", i)
		}
	}
}

func TestLoginLimiterBansUsernameSwitch(t *testing.T) {
	limiter := supervisor.NewLoginLimiter(1, time.Hour, time.Hour, time.Hour)
	addr := fakeAddr{"10.0.0.5:5555"}

	limiter.Allow(addr, "Notch")
	limiter.Allow(addr, "Notch") // trips the limiter, pins "Notch" for this IP
	if limiter.Allow(addr, "Notch") {
		t.Fatal("expected the first rejection once limiting engages")
	}
	if limiter.Allow(addr, "Herobrine") {
		t.Fatal("a different username from the same IP while limiting should be refused and blacklist the IP")
	}
	if limiter.Allow(addr, "Notch") {
		t.Fatal("IP should now be blacklisted even for the pinned username")
	}
}

func TestLoginLimiterZeroDisables(t *testing.T) {
	limiter := supervisor.NewLoginLimiter(0, time.Second, time.Second, time.Second)
	addr := fakeAddr{"1.2.3.4:1"}
	for i := 0; i < 100; i++ {
		if !limiter.Allow(addr, "anyone") {
			t.Fatal("rate limit 0 should disable limiting entirely")
		}
	}
}

func TestPoolServeStopsOnListenerClose(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	done := make(chan error, 1)
	pool := supervisor.NewPool(nil, supervisor.Config{Workers: 1})
	go func() { done <- pool.Serve(ln) }()

	ln.Close()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after listener close")
	}
}

package singleinstance

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"
)

func uniqueDisplay(t *testing.T) string {
	t.Helper()
	return fmt.Sprintf("test-%d-%d:0", os.Getpid(), time.Now().UnixNano())
}

func TestAcquireIsExclusive(t *testing.T) {
	display := uniqueDisplay(t)
	lock, err := Acquire(display)
	if err != nil {
		t.Skipf("abstract unix sockets unavailable in this environment: %v", err)
	}
	defer lock.Release()

	if !Held(display) {
		t.Fatal("expected the owner to answer")
	}
	if _, err := Acquire(display); !errors.Is(err, ErrBusy) {
		t.Fatalf("second Acquire = %v, want ErrBusy", err)
	}
}

func TestReleaseFreesLock(t *testing.T) {
	display := uniqueDisplay(t)
	lock, err := Acquire(display)
	if err != nil {
		t.Skipf("abstract unix sockets unavailable in this environment: %v", err)
	}
	if err := lock.Release(); err != nil {
		t.Fatal(err)
	}
	if Held(display) {
		t.Fatal("lock still held after Release")
	}
	again, err := Acquire(display)
	if err != nil {
		t.Fatalf("reacquire: %v", err)
	}
	again.Release()
}

func TestSocketName(t *testing.T) {
	tests := map[string]string{
		":0":          "@goslop-_0",
		"host:1.0":    "@goslop-host_1.0",
		"/tmp/x:0":    "@goslop-_tmp_x_0",
		"weird name!": "@goslop-weird_name_",
	}
	for in, want := range tests {
		if got := socketName(in); got != want {
			t.Errorf("socketName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestReleaseNil(t *testing.T) {
	var l *Lock
	if err := l.Release(); err != nil {
		t.Fatal(err)
	}
}

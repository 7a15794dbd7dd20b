// Package singleinstance keeps selection runs on one display exclusive.
package singleinstance

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"net"
	"strings"
	"sync"
	"time"
)

const (
	pingRequest  = "PING\n"
	pongResponse = "PONG\n"
	pingTimeout  = 300 * time.Millisecond
)

var ErrBusy = errors.New("another selection is already running on this display")

// Lock is owned by the one run allowed per display. It is an abstract
// unix socket, so the kernel releases it if the process dies.
type Lock struct {
	lis  net.Listener
	name string
	wg   sync.WaitGroup
}

// Acquire takes the lock for display. It returns ErrBusy when a live
// owner answers on the socket.
func Acquire(display string) (*Lock, error) {
	name := socketName(display)
	lis, err := net.Listen("unix", name)
	if err != nil {
		if Held(display) {
			return nil, ErrBusy
		}
		return nil, fmt.Errorf("singleinstance: failed to bind %s: %w", name, err)
	}
	l := &Lock{lis: lis, name: name}
	log.Printf("singleinstance: holding %s", name)
	l.wg.Add(1)
	go l.acceptLoop()
	return l, nil
}

// Held reports whether a live owner holds the lock for display.
func Held(display string) bool {
	conn, err := net.DialTimeout("unix", socketName(display), pingTimeout)
	if err != nil {
		return false
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(pingTimeout))
	if _, err := conn.Write([]byte(pingRequest)); err != nil {
		return false
	}
	resp, err := bufio.NewReader(conn).ReadString('\n')
	return err == nil && resp == pongResponse
}

func (l *Lock) acceptLoop() {
	defer l.wg.Done()
	for {
		conn, err := l.lis.Accept()
		if err != nil {
			return
		}
		answer(conn)
	}
}

func answer(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(pingTimeout))
	req, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil || req != pingRequest {
		return
	}
	_, _ = conn.Write([]byte(pongResponse))
}

// Release gives the lock up. Safe on a nil Lock.
func (l *Lock) Release() error {
	if l == nil || l.lis == nil {
		return nil
	}
	err := l.lis.Close()
	l.wg.Wait()
	l.lis = nil
	log.Printf("singleinstance: released %s", l.name)
	return err
}

// socketName maps a display such as ":0" or "host:1.0" to an abstract
// socket name.
func socketName(display string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-':
			return r
		}
		return '_'
	}, display)
	return "@goslop-" + clean
}

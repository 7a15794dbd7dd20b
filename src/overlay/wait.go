package overlay

import (
	"log"
	"time"
)

const (
	deathWaitTries    = 50
	deathWaitInterval = 10 * time.Millisecond
)

// windowWatcher reports unmap/destroy notifications for the overlay window.
type windowWatcher interface {
	WindowGone() bool
}

// waitForWindowDeath polls until the overlay window reports its death or
// the tries run out. A timeout is not an error.
func waitForWindowDeath(w windowWatcher, tries int, interval time.Duration, sleep func(time.Duration)) bool {
	for i := 0; i < tries; i++ {
		if w.WindowGone() {
			return true
		}
		sleep(interval)
	}
	log.Printf("overlay: overlay window still alive after %d polls", tries)
	return false
}

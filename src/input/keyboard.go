package input

import (
	"log"
	"time"

	"github.com/jezek/xgb/xproto"

	"goslop/src/x11"
)

const (
	grabAttempts = 10
	grabBackoff  = 10 * time.Millisecond
)

// Keymap is the 256-bit key state returned by QueryKeymap.
type Keymap [32]byte

// Keyboard tracks whether any key went down after the run started. Keys
// already held when the keyboard was created (the launching hotkey, say)
// are ignored until they are released.
type Keyboard struct {
	sess    *x11.Session
	held    Keymap
	current Keymap
	grabbed bool
}

// NewKeyboard grabs the keyboard, retrying briefly while another client
// still holds it. Call it inside Session.SuppressErrors: a failed grab is
// not fatal, key state is still polled.
func NewKeyboard(sess *x11.Session) *Keyboard {
	k := &Keyboard{sess: sess}
	for i := 0; i < grabAttempts; i++ {
		reply, err := xproto.GrabKeyboard(sess.Conn(), false, sess.Root(), xproto.TimeCurrentTime,
			xproto.GrabModeAsync, xproto.GrabModeAsync).Reply()
		if err == nil && reply.Status == xproto.GrabStatusSuccess {
			k.grabbed = true
			break
		}
		time.Sleep(grabBackoff)
	}
	if !k.grabbed {
		log.Printf("input: keyboard grab failed, polling without grab")
	}
	k.Update()
	k.held = k.current
	return k
}

// Update polls the key state.
func (k *Keyboard) Update() {
	reply, err := xproto.QueryKeymap(k.sess.Conn()).Reply()
	if err != nil {
		log.Printf("input: query keymap failed: %v", err)
		return
	}
	var next Keymap
	copy(next[:], reply.Keys)
	k.current = next
	k.held = k.held.intersect(next)
}

// AnyKeyDown reports whether a key not held at start is currently down.
func (k *Keyboard) AnyKeyDown() bool {
	return k.current.pressedSince(k.held)
}

// Close releases the keyboard grab. Safe on a nil Keyboard.
func (k *Keyboard) Close() {
	if k == nil || !k.grabbed {
		return
	}
	xproto.UngrabKeyboard(k.sess.Conn(), xproto.TimeCurrentTime)
	k.grabbed = false
}

// intersect keeps only keys down in both maps, so a released start key
// stops being ignored.
func (m Keymap) intersect(o Keymap) Keymap {
	var out Keymap
	for i := range m {
		out[i] = m[i] & o[i]
	}
	return out
}

func (m Keymap) pressedSince(held Keymap) bool {
	for i := range m {
		if m[i]&^held[i] != 0 {
			return true
		}
	}
	return false
}

package input

import "testing"

func TestKeymapPressedSince(t *testing.T) {
	var held, current Keymap
	held[4] = 0x01
	current[4] = 0x01

	if current.pressedSince(held) {
		t.Fatal("a key held since start must not count as pressed")
	}

	current[7] = 0x80
	if !current.pressedSince(held) {
		t.Fatal("expected new key to count as pressed")
	}
}

func TestKeymapReleasedStartKeyIsNoLongerIgnored(t *testing.T) {
	var held Keymap
	held[2] = 0x10

	var released Keymap
	held = held.intersect(released)

	var again Keymap
	again[2] = 0x10
	if !again.pressedSince(held) {
		t.Fatal("key pressed again after release should cancel")
	}
}

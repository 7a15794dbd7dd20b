package clipboard

import (
	"sync"

	"golang.design/x/clipboard"
)

var (
	writeMu  sync.Mutex
	initOnce sync.Once
	initErr  error
)

// Init prepares the system clipboard. Later calls return the first result.
func Init() error {
	initOnce.Do(func() {
		initErr = clipboard.Init()
	})
	return initErr
}

// Write performs a mutex-guarded clipboard write to prevent corruption under parallel writes.
// On X11 the text is served by this process; the returned channel is
// closed once another client takes the selection over.
func Write(text string) (<-chan struct{}, error) {
	if err := Init(); err != nil {
		return nil, err
	}
	writeMu.Lock()
	defer writeMu.Unlock()
	return clipboard.Write(clipboard.FmtText, []byte(text)), nil
}

// ABOUTME: Tests for the pending trigger flag and token matching
// ABOUTME: Covers burst collapse, take semantics and prefix matches
package trigger

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFlagTakeWithoutOffer(t *testing.T) {
	var f Flag
	assert.False(t, f.Pending())
	assert.False(t, f.Take())
}

func TestFlagOfferTake(t *testing.T) {
	var f Flag
	f.Offer()
	assert.True(t, f.Pending())
	assert.True(t, f.Take())
	assert.False(t, f.Pending())
	assert.False(t, f.Take())
}

func TestFlagBurstCollapses(t *testing.T) {
	var f Flag
	f.Offer()
	f.Offer()
	f.Offer()
	assert.True(t, f.Take())
	assert.False(t, f.Take(), "a burst yields exactly one pending trigger")
}

func TestFlagConcurrentTakeConsumesOnce(t *testing.T) {
	var f Flag
	f.Offer()

	var wg sync.WaitGroup
	var mu sync.Mutex
	taken := 0
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if f.Take() {
				mu.Lock()
				taken++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, taken)
}

func TestMatch(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		token   string
		want    bool
	}{
		{"exact", "PLAY", "PLAY", true},
		{"trailing newline", "PLAY\n", "PLAY", true},
		{"trailing text", "PLAYBACK", "PLAY", true},
		{"short", "PLA", "PLAY", false},
		{"other word", "STOP", "PLAY", false},
		{"lowercase", "play", "PLAY", false},
		{"empty payload", "", "PLAY", false},
		{"empty token", "PLAY", "", false},
		{"custom token", "GO!", "GO", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match([]byte(tt.payload), tt.token))
		})
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, `"STOP\n"`, Preview([]byte("STOP\n")))
	assert.Equal(t, `"\x00\x01"`, Preview([]byte{0, 1}))

	long := make([]byte, 100)
	for i := range long {
		long[i] = 'a'
	}
	p := Preview(long)
	assert.Contains(t, p, "...")
	assert.Less(t, len(p), 50)
}

func TestNewEventStampsID(t *testing.T) {
	a := NewEvent("udp", []byte("PLAY"))
	b := NewEvent("udp", []byte("PLAY"))
	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, "udp", a.Source)
	assert.False(t, a.Received.IsZero())
}

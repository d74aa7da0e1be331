package pipeline

import (
	"image"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMailbox_EmptyIsNotReady(t *testing.T) {
	m := NewMailbox()
	assert.False(t, m.Ready())
	_, err := m.Frame()
	assert.ErrorIs(t, err, ErrNoFrame)
}

func TestMailbox_Overwrite(t *testing.T) {
	m := NewMailbox()
	a := image.NewRGBA(image.Rect(0, 0, 1, 1))
	b := image.NewRGBA(image.Rect(0, 0, 2, 2))
	c := image.NewRGBA(image.Rect(0, 0, 3, 3))

	m.Publish(a)
	m.Publish(b)
	m.Publish(c)
	require.True(t, m.Ready())

	got, err := m.Frame()
	require.NoError(t, err)
	assert.Same(t, c, got)
	assert.Equal(t, uint64(2), m.Drops())
	assert.Equal(t, uint64(3), m.Published())
	assert.False(t, m.Ready())
}

func TestMailbox_CloseDrainsPending(t *testing.T) {
	m := NewMailbox()
	frame := image.NewRGBA(image.Rect(0, 0, 1, 1))
	m.Publish(frame)
	m.Close()
	assert.False(t, m.Closed(), "pending frame keeps the mailbox open")

	got, err := m.Frame()
	require.NoError(t, err)
	assert.Same(t, frame, got)

	assert.True(t, m.Closed())
	_, err = m.Frame()
	assert.ErrorIs(t, err, ErrSourceClosed)

	m.Publish(frame)
	assert.False(t, m.Ready(), "publish after close is ignored")
}

func TestMailbox_ConcurrentPublish(t *testing.T) {
	m := NewMailbox()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.Publish(image.NewRGBA(image.Rect(0, 0, 1, 1)))
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, uint64(800), m.Published())
	assert.Equal(t, uint64(799), m.Drops())
}

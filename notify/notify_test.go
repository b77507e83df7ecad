package notify_test

import (
	"sync"
	"testing"

	"github.com/neurocarehub/webfront/notify"
	"github.com/stretchr/testify/require"
)

func TestNotifyWithoutSubscriberIsNoOp(t *testing.T) {
	center := notify.NewCenter()
	require.NotPanics(t, func() {
		center.Notify(notify.New(notify.SeverityError, "server error"))
	})
}

func TestNotifyDeliversToSubscriber(t *testing.T) {
	center := notify.NewCenter()

	var received []notify.Toast
	center.Subscribe(func(toast notify.Toast) {
		received = append(received, toast)
	})

	toast := notify.New(notify.SeverityWarning, "record not found")
	center.Notify(toast)

	require.Len(t, received, 1)
	require.Equal(t, toast.ID, received[0].ID)
	require.Equal(t, notify.SeverityWarning, received[0].Severity)
	require.Equal(t, "record not found", received[0].Message)
	require.Equal(t, notify.DefaultTTL, received[0].TTL)
}

func TestSubscribeReplacesPreviousSubscriber(t *testing.T) {
	center := notify.NewCenter()

	var first, second int
	center.Subscribe(func(notify.Toast) { first++ })
	center.Subscribe(func(notify.Toast) { second++ })

	center.Notify(notify.New(notify.SeverityInfo, "hello"))

	require.Zero(t, first, "replaced subscriber should not receive toasts")
	require.Equal(t, 1, second)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	center := notify.NewCenter()

	var count int
	unsubscribe := center.Subscribe(func(notify.Toast) { count++ })
	unsubscribe()

	center.Notify(notify.New(notify.SeverityInfo, "hello"))
	require.Zero(t, count)
}

func TestUnsubscribeDoesNotRemoveReplacement(t *testing.T) {
	center := notify.NewCenter()

	unsubscribeFirst := center.Subscribe(func(notify.Toast) {})

	var count int
	center.Subscribe(func(notify.Toast) { count++ })

	// Stale unsubscribe must not knock out the replacement.
	unsubscribeFirst()

	center.Notify(notify.New(notify.SeverityInfo, "hello"))
	require.Equal(t, 1, count)
}

func TestConcurrentPublishIsSafe(t *testing.T) {
	center := notify.NewCenter()

	var mu sync.Mutex
	var count int
	center.Subscribe(func(notify.Toast) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			center.Notify(notify.New(notify.SeverityInfo, "ping"))
		}()
	}
	wg.Wait()

	require.Equal(t, 16, count)
}

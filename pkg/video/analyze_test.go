package video

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDrainFramesUnblocksSender(t *testing.T) {
	framesC := make(chan *frameObjects)
	senderDone := make(chan struct{})

	// sender behaves like the detector feed: unbuffered sends, closes when finished
	go func() {
		defer close(senderDone)
		defer close(framesC)
		for i := 0; i < 5; i++ {
			framesC <- newFrameObjects(i)
		}
	}()

	// consume a single frame, then abandon the loop the way a short video does
	<-framesC
	drainFrames(framesC)

	select {
	case <-senderDone:
	case <-time.After(time.Second):
		require.Fail(t, "sender still blocked after drain")
	}
}

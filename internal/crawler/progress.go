package crawler

// ProgressSink receives human-readable progress messages while a crawl is
// running.
//
// Design decision: Progress is an observer interface rather than a bare
// callback field because:
//  1. Multiple adapter shapes (function, channel) can satisfy it
//  2. The zero case (no sink) is an explicit nil check, not a nil call
//  3. Tests can record messages with a tiny fake
type ProgressSink interface {
	// Publish delivers one progress message. Implementations must not
	// block the crawl.
	Publish(message string)
}

// ProgressFunc adapts a plain function to the ProgressSink interface.
type ProgressFunc func(message string)

// Publish calls the underlying function.
func (f ProgressFunc) Publish(message string) {
	f(message)
}

// ChannelSink adapts a channel to the ProgressSink interface.
// Messages are dropped when the channel is full so that a slow consumer
// never stalls the crawl.
type ChannelSink chan string

// Publish sends the message without blocking.
func (c ChannelSink) Publish(message string) {
	select {
	case c <- message:
	default:
	}
}

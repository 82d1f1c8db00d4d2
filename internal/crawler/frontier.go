package crawler

// queueItem is a URL awaiting a visit, paired with its distance from the
// seed.
type queueItem struct {
	url   string
	depth int
}

// frontier is the crawl's work queue. It keeps FIFO order for breadth-first
// traversal while maintaining two membership sets so that duplicate checks
// are constant time:
//
//   - pending: URLs currently waiting in the queue
//   - visited: URLs already dequeued and processed
//
// A frontier belongs to exactly one Crawl invocation and is never shared,
// so it needs no locking.
type frontier struct {
	queue   []queueItem
	pending map[string]struct{}
	visited map[string]struct{}
}

func newFrontier() *frontier {
	return &frontier{
		queue:   make([]queueItem, 0),
		pending: make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
}

// enqueue adds a URL at the given depth unless it was already visited or is
// already waiting in the queue. It reports whether the URL was accepted.
func (f *frontier) enqueue(url string, depth int) bool {
	if _, ok := f.visited[url]; ok {
		return false
	}
	if _, ok := f.pending[url]; ok {
		return false
	}
	f.queue = append(f.queue, queueItem{url: url, depth: depth})
	f.pending[url] = struct{}{}
	return true
}

// dequeue removes and returns the oldest queued item.
// The second return value is false when the queue is empty.
func (f *frontier) dequeue() (queueItem, bool) {
	if len(f.queue) == 0 {
		return queueItem{}, false
	}
	item := f.queue[0]
	f.queue = f.queue[1:]
	delete(f.pending, item.url)
	return item, true
}

// markVisited records that a URL has been processed.
func (f *frontier) markVisited(url string) {
	f.visited[url] = struct{}{}
}

// isVisited reports whether a URL has already been processed.
func (f *frontier) isVisited(url string) bool {
	_, ok := f.visited[url]
	return ok
}

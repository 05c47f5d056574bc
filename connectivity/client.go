package connectivity

import (
	"context"
	"sync"
)

// Client receives reachability events until it is cancelled.
type Client struct {
	Events      <-chan Event
	Id          uint32
	events      chan Event
	cancelChan  chan struct{}
	cancelOnce  sync.Once
	broadcaster *Broadcaster
}

func (c *Client) Cancel() {
	c.cancelOnce.Do(func() {
		c.broadcaster.deleteClient(c.Id)
		close(c.cancelChan)
	})
}

// send delivers e unless the client is cancelled first.
func (c *Client) send(e Event) {
	select {
	case c.events <- e:
	case <-c.cancelChan:
	}
}

type nextClient struct {
	sync.Mutex
	id uint32
}

// check Broadcaster compliance to its interface during compile time
var _ Reporter = (*Broadcaster)(nil)

// Broadcaster keeps a reachability state and fans its changes out to the
// subscribed clients. Reachability sources embed it and call Set.
type Broadcaster struct {
	sendMu     sync.Mutex
	mu         sync.Mutex
	state      State
	changed    chan struct{}
	clients    map[uint32]*Client
	nextClient nextClient
	log        Logger
}

func NewBroadcaster(initial State, logger Logger) *Broadcaster {
	if logger == nil {
		logger = noopLogger{}
	}

	return &Broadcaster{
		state:   initial,
		changed: make(chan struct{}),
		clients: make(map[uint32]*Client),
		log:     logger,
	}
}

func (b *Broadcaster) Subscribe() *Client {
	events := make(chan Event)

	client := &Client{
		Events:      events,
		events:      events,
		cancelChan:  make(chan struct{}),
		broadcaster: b,
	}

	b.nextClient.Lock()
	client.Id = b.nextClient.id
	b.nextClient.id++
	b.nextClient.Unlock()

	b.mu.Lock()
	b.clients[client.Id] = client
	b.mu.Unlock()

	return client
}

func (b *Broadcaster) deleteClient(id uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.clients, id)
}

func (b *Broadcaster) CurrentState() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.state
}

// Set moves to state s and notifies every client, returning false if the
// state did not change. Clients are served in order, so a slow client holds
// up the others but never sees events out of order.
func (b *Broadcaster) Set(s State) bool {
	b.sendMu.Lock()
	defer b.sendMu.Unlock()

	b.mu.Lock()
	if b.state == s {
		b.mu.Unlock()
		return false
	}

	b.state = s
	close(b.changed)
	b.changed = make(chan struct{})

	clients := make([]*Client, 0, len(b.clients))
	for _, client := range b.clients {
		clients = append(clients, client)
	}
	b.mu.Unlock()

	b.log.Infof("Connectivity changed to %v", s)

	event := EventFor(s)
	for _, client := range clients {
		client.send(event)
	}

	return true
}

func (b *Broadcaster) WaitForStateChange(ctx context.Context, s State) bool {
	for {
		b.mu.Lock()
		if b.state != s {
			b.mu.Unlock()
			return true
		}
		changed := b.changed
		b.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return false
		}
	}
}

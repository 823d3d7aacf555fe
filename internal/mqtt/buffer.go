package mqtt

import "log"

// pendingMsg is a serialized message held for replay after reconnection.
type pendingMsg struct {
	topic    string
	payload  []byte
	qos      byte
	retained bool
}

// outbox is a fixed-capacity FIFO of messages published while disconnected.
// When full, the oldest message is dropped. Not safe for concurrent use.
type outbox struct {
	msgs    []pendingMsg
	next    int // slot the next push writes
	size    int
	dropped int // messages lost since the last drain
}

func newOutbox(capacity int) *outbox {
	return &outbox{msgs: make([]pendingMsg, capacity)}
}

func (o *outbox) push(m pendingMsg) {
	if len(o.msgs) == 0 {
		o.dropped++
		return
	}
	if o.size == len(o.msgs) {
		if o.dropped == 0 {
			log.Printf("mqtt: outbox full (%d messages), dropping oldest", len(o.msgs))
		}
		o.dropped++
	} else {
		o.size++
	}
	o.msgs[o.next] = m
	o.next = (o.next + 1) % len(o.msgs)
}

// drain returns queued messages oldest first and empties the outbox, along
// with how many were dropped.
func (o *outbox) drain() ([]pendingMsg, int) {
	dropped := o.dropped
	o.dropped = 0
	if o.size == 0 {
		return nil, dropped
	}

	out := make([]pendingMsg, o.size)
	first := (o.next - o.size + len(o.msgs)) % len(o.msgs)
	for i := range out {
		out[i] = o.msgs[(first+i)%len(o.msgs)]
	}
	o.size = 0
	o.next = 0
	return out, dropped
}

func (o *outbox) len() int {
	return o.size
}

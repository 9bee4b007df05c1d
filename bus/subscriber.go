package bus

// Subscriber receives lifecycle envelopes from the bus.
type Subscriber interface {
	// Subscribe delivers raw envelope payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}

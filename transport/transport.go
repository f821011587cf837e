package transport

type Protocol string

const (
	TCP  Protocol = "tcp"
	Pipe Protocol = "pipe" // in-memory
)

// Addr identifies one end of a [Conn].
type Addr interface {
	Protocol() Protocol
	// String is what peers use to name the endpoint, e.g. in a Host header.
	String() string
}

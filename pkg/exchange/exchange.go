// Package exchange scripts an HTTP or HTTPS request/response cycle between
// a client and a server as an ordered list of steps.
//
// Script returns the full cycle (DNS, TCP handshake, optional TLS
// handshake, request, processing, response). Flow is the simpler
// ping-pong view: each Next moves the packet to the other end.
package exchange

import (
	"fmt"
	"strings"
)

// Protocol is HTTP or HTTPS.
type Protocol int

const (
	HTTP Protocol = iota
	HTTPS
)

// String returns a human-readable representation of the protocol.
func (p Protocol) String() string {
	if p == HTTPS {
		return "HTTPS"
	}
	return "HTTP"
}

// MarshalText implements encoding.TextMarshaler.
func (p Protocol) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Toggle returns the other protocol.
func (p Protocol) Toggle() Protocol {
	if p == HTTPS {
		return HTTP
	}
	return HTTPS
}

// ParseProtocol accepts "http" or "https" in any case.
func ParseProtocol(raw string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "http":
		return HTTP, nil
	case "https":
		return HTTPS, nil
	default:
		return HTTP, fmt.Errorf("exchange: unknown protocol %q", raw)
	}
}

// Direction is the way a packet travels during a step.
type Direction int

const (
	None Direction = iota
	ToServer
	ToClient
)

// String returns a human-readable representation of the direction.
func (d Direction) String() string {
	switch d {
	case ToServer:
		return "client->server"
	case ToClient:
		return "server->client"
	default:
		return "-"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Phase groups the steps of a cycle.
type Phase string

const (
	PhaseDNS      Phase = "dns"
	PhaseTCP      Phase = "tcp"
	PhaseTLS      Phase = "tls"
	PhaseRequest  Phase = "request"
	PhaseServer   Phase = "server"
	PhaseResponse Phase = "response"
	PhaseDone     Phase = "done"
)

// Step is one stage of a request/response cycle.
type Step struct {
	Phase     Phase     `json:"phase" yaml:"phase"`
	Direction Direction `json:"direction" yaml:"direction"`
	Message   string    `json:"message" yaml:"message"`
}

// HandshakeRounds is how many SYN/ACK ping pairs the TCP phase shows.
const HandshakeRounds = 2

// Script returns the steps of one request/response cycle over p.
func Script(p Protocol) []Step {
	steps := []Step{
		{Phase: PhaseDNS, Message: "DNS: resolving domain..."},
		{Phase: PhaseTCP, Message: "TCP: 3-way handshake (SYN, SYN-ACK, ACK)..."},
	}
	for i := 0; i < HandshakeRounds; i++ {
		steps = append(steps,
			Step{Phase: PhaseTCP, Direction: ToServer, Message: "SYN"},
			Step{Phase: PhaseTCP, Direction: ToClient, Message: "SYN-ACK"},
		)
	}
	steps = append(steps, Step{Phase: PhaseTCP, Direction: ToServer, Message: "ACK"})

	request := "HTTP: Sending GET /index.html"
	if p == HTTPS {
		steps = append(steps,
			Step{Phase: PhaseTLS, Message: "TLS: performing handshake (certificate exchange)..."},
			Step{Phase: PhaseTLS, Direction: ToClient, Message: "TLS: server sends certificate..."},
			Step{Phase: PhaseTLS, Direction: ToServer, Message: "TLS: exchanging keys..."},
			Step{Phase: PhaseTLS, Message: "TLS: secure channel established."},
		)
		request = "HTTPS: Sending encrypted GET /index.html"
	}

	return append(steps,
		Step{Phase: PhaseRequest, Direction: ToServer, Message: request},
		Step{Phase: PhaseServer, Message: "Server: processing request..."},
		Step{Phase: PhaseResponse, Direction: ToClient, Message: "Server: responding with HTTP/1.1 200 OK"},
		Step{Phase: PhaseDone, Message: "Transaction complete. Connection keep-alive."},
	)
}

// Flow is a packet bouncing between client and server.
// The zero value starts at the client heading to the server over HTTP.
type Flow struct {
	protocol Protocol
	toClient bool
}

// NewFlow returns a flow using p.
func NewFlow(p Protocol) *Flow {
	return &Flow{protocol: p}
}

// Protocol returns the current protocol.
func (f *Flow) Protocol() Protocol {
	return f.protocol
}

// Next delivers the packet to the end it was heading for and returns the
// status shown on arrival.
func (f *Flow) Next() Step {
	if f.toClient {
		f.toClient = false
		return Step{Phase: PhaseRequest, Direction: ToServer, Message: "Request: GET /index.html"}
	}
	f.toClient = true
	return Step{Phase: PhaseResponse, Direction: ToClient, Message: "Response: 200 OK"}
}

// ToggleProtocol switches between HTTP and HTTPS and returns the status line.
func (f *Flow) ToggleProtocol() string {
	f.protocol = f.protocol.Toggle()
	if f.protocol == HTTPS {
		return "Protocol: HTTPS (Encrypted)"
	}
	return "Protocol: HTTP"
}

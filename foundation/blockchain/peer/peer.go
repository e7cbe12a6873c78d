// Package peer maintains the peer related information such as the set
// of know peers and how to talk to them.
package peer

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"slices"
	"strings"
	"sync"
)

// ErrInvalidAddress is returned when a node address can't be used to reach
// a peer.
var ErrInvalidAddress = errors.New("invalid address")

// Peer represents information about a Node in the network.
type Peer struct {
	Host string
}

// New contructs a new peer from an address. The address is normalized so
// the same node always has the same identity.
func New(address string) (Peer, error) {
	host, err := Normalize(address)
	if err != nil {
		return Peer{}, err
	}

	return Peer{Host: host}, nil
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// String implements the fmt.Stringer interface.
func (p Peer) String() string {
	return p.Host
}

// =============================================================================

// Normalize converts an address into the form scheme://host:port. The
// address must be an absolute http or https url with a host. A missing port
// is filled in with the default port for the scheme and any path, query or
// fragment is dropped.
func Normalize(address string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(address))
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidAddress, address, err)
	}

	scheme := strings.ToLower(u.Scheme)

	var defPort string
	switch scheme {
	case "http":
		defPort = "80"
	case "https":
		defPort = "443"
	default:
		return "", fmt.Errorf("%w: %q: scheme must be http or https", ErrInvalidAddress, address)
	}

	hostname := strings.ToLower(u.Hostname())
	if hostname == "" {
		return "", fmt.Errorf("%w: %q: host is required", ErrInvalidAddress, address)
	}

	port := u.Port()
	if port == "" {
		port = defPort
	}

	return scheme + "://" + net.JoinHostPort(hostname, port), nil
}

// ParseAddresses converts the set of raw addresses into peers. Either every
// address is valid and all the peers are returned or an error is returned
// for the first bad address and no peers are returned.
func ParseAddresses(addresses []string) ([]Peer, error) {
	if len(addresses) == 0 {
		return nil, fmt.Errorf("%w: please supply a valid list of nodes", ErrInvalidAddress)
	}

	peers := make([]Peer, 0, len(addresses))
	for _, address := range addresses {
		peer, err := New(address)
		if err != nil {
			return nil, err
		}
		peers = append(peers, peer)
	}

	return peers, nil
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Add adds a new node to the set.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	delete(ps.set, peer)
}

// Count returns the number of known peers.
func (ps *PeerSet) Count() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.set)
}

// Copy returns a list of the known peers sorted by host, leaving out
// the specified host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var peers []Peer
	for peer := range ps.set {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	slices.SortFunc(peers, func(a, b Peer) int {
		return strings.Compare(a.Host, b.Host)
	})

	return peers
}

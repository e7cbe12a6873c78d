package peer_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []peer.Peer
	}

	tt := []table{
		{
			name:  "basic",
			peers: []peer.Peer{{Host: "http://host3:80"}, {Host: "http://host1:80"}, {Host: "http://host2:80"}},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, peer := range tst.peers {
				ps.Add(peer)
			}

			if ps.Add(tst.peers[0]) {
				t.Fatalf("Test %s:\tShould not add the same peer twice.", tst.name)
			}

			peers := ps.Copy("")
			if len(peers) != len(tst.peers) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers))
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			for i := 1; i < len(peers); i++ {
				if peers[i-1].Host >= peers[i].Host {
					t.Fatalf("Test %s:\tShould get back the peers in host order: %v", tst.name, peers)
				}
			}

			peers = ps.Copy(tst.peers[0].Host)
			if len(peers) != len(tst.peers)-1 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers)-1)
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			ps.Remove(tst.peers[0])
			if ps.Count() != len(tst.peers)-1 {
				t.Fatalf("Test %s:\tShould be able to remove a peer.", tst.name)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_Normalize(t *testing.T) {
	type table struct {
		name    string
		address string
		host    string
		valid   bool
	}

	tt := []table{
		{name: "port", address: "http://192.168.0.5:5000", host: "http://192.168.0.5:5000", valid: true},
		{name: "defport", address: "http://x/", host: "http://x:80", valid: true},
		{name: "https", address: "HTTPS://Node.Example.com/chain?x=1", host: "https://node.example.com:443", valid: true},
		{name: "spaces", address: "  http://localhost:8080  ", host: "http://localhost:8080", valid: true},
		{name: "ipv6", address: "http://[::1]:9000", host: "http://[::1]:9000", valid: true},
		{name: "noscheme", address: "192.168.0.5:5000", valid: false},
		{name: "words", address: "not a url", valid: false},
		{name: "ftp", address: "ftp://x:21", valid: false},
		{name: "nohost", address: "http://", valid: false},
		{name: "empty", address: "", valid: false},
	}

	t.Log("Given the need to normalize node addresses.")
	{
		for testID, tst := range tt {
			f := func(t *testing.T) {
				t.Logf("\tTest %d:\tWhen handling address %q.", testID, tst.address)
				{
					host, err := peer.Normalize(tst.address)

					switch tst.valid {
					case true:
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould be able to normalize the address: %v", failed, testID, err)
						}
						if host != tst.host {
							t.Logf("\t%s\tTest %d:\tgot: %s", failed, testID, host)
							t.Logf("\t%s\tTest %d:\texp: %s", failed, testID, tst.host)
							t.Fatalf("\t%s\tTest %d:\tShould get back the normalized address.", failed, testID)
						}
						t.Logf("\t%s\tTest %d:\tShould get back the normalized address.", success, testID)

					default:
						if !errors.Is(err, peer.ErrInvalidAddress) {
							t.Fatalf("\t%s\tTest %d:\tShould reject the address: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould reject the address.", success, testID)
					}
				}
			}

			t.Run(tst.name, f)
		}
	}
}

func Test_ParseAddresses(t *testing.T) {
	t.Log("Given the need to parse a list of node addresses.")
	{
		peers, err := peer.ParseAddresses([]string{"http://a:5000", "http://b:5000", "http://a:5000/"})
		if err != nil {
			t.Fatalf("\t%s\tShould be able to parse valid addresses: %v", failed, err)
		}
		if len(peers) != 3 || peers[0] != peers[2] {
			t.Fatalf("\t%s\tShould get a peer for every address: %v", failed, peers)
		}
		t.Logf("\t%s\tShould be able to parse valid addresses.", success)

		peers, err = peer.ParseAddresses([]string{"http://x/", "not a url"})
		if !errors.Is(err, peer.ErrInvalidAddress) {
			t.Fatalf("\t%s\tShould reject the list when one address is bad: %v", failed, err)
		}
		if peers != nil {
			t.Fatalf("\t%s\tShould not return any peers: %v", failed, peers)
		}
		t.Logf("\t%s\tShould reject the list when one address is bad.", success)

		if _, err := peer.ParseAddresses(nil); !errors.Is(err, peer.ErrInvalidAddress) {
			t.Fatalf("\t%s\tShould reject an empty list: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject an empty list.", success)
	}
}

//go:build linux

package neighbor

import (
	"encoding/binary"
	"net"
	"testing"

	"golang.org/x/sys/unix"

	"netpulse/internal/core/model"
)

func TestNdmStateToModel(t *testing.T) {
	cases := []struct {
		state uint16
		want  model.NeighborState
	}{
		{nudPermanent, model.NeighborPermanent},
		{nudReachable, model.NeighborReachable},
		{nudStale, model.NeighborStale},
		{nudDelay, model.NeighborDelay},
		{nudProbe, model.NeighborProbe},
		{nudIncomplete, model.NeighborIncomplete},
		{nudFailed, model.NeighborIncomplete},
	}
	for _, c := range cases {
		if got := ndmStateToModel(c.state); got != c.want {
			t.Errorf("ndmStateToModel(0x%02x) = %v, want %v", c.state, got, c.want)
		}
	}
}

func TestNdmStateToModel_PermanentTakesPriority(t *testing.T) {
	// a row can carry multiple bits set; permanent must win.
	got := ndmStateToModel(nudPermanent | nudStale)
	if got != model.NeighborPermanent {
		t.Fatalf("got %v, want permanent", got)
	}
}

func TestBuildGetNeighRequest(t *testing.T) {
	req := buildGetNeighRequest(99)
	if len(req) != 16+12 {
		t.Fatalf("len = %d, want 28", len(req))
	}
	if got := binary.LittleEndian.Uint32(req[0:4]); int(got) != len(req) {
		t.Fatalf("nlmsg_len = %d, want %d", got, len(req))
	}
	if got := binary.LittleEndian.Uint16(req[4:6]); got != unix.RTM_GETNEIGH {
		t.Fatalf("nlmsg_type = %d, want RTM_GETNEIGH", got)
	}
	if got := binary.LittleEndian.Uint16(req[6:8]); got != unix.NLM_F_REQUEST|unix.NLM_F_DUMP {
		t.Fatalf("nlmsg_flags = %d, want REQUEST|DUMP", got)
	}
	if got := binary.LittleEndian.Uint32(req[8:12]); got != 99 {
		t.Fatalf("nlmsg_seq = %d, want 99", got)
	}
}

func buildNDMsg(family uint8, state uint16, ip net.IP, mac net.HardwareAddr) []byte {
	body := make([]byte, 12)
	body[0] = family
	binary.LittleEndian.PutUint16(body[4:6], state)

	appendAttr := func(attrType uint16, payload []byte) {
		attrLen := 4 + len(payload)
		hdr := make([]byte, 4)
		binary.LittleEndian.PutUint16(hdr[0:2], uint16(attrLen))
		binary.LittleEndian.PutUint16(hdr[2:4], attrType)
		body = append(body, hdr...)
		body = append(body, payload...)
		pad := (attrLen + 3) &^ 3
		for i := attrLen; i < pad; i++ {
			body = append(body, 0)
		}
	}
	appendAttr(1 /* NDA_DST */, ip.To4())
	appendAttr(2 /* NDA_LLADDR */, mac)
	return body
}

func TestParseNeighMsg_IPv4(t *testing.T) {
	ip := net.ParseIP("192.168.1.10")
	mac, _ := net.ParseMAC("aa:bb:cc:dd:ee:ff")
	body := buildNDMsg(unix.AF_INET, nudReachable, ip, mac)

	entry, ok := parseNeighMsg(body)
	if !ok {
		t.Fatalf("parseNeighMsg: expected ok=true")
	}
	if !entry.IP.Equal(ip) {
		t.Fatalf("ip = %v, want %v", entry.IP, ip)
	}
	if entry.MAC.String() != mac.String() {
		t.Fatalf("mac = %v, want %v", entry.MAC, mac)
	}
	if entry.State != model.NeighborReachable {
		t.Fatalf("state = %v, want reachable", entry.State)
	}
}

func TestParseNeighMsg_MissingLladdrRejected(t *testing.T) {
	if _, ok := parseNeighMsg(make([]byte, 12)); ok {
		t.Fatalf("expected a bare ndmsg with no attributes to be rejected")
	}
}

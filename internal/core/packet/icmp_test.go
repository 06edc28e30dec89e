package packet

import "testing"

func TestBuildParseEchoV4_Roundtrip(t *testing.T) {
	buf, err := BuildEchoV4(0x1234, 7, []byte("netpulse"))
	if err != nil {
		t.Fatalf("BuildEchoV4: %v", err)
	}

	// Flip the type byte from Echo Request (8) to Echo Reply (0) to
	// simulate what comes back on the wire, since a request never
	// parses as a reply.
	reply := append([]byte(nil), buf...)
	reply[0] = 0

	echo, ok := ParseEchoReplyV4(reply)
	if !ok {
		t.Fatalf("ParseEchoReplyV4: not recognized as echo reply")
	}
	if echo.ID != 0x1234 || echo.Seq != 7 {
		t.Fatalf("id/seq = %d/%d, want 4660/7", echo.ID, echo.Seq)
	}
	if string(echo.Payload) != "netpulse" {
		t.Fatalf("payload = %q, want %q", echo.Payload, "netpulse")
	}
}

func TestBuildParseEchoV6_Roundtrip(t *testing.T) {
	buf, err := BuildEchoV6(0xabcd, 42, []byte("hop"))
	if err != nil {
		t.Fatalf("BuildEchoV6: %v", err)
	}

	reply := append([]byte(nil), buf...)
	reply[0] = 129 // ICMPv6 Echo Reply

	echo, ok := ParseEchoReplyV6(reply)
	if !ok {
		t.Fatalf("ParseEchoReplyV6: not recognized as echo reply")
	}
	if echo.ID != 0xabcd || echo.Seq != 42 {
		t.Fatalf("id/seq = %d/%d, want 43981/42", echo.ID, echo.Seq)
	}
}

func TestParseEchoReplyV4_RejectsNonReply(t *testing.T) {
	buf, _ := BuildEchoV4(1, 1, nil) // still type 8 (Echo Request)
	if _, ok := ParseEchoReplyV4(buf); ok {
		t.Fatalf("expected Echo Request to be rejected as a reply")
	}
}

func TestIsDestinationUnreachableV4(t *testing.T) {
	buf := []byte{3, 0, 0, 0, 0, 0, 0, 0} // type 3, code 0
	if !IsDestinationUnreachableV4(buf) {
		t.Fatalf("expected type 3 to be classified as destination unreachable")
	}
	if IsTimeExceededV4(buf) {
		t.Fatalf("type 3 misclassified as time exceeded")
	}
}

func TestIsTimeExceededV4(t *testing.T) {
	buf := []byte{11, 0, 0, 0, 0, 0, 0, 0} // type 11, code 0
	if !IsTimeExceededV4(buf) {
		t.Fatalf("expected type 11 to be classified as time exceeded")
	}
}

func TestIsDestinationUnreachableV6(t *testing.T) {
	buf := []byte{1, 0, 0, 0, 0, 0, 0, 0} // type 1, code 0
	if !IsDestinationUnreachableV6(buf) {
		t.Fatalf("expected type 1 to be classified as destination unreachable")
	}
}

func TestIsTimeExceededV6(t *testing.T) {
	buf := []byte{3, 0, 0, 0, 0, 0, 0, 0} // type 3, code 0
	if !IsTimeExceededV6(buf) {
		t.Fatalf("expected type 3 to be classified as time exceeded")
	}
}

func TestBuildUDPProbe_SetsLengthAndChecksum(t *testing.T) {
	src := []byte{192, 168, 1, 1}
	dst := []byte{192, 168, 1, 2}
	payload := []byte("probe")

	datagram := BuildUDPProbe(src, dst, 33434, 33435, payload)

	wantLen := 8 + len(payload)
	if len(datagram) != wantLen {
		t.Fatalf("datagram length = %d, want %d", len(datagram), wantLen)
	}
	gotLen := uint16(datagram[4])<<8 | uint16(datagram[5])
	if int(gotLen) != wantLen {
		t.Fatalf("length field = %d, want %d", gotLen, wantLen)
	}
	checksum := uint16(datagram[6])<<8 | uint16(datagram[7])
	if checksum == 0 {
		t.Fatalf("checksum field left as zero")
	}
}

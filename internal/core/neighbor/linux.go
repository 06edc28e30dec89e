//go:build linux

package neighbor

import (
	"bufio"
	"encoding/binary"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"netpulse/internal/core/model"
)

// seqBase tags our netlink requests so replies from an unrelated socket
// user on the same netlink bus are ignored.
const seqBase = 0x6e706c73 // "npls"

const recvTimeout = 2 * time.Second

// ndmState mirrors linux/neighbour.h's NUD_* bitmask, used to classify
// RTM_NEWNEIGH rows.
const (
	nudIncomplete = 0x01
	nudReachable  = 0x02
	nudStale      = 0x04
	nudDelay      = 0x08
	nudProbe      = 0x10
	nudFailed     = 0x20
	nudNoarp      = 0x40
	nudPermanent  = 0x80
)

func ndmStateToModel(state uint16) model.NeighborState {
	switch {
	case state&nudPermanent != 0:
		return model.NeighborPermanent
	case state&nudReachable != 0:
		return model.NeighborReachable
	case state&nudStale != 0:
		return model.NeighborStale
	case state&nudDelay != 0:
		return model.NeighborDelay
	case state&nudProbe != 0:
		return model.NeighborProbe
	default:
		return model.NeighborIncomplete
	}
}

// getTable dumps RTM_GETNEIGH over a netlink route socket; if that
// yields nothing (permission, kernel quirk, empty table) it falls back
// to /proc/net/arp, same as the Rust original.
func getTable() ([]rawEntry, error) {
	entries, err := dumpNeigh()
	if err == nil && len(entries) > 0 {
		return entries, nil
	}
	return readProcNetARP()
}

func dumpNeigh() ([]rawEntry, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW, unix.NETLINK_ROUTE)
	if err != nil {
		return nil, err
	}
	defer unix.Close(fd)

	if err := unix.Bind(fd, &unix.SockaddrNetlink{Family: unix.AF_NETLINK}); err != nil {
		return nil, err
	}

	seq := uint32(seqBase ^ 0x04)
	req := buildGetNeighRequest(seq)
	if err := unix.Sendto(fd, req, 0, &unix.SockaddrNetlink{Family: unix.AF_NETLINK}); err != nil {
		return nil, err
	}

	msgs, err := recvMulti(fd, seq)
	if err != nil {
		return nil, err
	}

	var out []rawEntry
	for _, m := range msgs {
		if entry, ok := parseNeighMsg(m); ok {
			out = append(out, entry)
		}
	}
	return out, nil
}

// buildGetNeighRequest builds a minimal RTM_GETNEIGH|NLM_F_DUMP netlink
// request: nlmsghdr followed by an empty ndmsg body.
func buildGetNeighRequest(seq uint32) []byte {
	const nlmsgHdrLen = 16
	const ndmsgLen = 12 // family, pad, pad, ifindex, state, flags, ntype
	buf := make([]byte, nlmsgHdrLen+ndmsgLen)

	binary.LittleEndian.PutUint32(buf[0:4], uint32(len(buf)))
	binary.LittleEndian.PutUint16(buf[4:6], unix.RTM_GETNEIGH)
	binary.LittleEndian.PutUint16(buf[6:8], unix.NLM_F_REQUEST|unix.NLM_F_DUMP)
	binary.LittleEndian.PutUint32(buf[8:12], seq)
	binary.LittleEndian.PutUint32(buf[12:16], 0) // port id, kernel assigns

	buf[16] = unix.AF_UNSPEC
	return buf
}

func recvMulti(fd int, expectSeq uint32) ([][]byte, error) {
	var out [][]byte
	buf := make([]byte, 1<<20)
	deadline := time.Now().Add(recvTimeout)

	for {
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return out, nil
		}
		tv := unix.NsecToTimeval(remaining.Nanoseconds())
		_ = unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv)

		n, _, err := unix.Recvfrom(fd, buf, 0)
		if err != nil {
			if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
				return out, nil
			}
			return out, err
		}

		offset := 0
		done := false
		for offset+16 <= n {
			msgLen := int(binary.LittleEndian.Uint32(buf[offset : offset+4]))
			msgType := binary.LittleEndian.Uint16(buf[offset+4 : offset+6])
			seq := binary.LittleEndian.Uint32(buf[offset+8 : offset+12])
			if msgLen < 16 || offset+msgLen > n {
				break
			}

			if seq == expectSeq {
				switch msgType {
				case unix.NLMSG_DONE:
					done = true
				case unix.NLMSG_ERROR:
					// best-effort: stop, let caller fall back to /proc/net/arp
					done = true
				case unix.RTM_NEWNEIGH:
					out = append(out, buf[offset+16:offset+msgLen])
				}
			}

			aligned := (msgLen + 3) &^ 3
			offset += aligned
		}
		if done {
			return out, nil
		}
	}
}

// parseNeighMsg decodes an ndmsg body (12 bytes) followed by a run of
// rtattr(NLA) records, pulling NDA_DST and NDA_LLADDR.
func parseNeighMsg(body []byte) (rawEntry, bool) {
	const ndmsgLen = 12
	if len(body) < ndmsgLen {
		return rawEntry{}, false
	}
	family := body[0]
	state := binary.LittleEndian.Uint16(body[4:6])

	var ip net.IP
	var mac net.HardwareAddr

	off := ndmsgLen
	for off+4 <= len(body) {
		attrLen := int(binary.LittleEndian.Uint16(body[off : off+2]))
		attrType := binary.LittleEndian.Uint16(body[off+2 : off+4])
		if attrLen < 4 || off+attrLen > len(body) {
			break
		}
		payload := body[off+4 : off+attrLen]

		const ndaDst = 1
		const ndaLladdr = 2
		switch attrType {
		case ndaDst:
			switch family {
			case unix.AF_INET:
				if len(payload) == 4 {
					ip = net.IPv4(payload[0], payload[1], payload[2], payload[3])
				}
			case unix.AF_INET6:
				if len(payload) == 16 {
					ip = net.IP(append([]byte(nil), payload...))
				}
			}
		case ndaLladdr:
			if len(payload) == 6 {
				mac = net.HardwareAddr(append([]byte(nil), payload...))
			}
		}

		off += (attrLen + 3) &^ 3
	}

	if ip == nil || mac == nil {
		return rawEntry{}, false
	}
	return rawEntry{IP: ip, MAC: mac, State: ndmStateToModel(state)}, true
}

// readProcNetARP parses /proc/net/arp, keeping only complete (flags
// 0x2) entries, mirroring the Rust fallback.
func readProcNetARP() ([]rawEntry, error) {
	f, err := os.Open("/proc/net/arp")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []rawEntry
	scanner := bufio.NewScanner(f)
	first := true
	for scanner.Scan() {
		if first {
			first = false
			continue
		}
		cols := strings.Fields(scanner.Text())
		if len(cols) < 6 {
			continue
		}
		ipStr, flagsStr, macStr := cols[0], cols[2], cols[3]

		flags, err := strconv.ParseInt(strings.TrimPrefix(strings.ToLower(flagsStr), "0x"), 16, 32)
		if err != nil || flags != 0x2 {
			continue
		}

		ip := net.ParseIP(ipStr)
		mac, err := net.ParseMAC(macStr)
		if ip == nil || err != nil {
			continue
		}
		out = append(out, rawEntry{IP: ip, MAC: mac, State: model.NeighborReachable})
	}
	return out, scanner.Err()
}

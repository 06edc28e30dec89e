//go:build darwin

package neighbor

import (
	"encoding/binary"
	"fmt"
	"net"
	"syscall"
	"unsafe"

	"netpulse/internal/core/model"
)

// BSD route-socket constants, matching net/neigh/os/darwin.rs's mib.
const (
	ctlNet      = 4
	pfRoute     = 17
	afLink      = 18
	afINET      = 2
	netRtFlags  = 2
	rtfLLInfo   = 1024
	rtmVersion  = 5
	saAlign     = 4
	rtMsghdrLen = 92 // sizeof(struct rt_msghdr) on darwin/amd64 and arm64
)

// getTable dumps the IPv4 ARP table via sysctl(CTL_NET, PF_ROUTE, 0,
// AF_INET, NET_RT_FLAGS, RTF_LLINFO), decoding the rt_msghdr + sockaddr
// block the kernel returns. IPv6 NDP is left to the netlink-less /proc
// fallback path Linux has; Darwin has no equivalent low-privilege
// source for it outside this same sysctl dump, which this tool only
// walks for the ARP (AF_INET) case per the original's scope.
func getTable() ([]rawEntry, error) {
	mib := []int32{ctlNet, pfRoute, 0, afINET, netRtFlags, rtfLLInfo}
	buf, err := sysctlRaw(mib)
	if err != nil {
		return nil, err
	}

	var out []rawEntry
	off := 0
	for off+rtMsghdrLen <= len(buf) {
		msglen := int(binary.LittleEndian.Uint16(buf[off : off+2]))
		version := buf[off+2]
		rtmErrno := int32(binary.LittleEndian.Uint32(buf[off+24 : off+28]))
		if msglen == 0 || off+msglen > len(buf) {
			break
		}
		if version != rtmVersion {
			off += msglen
			continue
		}
		if rtmErrno != 0 {
			return out, fmt.Errorf("rtm_errno %d", rtmErrno)
		}

		addrBlock := buf[off+rtMsghdrLen : off+msglen]
		if entry, ok := parseArpAddrs(addrBlock); ok {
			out = append(out, entry)
		}
		off += msglen
	}
	return out, nil
}

func roundup(n int) int {
	if n == 0 {
		return saAlign
	}
	return (n + saAlign - 1) &^ (saAlign - 1)
}

// parseArpAddrs walks the sockaddr records following an rt_msghdr,
// pulling the AF_INET destination and the AF_LINK (sockaddr_dl) MAC.
func parseArpAddrs(block []byte) (rawEntry, bool) {
	var ip net.IP
	var mac net.HardwareAddr

	off := 0
	for off+8 <= len(block) {
		saLen := int(block[off])
		family := block[off+1]
		if saLen == 0 {
			off += roundup(0)
			continue
		}
		if off+saLen > len(block) {
			break
		}
		sa := block[off : off+saLen]

		switch int(family) {
		case afINET:
			if len(sa) >= 8 {
				ip = net.IPv4(sa[4], sa[5], sa[6], sa[7])
			}
		case afLink:
			mac = parseSockaddrDL(sa)
		}

		off += roundup(saLen)
	}

	if ip == nil || mac == nil {
		return rawEntry{}, false
	}
	return rawEntry{IP: ip, MAC: mac, State: model.NeighborStale}, true
}

// parseSockaddrDL extracts the link-layer address from a sockaddr_dl:
// sdl_len, sdl_family, sdl_index(2), sdl_type, sdl_nlen, sdl_alen,
// sdl_slen, then sdl_data[sdl_nlen+sdl_alen+...].
func parseSockaddrDL(sa []byte) net.HardwareAddr {
	const hdrLen = 8
	if len(sa) < hdrLen {
		return nil
	}
	nlen := int(sa[5])
	alen := int(sa[6])
	if alen != 6 || hdrLen+nlen+alen > len(sa) {
		return nil
	}
	mac := sa[hdrLen+nlen : hdrLen+nlen+alen]
	return net.HardwareAddr(append([]byte(nil), mac...))
}

// sysctlRaw issues the two-call sysctl(2) dance (size probe, then
// fetch), retrying once on ENOMEM as the kernel table can grow between
// the two calls.
func sysctlRaw(mib []int32) ([]byte, error) {
	fetch := func(buf []byte) ([]byte, error) {
		var n uintptr
		if buf != nil {
			n = uintptr(len(buf))
		}
		_, _, errno := syscall.Syscall6(
			syscall.SYS___SYSCTL,
			uintptr(unsafe.Pointer(&mib[0])), uintptr(len(mib)),
			uintptrOrZero(buf), uintptr(unsafe.Pointer(&n)),
			0, 0,
		)
		if errno != 0 {
			return nil, errno
		}
		if buf == nil {
			return make([]byte, n), nil
		}
		return buf[:n], nil
	}

	sized, err := fetch(nil)
	if err != nil {
		return nil, err
	}
	out, err := fetch(sized)
	if err != nil {
		if errno, ok := err.(syscall.Errno); ok && errno == syscall.ENOMEM {
			sized2, err2 := fetch(nil)
			if err2 != nil {
				return nil, err2
			}
			return fetch(sized2)
		}
		return nil, err
	}
	return out, nil
}

func uintptrOrZero(buf []byte) uintptr {
	if len(buf) == 0 {
		return 0
	}
	return uintptr(unsafe.Pointer(&buf[0]))
}

//go:build windows

package neighbor

import (
	"fmt"
	"net"
	"syscall"
	"unsafe"

	"netpulse/internal/core/model"
)

var (
	modIPHlpAPI        = syscall.NewLazyDLL("iphlpapi.dll")
	procGetIpNetTable2 = modIPHlpAPI.NewProc("GetIpNetTable2")
	procFreeMibTable   = modIPHlpAPI.NewProc("FreeMibTable")
)

const (
	afINET  = 2
	afINET6 = 23

	// MIB_IPNET_ROW2.State values (NL_NEIGHBOR_STATE), from nldef.h.
	nlnsIncomplete = 1
	nlnsProbe      = 2
	nlnsDelay      = 3
	nlnsStale      = 4
	nlnsReachable  = 5
	nlnsPermanent  = 6
)

// mibIPNetRow2 mirrors MIB_IPNET_ROW2's layout closely enough to read
// the fields this package needs (address family, IP bytes, MAC, state);
// the struct carries extra fields (InterfaceIndex, InterfaceLuid, Flags,
// ReachabilityTime) that are never read here.
type mibIPNetRow2 struct {
	Address             [28]byte // SOCKADDR_INET (union of sockaddr_in/in6 padded to 28 bytes)
	InterfaceIndex      uint32
	InterfaceLuid       uint64
	PhysicalAddress     [32]byte
	PhysicalAddressLen  uint32
	State               int32
	Flags               uint32
	ReachabilityTime    uint32
}

func ndmStateToModelWindows(state int32) model.NeighborState {
	switch state {
	case nlnsPermanent:
		return model.NeighborPermanent
	case nlnsReachable:
		return model.NeighborReachable
	case nlnsStale:
		return model.NeighborStale
	case nlnsDelay:
		return model.NeighborDelay
	case nlnsProbe:
		return model.NeighborProbe
	default:
		return model.NeighborIncomplete
	}
}

func isInterestingState(state int32) bool {
	switch state {
	case nlnsPermanent, nlnsReachable, nlnsStale, nlnsDelay, nlnsProbe:
		return true
	default:
		return false
	}
}

// getTable calls GetIpNetTable2 once for AF_INET and once for AF_INET6,
// mirroring the Rust original's two dump_ipnet calls.
func getTable() ([]rawEntry, error) {
	var out []rawEntry
	v4, err4 := dumpIPNet(afINET)
	if err4 == nil {
		out = append(out, v4...)
	}
	v6, err6 := dumpIPNet(afINET6)
	if err6 == nil {
		out = append(out, v6...)
	}
	if err4 != nil && err6 != nil {
		return nil, fmt.Errorf("GetIpNetTable2 failed for both families: v4=%v v6=%v", err4, err6)
	}
	return out, nil
}

func dumpIPNet(family uint16) ([]rawEntry, error) {
	var tablePtr uintptr
	ret, _, _ := procGetIpNetTable2.Call(uintptr(family), uintptr(unsafe.Pointer(&tablePtr)))
	if ret != 0 {
		return nil, fmt.Errorf("GetIpNetTable2 returned %d", ret)
	}
	if tablePtr == 0 {
		return nil, nil
	}
	defer procFreeMibTable.Call(tablePtr)

	numEntries := *(*uint32)(unsafe.Pointer(tablePtr))
	// Table[] follows NumEntries at the row's 8-byte alignment boundary.
	rowsBase := tablePtr + unsafe.Alignof(mibIPNetRow2{})
	rowSize := unsafe.Sizeof(mibIPNetRow2{})

	var out []rawEntry
	for i := uint32(0); i < numEntries; i++ {
		row := (*mibIPNetRow2)(unsafe.Pointer(rowsBase + uintptr(i)*rowSize))
		if row.PhysicalAddressLen != 6 || !isInterestingState(row.State) {
			continue
		}
		ip := sockaddrInetToIP(row.Address)
		if ip == nil {
			continue
		}
		mac := net.HardwareAddr(append([]byte(nil), row.PhysicalAddress[:6]...))
		out = append(out, rawEntry{IP: ip, MAC: mac, State: ndmStateToModelWindows(row.State)})
	}
	return out, nil
}

// sockaddrInetToIP reads the family tag at offset 0 of SOCKADDR_INET and
// decodes the IPv4 (offset 4, 4 bytes) or IPv6 (offset 8, 16 bytes) address.
func sockaddrInetToIP(addr [28]byte) net.IP {
	family := uint16(addr[0]) | uint16(addr[1])<<8
	switch family {
	case afINET:
		return net.IPv4(addr[4], addr[5], addr[6], addr[7])
	case afINET6:
		b := make(net.IP, 16)
		copy(b, addr[8:24])
		return b
	default:
		return nil
	}
}

//go:build windows

package socket

import "syscall"

// Winsock2 option values from ws2ipdef.h; not exposed by the standard
// syscall package on windows, same pattern as the raw MIB_IPNET_ROW2
// constants in neighbor/windows.go.
const (
	wsaIPProtoIP   = 0
	wsaIPTTL       = 4
	wsaIPProtoIPv6 = 41
	wsaIPv6UnicastHops = 4
)

func setIPv4TTL(fd uintptr, ttl int) error {
	return syscall.SetsockoptInt(syscall.Handle(fd), wsaIPProtoIP, wsaIPTTL, ttl)
}

func setIPv6HopLimit(fd uintptr, hops int) error {
	return syscall.SetsockoptInt(syscall.Handle(fd), wsaIPProtoIPv6, wsaIPv6UnicastHops, hops)
}

//go:build !windows

package socket

import "golang.org/x/sys/unix"

func setIPv4TTL(fd uintptr, ttl int) error {
	return unix.SetsockoptInt(int(fd), unix.IPPROTO_IP, unix.IP_TTL, ttl)
}

func setIPv6HopLimit(fd uintptr, hops int) error {
	return unix.SetsockoptInt(int(fd), unix.IPPROTO_IPV6, unix.IPV6_UNICAST_HOPS, hops)
}

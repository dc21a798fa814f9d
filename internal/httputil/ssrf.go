package httputil

import (
	"fmt"
	"net"
)

// BlockedAddrError reports a redirect target that resolves to an address
// the fetcher refuses to contact.
type BlockedAddrError struct {
	Host   string
	IP     net.IP
	Reason string
}

func (e *BlockedAddrError) Error() string {
	return fmt.Sprintf("refusing redirect to %s IP: %s (%s)", e.Reason, e.Host, e.IP)
}

// CheckIP returns a *BlockedAddrError if ip is private, loopback,
// link-local (which covers cloud metadata endpoints), multicast or
// unspecified.
func CheckIP(ip net.IP, host string) error {
	var reason string
	switch {
	case ip.IsPrivate():
		reason = "private"
	case ip.IsLoopback():
		reason = "loopback"
	case ip.IsLinkLocalUnicast():
		reason = "link-local"
	case ip.IsLinkLocalMulticast():
		reason = "link-local multicast"
	case ip.IsMulticast():
		reason = "multicast"
	case ip.IsUnspecified():
		reason = "unspecified"
	default:
		return nil
	}
	return &BlockedAddrError{Host: host, IP: ip, Reason: reason}
}

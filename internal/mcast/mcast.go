// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/ssdp/mod.rs
//   (bind_multicast_receiver, bind_multicast_sender, socket2_to_tokio)
//

// Package mcast constructs the raw multicast UDP sockets the SSDP engine
// sends and receives on. It owns address-reuse, group membership, and
// loopback suppression; callers above this package only ever see the
// [Receiver] and [Sender] wrappers, never the underlying sockets.
package mcast

import (
	"fmt"
	"net"

	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// GroupV4 and GroupV6 are SSDP's well-known multicast groups.
var (
	GroupV4 = &net.UDPAddr{IP: net.IPv4(239, 255, 255, 250), Port: Port}
	GroupV6 = &net.UDPAddr{IP: net.ParseIP("ff05::c"), Port: Port}
)

// Port is the well-known SSDP UDP port.
const Port = 1900

// Receiver is a multicast receiver bound to the group address on the
// wildcard host for one address family, joined to the group on every
// local interface address of that family.
type Receiver struct {
	conn   *net.UDPConn
	pconn4 *ipv4.PacketConn
	pconn6 *ipv6.PacketConn
}

// NewReceiverV4 binds a v4 receiver and joins the group on every address
// in addrs (interface indices resolved from ifaceIndices, one per addr).
func NewReceiverV4(addrs []net.IP, ifaceIndices []int) (*Receiver, error) {
	conn, err := listenMulticastUDP("udp4", GroupV4)
	if err != nil {
		return nil, err
	}
	pconn := ipv4.NewPacketConn(conn)
	joined := 0
	for i := range addrs {
		ifi, err := interfaceByIndex(ifaceIndices[i])
		if err != nil {
			continue
		}
		if err := pconn.JoinGroup(ifi, GroupV4); err == nil {
			joined++
		}
	}
	if joined == 0 {
		conn.Close()
		return nil, fmt.Errorf("mcast: no v4 interface joined multicast group")
	}
	_ = pconn.SetMulticastLoopback(false)
	return &Receiver{conn: conn, pconn4: pconn}, nil
}

// NewReceiverV6 binds a v6 receiver and joins the group on every
// interface in ifaceIndices (each v6 address's scope id).
func NewReceiverV6(ifaceIndices []int) (*Receiver, error) {
	conn, err := listenMulticastUDP("udp6", GroupV6)
	if err != nil {
		return nil, err
	}
	pconn := ipv6.NewPacketConn(conn)
	joined := 0
	for _, idx := range ifaceIndices {
		ifi, err := interfaceByIndex(idx)
		if err != nil {
			continue
		}
		if err := pconn.JoinGroup(ifi, GroupV6); err == nil {
			joined++
		}
	}
	if joined == 0 {
		conn.Close()
		return nil, fmt.Errorf("mcast: no v6 interface joined multicast group")
	}
	_ = pconn.SetMulticastLoopback(false)
	return &Receiver{conn: conn, pconn6: pconn}, nil
}

// ReadFrom reads one datagram into buf.
func (r *Receiver) ReadFrom(buf []byte) (int, net.Addr, error) {
	return r.conn.ReadFrom(buf)
}

// Close releases the socket.
func (r *Receiver) Close() error {
	return r.conn.Close()
}

// Sender is a multicast sender bound to the wildcard address of one
// family, with its outgoing interface pinned to a single local address
// (v4) or scope id (v6).
type Sender struct {
	conn  *net.UDPConn
	group *net.UDPAddr
}

// NewSenderV4 binds a wildcard v4 socket with its outgoing multicast
// interface set to iface.
func NewSenderV4(iface net.IP) (*Sender, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		return nil, err
	}
	pconn := ipv4.NewPacketConn(conn)
	if ifi := interfaceForAddr(iface); ifi != nil {
		_ = pconn.SetMulticastInterface(ifi)
	}
	_ = pconn.SetMulticastLoopback(false)
	return &Sender{conn: conn, group: GroupV4}, nil
}

// NewSenderV6 binds a wildcard v6 socket with its outgoing multicast
// interface set to the given scope id.
func NewSenderV6(scopeID int) (*Sender, error) {
	conn, err := net.ListenUDP("udp6", &net.UDPAddr{})
	if err != nil {
		return nil, err
	}
	pconn := ipv6.NewPacketConn(conn)
	if ifi, err := interfaceByIndex(scopeID); err == nil {
		_ = pconn.SetMulticastInterface(ifi)
	}
	_ = pconn.SetMulticastLoopback(false)
	return &Sender{conn: conn, group: GroupV6}, nil
}

// WriteTo sends the entire datagram to the sender's multicast group,
// looping until the full byte count is transmitted.
func (s *Sender) WriteTo(data []byte) error {
	total := 0
	for total < len(data) {
		n, err := s.conn.WriteTo(data[total:], s.group)
		if err != nil {
			return err
		}
		total += n
	}
	return nil
}

// Close releases the socket.
func (s *Sender) Close() error {
	return s.conn.Close()
}

func listenMulticastUDP(network string, group *net.UDPAddr) (*net.UDPConn, error) {
	return net.ListenMulticastUDP(network, nil, group)
}

func interfaceByIndex(idx int) (*net.Interface, error) {
	return net.InterfaceByIndex(idx)
}

func interfaceForAddr(ip net.IP) *net.Interface {
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipn, ok := a.(*net.IPNet); ok && ipn.IP.Equal(ip) {
				return &ifaces[i]
			}
		}
	}
	return nil
}

// SPDX-License-Identifier: GPL-3.0-or-later
//
// Adapted from: original_source/agent/src/ssdp/mod.rs
//   (SSDPMulticast, SendTask/SendTaskNotifiers, send_task/send_loop,
//    receive_task/receive_loop, stop)
//

// Package ssdp implements the home-grown SSDP discovery engine
// (component D): periodic ssdp:alive NOTIFYs, on-demand reply to
// M-SEARCH, and ssdp:byebye on stop.
package ssdp

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Janrupf/dragon-claw/internal/corr"
	"github.com/Janrupf/dragon-claw/internal/dcerr"
	"github.com/Janrupf/dragon-claw/internal/dlog"
	"github.com/Janrupf/dragon-claw/internal/localaddr"
	"github.com/Janrupf/dragon-claw/internal/mcast"
	"github.com/Janrupf/dragon-claw/internal/model"
	"github.com/Janrupf/dragon-claw/internal/ssdpwire"
)

// ServiceType is the fixed SSDP service type identifier this agent
// advertises and matches M-SEARCH requests against.
const ServiceType = "urn:dragon-claw:service:DragonClawAgent:1"

// Config holds SSDP engine configuration. Every field has a production
// default set by [NewConfig]; tests override individual fields.
type Config struct {
	Logger      dlog.Logger
	UserAgent   string
	AlivePeriod time.Duration
}

// NewConfig returns a [*Config] with sensible production defaults.
func NewConfig() *Config {
	return &Config{
		Logger:      dlog.Default(),
		UserAgent:   "DragonClaw/1.0",
		AlivePeriod: 30 * time.Second,
	}
}

// Session is the live multicast session: a set of per-interface sender
// tasks, a set of per-family receiver tasks, a shutdown flag, and each
// sender's notification channel for waking it early on a matching
// M-SEARCH.
type Session struct {
	cfg      *Config
	location string
	usn      string

	shutdown atomic.Bool
	stopOnce sync.Once

	senders   []*senderTask
	receivers []*receiverTask
	sendersWG sync.WaitGroup
}

type senderTask struct {
	addr   model.Addr
	sender *mcast.Sender
	notify chan struct{}
}

type receiverTask struct {
	receiver *mcast.Receiver
}

// Setup partitions the host's local addresses into v4/v6 families,
// drops loopback addresses, and constructs one receiver plus N senders
// per family with at least one address. When the endpoint address is
// specific (not wildcard), only the local address equal to it is used.
// A family whose receiver fails to bind is dropped with a warning. Zero
// bound receivers is an error.
func Setup(cfg *Config, endpoint model.Endpoint) (*Session, error) {
	v4, v6, err := localaddr.Enumerate()
	if err != nil {
		return nil, dcerr.New(dcerr.Io, err)
	}
	if ip := endpoint.Addr.IP; ip != nil && !ip.IsUnspecified() {
		only := func(in []localaddr.AddrWithIndex) (out []localaddr.AddrWithIndex) {
			for _, a := range in {
				if a.Addr.IP.Equal(ip) {
					out = append(out, a)
				}
			}
			return out
		}
		v4, v6 = only(v4), only(v6)
	}

	s := &Session{
		cfg:      cfg,
		location: fmt.Sprintf("tcp://%s:%d", endpoint.Addr.String(), endpoint.Port),
		usn:      corr.NewSpanID(),
	}

	if len(v4) > 0 {
		ips := make([]net.IP, len(v4))
		idx := make([]int, len(v4))
		for i, a := range v4 {
			ips[i] = a.Addr.IP
			idx[i] = a.Index
		}
		if recv, err := mcast.NewReceiverV4(ips, idx); err != nil {
			cfg.Logger.Warn("ssdp: v4 receiver bind failed", "error", err)
		} else {
			s.receivers = append(s.receivers, &receiverTask{receiver: recv})
			for _, a := range v4 {
				if sender, err := mcast.NewSenderV4(a.Addr.IP); err == nil {
					s.senders = append(s.senders, &senderTask{addr: a.Addr, sender: sender, notify: make(chan struct{}, 1)})
				} else {
					cfg.Logger.Warn("ssdp: v4 sender bind failed", "error", err, "addr", a.Addr.String())
				}
			}
		}
	}

	if len(v6) > 0 {
		idx := make([]int, len(v6))
		for i, a := range v6 {
			idx[i] = a.Index
		}
		if recv, err := mcast.NewReceiverV6(idx); err != nil {
			cfg.Logger.Warn("ssdp: v6 receiver bind failed", "error", err)
		} else {
			s.receivers = append(s.receivers, &receiverTask{receiver: recv})
			for _, a := range v6 {
				if sender, err := mcast.NewSenderV6(a.Index); err == nil {
					s.senders = append(s.senders, &senderTask{addr: a.Addr, sender: sender, notify: make(chan struct{}, 1)})
				} else {
					cfg.Logger.Warn("ssdp: v6 sender bind failed", "error", err, "addr", a.Addr.String())
				}
			}
		}
	}

	if len(s.receivers) == 0 {
		return nil, dcerr.New(dcerr.Io, errors.New("ssdp: address not available, no receiver bound"))
	}

	s.start()
	return s, nil
}

func (s *Session) start() {
	for _, r := range s.receivers {
		go s.receiveLoop(r)
	}
	for _, snd := range s.senders {
		s.sendersWG.Add(1)
		go s.sendLoop(snd)
	}
}

func (s *Session) sendLoop(t *senderTask) {
	defer s.sendersWG.Done()
	for {
		if err := t.sender.WriteTo(s.buildNotify(t.addr, "ssdp:alive")); err != nil {
			s.cfg.Logger.Warn("ssdp: alive send failed", "usn", s.usn, "error", err, "addr", t.addr.String())
		} else {
			s.cfg.Logger.Debug("ssdp: alive sent", "usn", s.usn, "addr", t.addr.String())
		}

		select {
		case <-time.After(s.cfg.AlivePeriod):
		case <-t.notify:
		}

		if s.shutdown.Load() {
			if err := t.sender.WriteTo(s.buildNotify(t.addr, "ssdp:byebye")); err != nil {
				s.cfg.Logger.Warn("ssdp: byebye send failed", "usn", s.usn, "error", err, "addr", t.addr.String())
			}
			return
		}
	}
}

func (s *Session) receiveLoop(t *receiverTask) {
	var buf []byte
	tmp := make([]byte, 2048)
	for {
		n, _, err := t.receiver.ReadFrom(tmp)
		if err != nil {
			return // aborted via Close()
		}
		buf = append(buf, tmp[:n]...)

		msgs, consumed := ssdpwire.Decode(buf)
		buf = append([]byte(nil), buf[consumed:]...)
		buf = ssdpwire.ClampBuffer(buf)

		for _, m := range msgs {
			if m.Method != "M-SEARCH" {
				continue
			}
			if st, ok := m.Get("ST"); ok && st == ServiceType {
				s.wakeAllSenders()
			}
		}
	}
}

func (s *Session) wakeAllSenders() {
	for _, snd := range s.senders {
		select {
		case snd.notify <- struct{}{}:
		default:
		}
	}
}

func (s *Session) buildNotify(addr model.Addr, nts string) []byte {
	msg := ssdpwire.NewMessage("NOTIFY", "*", "HTTP/1.1")
	msg.Set("HOST", mcastHost(addr))
	msg.Set("NT", ServiceType)
	msg.Set("NTS", nts)
	msg.Set("USN", fmt.Sprintf("uuid:%s::%s", s.usn, ServiceType))
	msg.Set("USER-AGENT", s.cfg.UserAgent)
	msg.Set("CACHE-CONTROL", "max-age=30")
	msg.Set("LOCATION", s.location)
	msg.Set("MAN", `"ssdp:discover"`)
	return msg.Encode()
}

func mcastHost(addr model.Addr) string {
	if addr.Family == model.FamilyV6 {
		return fmt.Sprintf("[%s]:%d", mcast.GroupV6.IP.String(), mcast.Port)
	}
	return fmt.Sprintf("%s:%d", mcast.GroupV4.IP.String(), mcast.Port)
}

// Stop sets the shutdown flag, wakes every sender so it emits a final
// byebye, aborts the receivers, and waits for the senders to finish.
// Stop is idempotent.
func (s *Session) Stop() {
	s.stopOnce.Do(func() {
		s.shutdown.Store(true)
		s.wakeAllSenders()
		for _, r := range s.receivers {
			_ = r.receiver.Close()
		}
		s.sendersWG.Wait()
		for _, snd := range s.senders {
			_ = snd.sender.Close()
		}
	})
}

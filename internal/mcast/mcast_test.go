// SPDX-License-Identifier: GPL-3.0-or-later

package mcast

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGroupAddressesAreTheWellKnownSSDPGroups(t *testing.T) {
	assert.Equal(t, "239.255.255.250", GroupV4.IP.String())
	assert.Equal(t, Port, GroupV4.Port)
	assert.Equal(t, "ff05::c", GroupV6.IP.String())
	assert.Equal(t, Port, GroupV6.Port)
	assert.Equal(t, 1900, Port)
}

func TestInterfaceForAddrReturnsNilForUnassignedAddress(t *testing.T) {
	ifi := interfaceForAddr(net.ParseIP("203.0.113.254"))
	assert.Nil(t, ifi)
}

func TestInterfaceByIndexErrorsOnInvalidIndex(t *testing.T) {
	_, err := interfaceByIndex(-1)
	assert.Error(t, err)
}

func TestNewReceiverV4FailsWithNoInterfaces(t *testing.T) {
	_, err := NewReceiverV4(nil, nil)
	assert.Error(t, err)
}

func TestNewReceiverV6FailsWithNoInterfaces(t *testing.T) {
	_, err := NewReceiverV6(nil)
	assert.Error(t, err)
}

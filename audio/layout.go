// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math/bits"
	"strings"
)

// ChannelLayout is a bitmask of the channel roles present in a stream.
// Channels are ordered by ascending bit position.
type ChannelLayout uint64

const (
	FrontLeft ChannelLayout = 1 << iota
	FrontRight
	FrontCenter
	LowFrequency
	BackLeft
	BackRight
	FrontLeftOfCenter
	FrontRightOfCenter
	BackCenter
	SideLeft
	SideRight
)

const (
	LayoutMono     = FrontCenter
	LayoutStereo   = FrontLeft | FrontRight
	Layout2Point1  = LayoutStereo | LowFrequency
	LayoutSurround = LayoutStereo | FrontCenter
	LayoutQuad     = LayoutStereo | BackLeft | BackRight
	Layout5Point0  = LayoutSurround | SideLeft | SideRight
	Layout5Point1  = Layout5Point0 | LowFrequency
	Layout7Point1  = Layout5Point1 | BackLeft | BackRight
)

var roleNames = []string{"FL", "FR", "FC", "LFE", "BL", "BR", "FLC", "FRC", "BC", "SL", "SR"}

// Channels returns the number of channel roles in the layout.
func (l ChannelLayout) Channels() int {
	return bits.OnesCount64(uint64(l))
}

// Has reports whether every role in roles is part of l.
func (l ChannelLayout) Has(roles ChannelLayout) bool {
	return roles != 0 && l&roles == roles
}

// Roles returns the single-bit roles of l in channel order.
func (l ChannelLayout) Roles() []ChannelLayout {
	roles := make([]ChannelLayout, 0, l.Channels())
	for rest := uint64(l); rest != 0; rest &= rest - 1 {
		roles = append(roles, ChannelLayout(rest&-rest))
	}
	return roles
}

// Index returns the channel position of role within l, or -1.
func (l ChannelLayout) Index(role ChannelLayout) int {
	if !l.Has(role) || role.Channels() != 1 {
		return -1
	}
	return bits.OnesCount64(uint64(l) & (uint64(role) - 1))
}

func (l ChannelLayout) String() string {
	switch l {
	case LayoutMono:
		return "mono"
	case LayoutStereo:
		return "stereo"
	case Layout2Point1:
		return "2.1"
	case LayoutQuad:
		return "quad"
	case Layout5Point0:
		return "5.0"
	case Layout5Point1:
		return "5.1"
	case Layout7Point1:
		return "7.1"
	}

	names := make([]string, 0, l.Channels())
	for i, name := range roleNames {
		if l&(1<<i) != 0 {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "+")
}

// DefaultLayout returns the conventional layout for n channels.
func DefaultLayout(n int) ChannelLayout {
	switch n {
	case 1:
		return LayoutMono
	case 2:
		return LayoutStereo
	case 3:
		return LayoutSurround
	case 4:
		return LayoutQuad
	case 5:
		return Layout5Point0
	case 6:
		return Layout5Point1
	case 8:
		return Layout7Point1
	}
	if n <= 0 {
		return 0
	}
	if n > len(roleNames) {
		n = len(roleNames)
	}
	return ChannelLayout(1<<n - 1)
}

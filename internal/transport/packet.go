package transport

import (
	"fmt"

	"github.com/srliao/streetfire/pkg/emitter"
)

//PacketSize is the length of one hardware packet: flame, p1 colour and p2
//colour masks for each arc followed by both players' health
const PacketSize = 3*2 + 2

//EncodePacket packs a rig snapshot into the bitmask packet the emitter
//controllers expect. Bit i of a mask is physical emitter i.
func EncodePacket(s emitter.Snapshot, hp [2]int) []byte {
	b := make([]byte, PacketSize)
	for i, arc := range [][emitter.ArcLength]emitter.EmitterState{s.Left, s.Right} {
		for j, e := range arc {
			bit := byte(1) << uint(j)
			if e.Flame {
				b[i*3] |= bit
			}
			if e.P1Colour {
				b[i*3+1] |= bit
			}
			if e.P2Colour {
				b[i*3+2] |= bit
			}
		}
	}
	b[6] = clampHP(hp[0])
	b[7] = clampHP(hp[1])
	return b
}

//DecodePacket is the inverse of EncodePacket
func DecodePacket(b []byte) (emitter.Snapshot, [2]int, error) {
	var s emitter.Snapshot
	if len(b) != PacketSize {
		return s, [2]int{}, fmt.Errorf("packet is %d bytes, want %d", len(b), PacketSize)
	}
	for i, arc := range []*[emitter.ArcLength]emitter.EmitterState{&s.Left, &s.Right} {
		for j := range arc {
			bit := byte(1) << uint(j)
			arc[j] = emitter.EmitterState{
				Flame:    b[i*3]&bit != 0,
				P1Colour: b[i*3+1]&bit != 0,
				P2Colour: b[i*3+2]&bit != 0,
			}
		}
	}
	return s, [2]int{int(b[6]), int(b[7])}, nil
}

func clampHP(hp int) byte {
	switch {
	case hp < 0:
		return 0
	case hp > 255:
		return 255
	}
	return byte(hp)
}

package nodewire

import (
	"github.com/mkordik/nodewire/pkg/imm"
)

// sortChannels reorders the per-node channel pairs so the draw list
// plays back in the pool's paint order instead of declaration order.
// Each node recorded into the channel pair it pushed at declaration;
// here those buffers are swapped into the position given by the node's
// rank among this frame's submitted nodes. Slots whose node was never
// initialized keep their channels in place.
func (g *Graph) sortChannels(host *imm.Context) {
	dl := host.DrawList()

	cnt := g.submitCount * 2
	if cnt == 0 {
		return
	}
	strt := dl.ChannelCount() - cnt

	temp := make([]imm.DrawChannel, cnt)
	dl.SetChannel(0)

	// Target pairs are dense: one per node submitted this frame, in
	// paint order. Pool slots that sat out the frame own no channels,
	// so they advance the iteration but not the target index.
	sub := 0
	for i := 0; i < g.nodes.Len(); i++ {
		_, node, active := g.nodes.At(i)
		if !active || node.graph == nil {
			continue
		}
		swapChannel(&temp[node.bgChannel-strt], &dl.Channels[strt+sub*2])
		swapChannel(&temp[node.fgChannel-strt], &dl.Channels[strt+sub*2+1])
		sub++
	}

	for i := range temp {
		swapChannel(&temp[i], &dl.Channels[strt+i])
	}
}

func swapChannel(a, b *imm.DrawChannel) {
	a.Cmds, b.Cmds = b.Cmds, a.Cmds
}

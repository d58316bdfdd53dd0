package imm

import (
	"testing"

	"github.com/mkordik/nodewire/pkg/geom"
)

func TestSplitterPushSetMerge(t *testing.T) {
	c := NewContext()
	frame(c, Input{})
	dl := c.DrawList()

	dl.AddLine(geom.V(0, 0), geom.V(1, 1), RGB(1, 1, 1), 1) // base channel

	first := dl.PushChannels(2)
	if first != 1 {
		t.Fatalf("PushChannels first index = %d, want 1", first)
	}
	if dl.ChannelCount() != 3 {
		t.Fatalf("ChannelCount = %d, want 3", dl.ChannelCount())
	}

	// Record out of channel order; merge must restore channel order.
	dl.SetChannel(first + 1)
	dl.AddCircle(geom.V(9, 9), 2, RGB(3, 3, 3), 1)
	dl.SetChannel(first)
	dl.AddRect(geom.V(2, 2), geom.V(3, 3), RGB(2, 2, 2), 0, 1)

	dl.Merge()
	cmds := dl.Commands()
	if len(cmds) != 3 {
		t.Fatalf("merged command count = %d, want 3", len(cmds))
	}
	want := []CmdKind{CmdLine, CmdRect, CmdCircle}
	for i, k := range want {
		if cmds[i].Kind != k {
			t.Errorf("cmds[%d].Kind = %v, want %v", i, cmds[i].Kind, k)
		}
	}
	if dl.ChannelCount() != 1 {
		t.Errorf("channels not collapsed after merge: %d", dl.ChannelCount())
	}
}

func TestSwapChannels(t *testing.T) {
	c := NewContext()
	frame(c, Input{})
	dl := c.DrawList()

	first := dl.PushChannels(2)
	dl.SetChannel(first)
	dl.AddCircleFilled(geom.V(1, 1), 1, RGB(10, 0, 0))
	dl.SetChannel(first + 1)
	dl.AddCircleFilled(geom.V(2, 2), 1, RGB(20, 0, 0))

	dl.SwapChannels(first, first+1)
	dl.Merge()

	cmds := dl.Commands()
	if cmds[0].Color.R != 20 || cmds[1].Color.R != 10 {
		t.Errorf("swap did not exchange buffer contents: %v", cmds)
	}
}

func TestPushChannelsReusesCapacity(t *testing.T) {
	c := NewContext()
	frame(c, Input{})
	dl := c.DrawList()

	first := dl.PushChannels(4)
	dl.SetChannel(first + 3)
	for i := 0; i < 8; i++ {
		dl.AddLine(geom.V(0, 0), geom.V(1, 1), RGB(1, 1, 1), 1)
	}
	dl.Merge()

	// Next frame: previously grown buffers come back empty.
	frame(c, Input{})
	dl = c.DrawList()
	first = dl.PushChannels(4)
	for i := 0; i < 4; i++ {
		dl.SetChannel(first + i)
		if got := len(dl.Channels[first+i].Cmds); got != 0 {
			t.Errorf("reused channel %d not empty: %d cmds", i, got)
		}
	}
}

func TestSetChannelOutOfRangePanics(t *testing.T) {
	c := NewContext()
	frame(c, Input{})
	defer func() {
		if recover() == nil {
			t.Error("SetChannel out of range did not panic")
		}
	}()
	c.DrawList().SetChannel(5)
}

func TestLerpColor(t *testing.T) {
	a, b := RGB(0, 100, 200), RGB(100, 200, 0)
	mid := LerpColor(a, b, 0.5)
	if mid.R != 50 || mid.G != 150 || mid.B != 100 {
		t.Errorf("LerpColor mid = %+v", mid)
	}
	if LerpColor(a, b, 0) != a || LerpColor(a, b, 1) != b {
		t.Error("LerpColor endpoints wrong")
	}
}

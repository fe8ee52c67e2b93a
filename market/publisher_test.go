package market

import "testing"

func TestPublisherFanout(t *testing.T) {
	p := NewPublisher()
	snapCh := p.SubscribeSnapshot()
	tradeCh := p.SubscribeTrade()

	p.PublishSnapshot(Snapshot{Step: 1, Mid: 100})
	p.PublishTrade(Trade{Side: SideBuy, Price: 99.95, Size: 10})

	s := <-snapCh
	if s.Step != 1 || s.Mid != 100 {
		t.Fatalf("unexpected snapshot: %+v", s)
	}
	tr := <-tradeCh
	if tr.Side != SideBuy || tr.Size != 10 {
		t.Fatalf("unexpected trade: %+v", tr)
	}
}

func TestPublisherDropsWhenFull(t *testing.T) {
	p := NewPublisher()
	ch := p.SubscribeSnapshot()
	for i := 0; i < 40; i++ {
		p.PublishSnapshot(Snapshot{Step: i})
	}
	// 缓冲 16，其余丢弃；发布端不阻塞即通过。
	if len(ch) != 16 {
		t.Fatalf("expected buffered 16 got %d", len(ch))
	}
}

package market

import "sync"

// Publisher 一个轻量事件分发器：模拟循环发布，流式/监控端订阅。
// 慢消费者直接丢弃，不阻塞模拟步进。
type Publisher struct {
	mu        sync.Mutex
	snapSubs  []chan Snapshot
	tradeSubs []chan Trade
}

func NewPublisher() *Publisher {
	return &Publisher{
		snapSubs:  make([]chan Snapshot, 0),
		tradeSubs: make([]chan Trade, 0),
	}
}

func (p *Publisher) SubscribeSnapshot() <-chan Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan Snapshot, 16)
	p.snapSubs = append(p.snapSubs, ch)
	return ch
}

func (p *Publisher) SubscribeTrade() <-chan Trade {
	p.mu.Lock()
	defer p.mu.Unlock()
	ch := make(chan Trade, 16)
	p.tradeSubs = append(p.tradeSubs, ch)
	return ch
}

func (p *Publisher) PublishSnapshot(s Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.snapSubs {
		select {
		case ch <- s:
		default:
		}
	}
}

func (p *Publisher) PublishTrade(t Trade) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, ch := range p.tradeSubs {
		select {
		case ch <- t:
		default:
		}
	}
}

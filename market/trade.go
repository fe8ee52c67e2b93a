package market

// 做市商视角的成交方向。
const (
	SideBuy  = "BUY"
	SideSell = "SELL"
)

// ValidSide 判断方向是否合法。
func ValidSide(side string) bool {
	return side == SideBuy || side == SideSell
}

// Trade 一笔做市商成交，录入后不可变。
// MidBefore 是成交时刻的中间价，MidAfter 是本步价格移动后的中间价。
type Trade struct {
	ID        string
	Side      string
	Price     float64
	Size      float64
	MidBefore float64
	MidAfter  float64
	Step      int
}

package components

import "fmt"

// GridCell 网格格子坐标
// X 为列索引（世界 X 方向），Y 为行索引（世界 Z 方向）
type GridCell struct {
	X int
	Y int
}

// String 返回 "(x,y)" 形式，便于日志输出
func (c GridCell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add 返回偏移后的格子
func (c GridCell) Add(dx, dy int) GridCell {
	return GridCell{X: c.X + dx, Y: c.Y + dy}
}

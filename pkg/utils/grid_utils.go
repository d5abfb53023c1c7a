package utils

import (
	"math"

	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/config"
	"github.com/go-gl/mathgl/mgl64"
)

// 网格坐标工具
//
// 托盘位置是占地区域的中心。对多格托盘，中心相对基准格子
// （占地中 X/Z 最小的格子）有 (size-1)*cellSize/2 的偏移：
//
//	center = origin + base*cellSize + offset
//
// 吸附时先扣除偏移，按格子边长归一化后取整（math.Round，
// 0.5 远离零方向进位），再换算回世界坐标。

// FootprintOffset 返回占地中心相对基准格子中心的偏移
// 参数:
//   - cellSize: 格子边长
//   - size: 该轴上的占地格子数
func FootprintOffset(cellSize float64, size int) float64 {
	return float64(size-1) * cellSize * 0.5
}

// ClampToGrid 将拖拽位置限制在网格内，保证整个占地区域不越界
//
// X 限制在 [originX+offX, originX+(columns-width)*cellSize+offX]，
// Z 同理使用 rows/depth。Y 保持不变。
func ClampToGrid(g config.GridLayout, width, depth int, pos mgl64.Vec3) mgl64.Vec3 {
	offX := FootprintOffset(g.CellSize, width)
	offZ := FootprintOffset(g.CellSize, depth)

	minX := g.OriginX + offX
	maxX := g.OriginX + float64(g.Columns-width)*g.CellSize + offX
	minZ := g.OriginZ + offZ
	maxZ := g.OriginZ + float64(g.Rows-depth)*g.CellSize + offZ

	return mgl64.Vec3{
		mgl64.Clamp(pos.X(), minX, maxX),
		pos.Y(),
		mgl64.Clamp(pos.Z(), minZ, maxZ),
	}
}

// SnapToGrid 计算离拖拽位置最近的网格对齐位置
//
// 返回:
//   - snapped: 吸附后的世界坐标（Y 为 FixedY）
//   - base: 吸附位置对应的基准格子
func SnapToGrid(g config.GridLayout, width, depth int, pos mgl64.Vec3) (snapped mgl64.Vec3, base components.GridCell) {
	offX := FootprintOffset(g.CellSize, width)
	offZ := FootprintOffset(g.CellSize, depth)

	snappedX := math.Round((pos.X()-g.OriginX-offX)/g.CellSize)*g.CellSize + g.OriginX + offX
	snappedZ := math.Round((pos.Z()-g.OriginZ-offZ)/g.CellSize)*g.CellSize + g.OriginZ + offZ

	// 吸附后的坐标已是整数倍，再次取整只为消除浮点误差
	base = components.GridCell{
		X: int(math.Round((snappedX - g.OriginX - offX) / g.CellSize)),
		Y: int(math.Round((snappedZ - g.OriginZ - offZ) / g.CellSize)),
	}

	return mgl64.Vec3{snappedX, g.FixedY, snappedZ}, base
}

// CellToWorld 返回以 base 为基准格子的占地区域中心的世界坐标
func CellToWorld(g config.GridLayout, base components.GridCell, width, depth int) mgl64.Vec3 {
	return mgl64.Vec3{
		g.OriginX + float64(base.X)*g.CellSize + FootprintOffset(g.CellSize, width),
		g.FixedY,
		g.OriginZ + float64(base.Y)*g.CellSize + FootprintOffset(g.CellSize, depth),
	}
}

// WorldToCell 将世界坐标转换为所在格子，取整规则与单格托盘吸附一致
// 返回:
//   - cell: 格子坐标
//   - isValid: 是否在网格范围内
func WorldToCell(g config.GridLayout, x, z float64) (cell components.GridCell, isValid bool) {
	_, cell = SnapToGrid(g, 1, 1, mgl64.Vec3{x, g.FixedY, z})
	return cell, InBounds(g, cell)
}

// InBounds 检查格子是否在网格范围内
func InBounds(g config.GridLayout, cell components.GridCell) bool {
	return cell.X >= 0 && cell.X < g.Columns && cell.Y >= 0 && cell.Y < g.Rows
}

// FootprintCells 枚举以 base 为基准格子、占地 width x depth 的全部格子
// 顺序：先 X 后 Y（x=0 的一列全部列出后再到 x=1）
func FootprintCells(base components.GridCell, width, depth int) []components.GridCell {
	cells := make([]components.GridCell, 0, width*depth)
	for x := 0; x < width; x++ {
		for y := 0; y < depth; y++ {
			cells = append(cells, base.Add(x, y))
		}
	}
	return cells
}

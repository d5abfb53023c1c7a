package game

import (
	"github.com/decker502/traygrid/pkg/config"
	"github.com/decker502/traygrid/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// 相机高度（正交投影下只影响射线起点，不影响缩放）
const topDownCameraHeight = 50.0

// TopDownCamera 固定的俯视正交相机
//
// 世界 X 轴对应屏幕向右，世界 Z 轴对应屏幕向下。
// 屏幕中心对准 (CenterX, CenterZ)，每个世界单位占 Scale 个像素。
type TopDownCamera struct {
	CenterX, CenterZ float64
	Scale            float64
	ScreenWidth      int
	ScreenHeight     int
}

// NewTopDownCamera 创建能完整显示网格的相机
//
// 参数:
//   - layout: 网格布局
//   - screenWidth, screenHeight: 逻辑屏幕尺寸
//   - padding: 网格四周保留的像素
func NewTopDownCamera(layout config.GridLayout, screenWidth, screenHeight int, padding float64) *TopDownCamera {
	minX, minZ, maxX, maxZ := layout.WorldBounds()

	worldW := maxX - minX
	worldH := maxZ - minZ
	availW := float64(screenWidth) - 2*padding
	availH := float64(screenHeight) - 2*padding

	scale := 1.0
	if worldW > 0 && worldH > 0 && availW > 0 && availH > 0 {
		scale = min(availW/worldW, availH/worldH)
	}

	return &TopDownCamera{
		CenterX:      (minX + maxX) / 2,
		CenterZ:      (minZ + maxZ) / 2,
		Scale:        scale,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

// WorldToScreen 将世界坐标投影到屏幕（忽略高度）
func (c *TopDownCamera) WorldToScreen(x, z float64) (float64, float64) {
	sx := (x-c.CenterX)*c.Scale + float64(c.ScreenWidth)/2
	sy := (z-c.CenterZ)*c.Scale + float64(c.ScreenHeight)/2
	return sx, sy
}

// ScreenToWorld 将屏幕坐标反投影到世界 X/Z
func (c *TopDownCamera) ScreenToWorld(sx, sy float64) (float64, float64) {
	x := (sx-float64(c.ScreenWidth)/2)/c.Scale + c.CenterX
	z := (sy-float64(c.ScreenHeight)/2)/c.Scale + c.CenterZ
	return x, z
}

// ScreenToRay 返回经过屏幕点的拾取射线（垂直向下）
func (c *TopDownCamera) ScreenToRay(sx, sy int) utils.Ray {
	x, z := c.ScreenToWorld(float64(sx), float64(sy))
	return utils.Ray{
		Origin:    mgl64.Vec3{x, topDownCameraHeight, z},
		Direction: mgl64.Vec3{0, -1, 0},
	}
}

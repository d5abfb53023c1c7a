package components

import "image/color"

// TrayVisualComponent 托盘的渲染属性
type TrayVisualComponent struct {
	// Color 托盘填充颜色
	Color color.RGBA
	// Label 显示在托盘上的文字（通常是托盘名称）
	Label string
	// Highlighted 是否高亮（鼠标悬停或拖拽中）
	Highlighted bool
}

package game

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene 由 SceneManager 驱动的场景，目前只有托盘棋盘一个
type Scene interface {
	// Update 推进一帧逻辑，deltaTime 单位为秒
	Update(deltaTime float64)
	// Draw 绘制到 screen
	Draw(screen *ebiten.Image)
}

// Saveable 需要在窗口关闭或重新加载前保存状态的场景
type Saveable interface {
	// SaveOnExit 返回 false 表示保存失败，调用方只记录日志不阻止退出
	SaveOnExit() bool
}

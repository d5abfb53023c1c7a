// Package utils 提供网格坐标换算、几何计算和指针输入等工具函数
package utils

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// GetPointerPosition 获取当前指针位置，有触摸时优先取第一个触摸点
func GetPointerPosition() (int, int) {
	if touchIDs := ebiten.AppendTouchIDs(nil); len(touchIDs) > 0 {
		return ebiten.TouchPosition(touchIDs[0])
	}
	return ebiten.CursorPosition()
}

// IsCancelJustPressed 本帧是否按下取消（鼠标右键或 ESC）
func IsCancelJustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) ||
		inpututil.IsKeyJustPressed(ebiten.KeyEscape)
}

// DragState 指针拖拽阶段
type DragState int

const (
	// DragStateNone 没有按下
	DragStateNone DragState = iota
	// DragStateStarted 本帧刚按下
	DragStateStarted
	// DragStateDragging 按住移动中
	DragStateDragging
	// DragStateEnded 本帧刚松开，只持续一帧
	DragStateEnded
)

// mouseTouchID 表示跟踪的是鼠标而不是触摸点
const mouseTouchID ebiten.TouchID = -1

// DragInfo 被跟踪指针的状态（屏幕坐标）
type DragInfo struct {
	State              DragState
	StartX, StartY     int
	CurrentX, CurrentY int
	TouchID            ebiten.TouchID
	IsTouchInput       bool
}

// DragManager 跟踪单个指针（鼠标左键或一个触摸点）的按下、移动和释放
//
// 拖拽进行中时其他触摸点被忽略，同一时刻最多只有一个托盘被拖拽。
type DragManager struct {
	info DragInfo
}

// NewDragManager 创建拖拽管理器
func NewDragManager() *DragManager {
	dm := &DragManager{}
	dm.Reset()
	return dm
}

// Update 每帧调用一次，推进拖拽状态
func (dm *DragManager) Update() {
	switch dm.info.State {
	case DragStateEnded:
		dm.Reset()
		fallthrough
	case DragStateNone:
		dm.press()
	case DragStateStarted, DragStateDragging:
		x, y, held := dm.poll()
		if !held {
			dm.info.State = DragStateEnded
			return
		}
		dm.info.State = DragStateDragging
		dm.info.CurrentX, dm.info.CurrentY = x, y
	}
}

// press 检测新的按下，触摸优先于鼠标
func (dm *DragManager) press() {
	if pressed := inpututil.AppendJustPressedTouchIDs(nil); len(pressed) > 0 {
		x, y := ebiten.TouchPosition(pressed[0])
		dm.begin(x, y, pressed[0])
		return
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		dm.begin(x, y, mouseTouchID)
	}
}

func (dm *DragManager) begin(x, y int, touchID ebiten.TouchID) {
	dm.info = DragInfo{
		State:        DragStateStarted,
		StartX:       x,
		StartY:       y,
		CurrentX:     x,
		CurrentY:     y,
		TouchID:      touchID,
		IsTouchInput: touchID != mouseTouchID,
	}
}

// poll 返回被跟踪指针的当前位置，以及它是否仍按着
func (dm *DragManager) poll() (int, int, bool) {
	if !dm.info.IsTouchInput {
		x, y := ebiten.CursorPosition()
		return x, y, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	}
	for _, id := range ebiten.AppendTouchIDs(nil) {
		if id == dm.info.TouchID {
			x, y := ebiten.TouchPosition(id)
			return x, y, true
		}
	}
	return dm.info.CurrentX, dm.info.CurrentY, false
}

// Reset 回到未按下状态
func (dm *DragManager) Reset() {
	dm.info = DragInfo{State: DragStateNone, TouchID: mouseTouchID}
}

// GetState 当前拖拽阶段
func (dm *DragManager) GetState() DragState {
	return dm.info.State
}

// CurrentPosition 被跟踪指针当前的屏幕坐标
func (dm *DragManager) CurrentPosition() (int, int) {
	return dm.info.CurrentX, dm.info.CurrentY
}

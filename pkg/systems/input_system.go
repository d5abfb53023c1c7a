package systems

import (
	"errors"
	"log"

	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/ecs"
	"github.com/decker502/traygrid/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// ScreenRayCaster 将屏幕坐标转换为世界空间射线（通常是相机）
type ScreenRayCaster interface {
	ScreenToRay(sx, sy int) utils.Ray
}

// PointerEvent 一帧的指针输入
type PointerEvent struct {
	State  utils.DragState
	X, Y   int  // 屏幕坐标
	Cancel bool // 本帧是否按下取消（右键或 ESC）
}

// InputSystem 把指针拖拽转换为托盘拖拽
//
// 按下时拾取指针下方的托盘并开始拖拽，移动时把射线与放置平面的交点
// 交给 TrayDragSystem，释放时结束拖拽。宿主负责提供射线，本系统不关心投影方式。
type InputSystem struct {
	entityManager *ecs.EntityManager
	drag          *TrayDragSystem
	collisions    *CollisionSystem
	camera        ScreenRayCaster
	dragManager   *utils.DragManager

	pointerWorld mgl64.Vec3
	pointerValid bool
	lastResult   *PlacementResult
}

// NewInputSystem 创建输入系统
func NewInputSystem(em *ecs.EntityManager, drag *TrayDragSystem, collisions *CollisionSystem, camera ScreenRayCaster) *InputSystem {
	return &InputSystem{
		entityManager: em,
		drag:          drag,
		collisions:    collisions,
		camera:        camera,
		dragManager:   utils.NewDragManager(),
	}
}

// Update 读取本帧的鼠标/触摸状态并处理
func (s *InputSystem) Update() {
	s.dragManager.Update()
	x, y := s.dragManager.CurrentPosition()
	if s.dragManager.GetState() == utils.DragStateNone {
		// 没有按下时也跟踪指针，用于悬停高亮
		x, y = utils.GetPointerPosition()
	}

	s.HandlePointer(PointerEvent{
		State:  s.dragManager.GetState(),
		X:      x,
		Y:      y,
		Cancel: utils.IsCancelJustPressed(),
	})
}

// HandlePointer 处理一帧指针输入（与 ebiten 无关，可在测试中直接调用）
func (s *InputSystem) HandlePointer(ev PointerEvent) {
	s.pointerWorld, s.pointerValid = s.pointerToWorld(ev.X, ev.Y)

	if ev.Cancel {
		s.cancelActiveDrag()
		return
	}

	switch ev.State {
	case utils.DragStateStarted:
		s.startDrag()
	case utils.DragStateDragging:
		s.moveDrag()
	case utils.DragStateEnded:
		s.moveDrag()
		s.endDrag()
	default:
		s.updateHover()
	}
}

// pointerToWorld 屏幕坐标 -> 放置平面上的世界坐标
func (s *InputSystem) pointerToWorld(sx, sy int) (mgl64.Vec3, bool) {
	ray := s.camera.ScreenToRay(sx, sy)
	return ray.IntersectHorizontalPlane(s.drag.grid.Layout().FixedY)
}

func (s *InputSystem) startDrag() {
	if !s.pointerValid {
		return
	}
	id, ok := s.collisions.PickPlaceable(s.pointerWorld.X(), s.pointerWorld.Z())
	if !ok {
		return
	}

	if err := s.drag.BeginDrag(id); err != nil {
		if !errors.Is(err, ErrDragInProgress) {
			log.Printf("[InputSystem] 无法开始拖拽: %v", err)
		}
		return
	}
	s.setHighlight(id)
}

func (s *InputSystem) moveDrag() {
	id, ok := s.drag.ActiveTray()
	if !ok || !s.pointerValid {
		return
	}
	if err := s.drag.UpdateDrag(id, s.pointerWorld); err != nil {
		log.Printf("[InputSystem] 更新拖拽失败: %v", err)
	}
}

func (s *InputSystem) endDrag() {
	id, ok := s.drag.ActiveTray()
	if !ok {
		return
	}
	result, err := s.drag.EndDrag(id)
	if err != nil {
		log.Printf("[InputSystem] 结束拖拽失败: %v", err)
		return
	}
	s.lastResult = &result
	s.setHighlight(0)
}

func (s *InputSystem) cancelActiveDrag() {
	id, ok := s.drag.ActiveTray()
	if !ok {
		return
	}
	if err := s.drag.CancelDrag(id); err != nil {
		log.Printf("[InputSystem] 取消拖拽失败: %v", err)
	}
	// 指针仍按着，结束事件到来时不会再有活动托盘
	s.setHighlight(0)
}

// updateHover 高亮指针下方的托盘
func (s *InputSystem) updateHover() {
	var hovered ecs.EntityID
	if s.pointerValid {
		hovered, _ = s.collisions.PickPlaceable(s.pointerWorld.X(), s.pointerWorld.Z())
	}
	s.setHighlight(hovered)
}

// setHighlight 只高亮指定托盘（0 表示全部取消）
func (s *InputSystem) setHighlight(id ecs.EntityID) {
	for _, e := range ecs.GetEntitiesWith1[*components.TrayVisualComponent](s.entityManager) {
		visual, _ := ecs.GetComponent[*components.TrayVisualComponent](s.entityManager, e)
		visual.Highlighted = e == id
	}
}

// PointerWorld 返回指针在放置平面上的位置
func (s *InputSystem) PointerWorld() (mgl64.Vec3, bool) {
	return s.pointerWorld, s.pointerValid
}

// LastResult 返回最近一次放置结果（还没有放置时为 nil）
func (s *InputSystem) LastResult() *PlacementResult {
	return s.lastResult
}

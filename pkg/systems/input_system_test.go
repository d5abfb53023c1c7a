package systems

import (
	"testing"

	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/ecs"
	"github.com/decker502/traygrid/pkg/utils"
	"github.com/go-gl/mathgl/mgl64"
)

// fakeCamera 每 10 个像素对应 1 个世界单位，射线垂直向下
type fakeCamera struct{}

func (fakeCamera) ScreenToRay(sx, sy int) utils.Ray {
	return utils.Ray{
		Origin:    mgl64.Vec3{float64(sx) / 10, 20, float64(sy) / 10},
		Direction: mgl64.Vec3{0, -1, 0},
	}
}

func newTestInput(t *testing.T) (*testScene, *InputSystem) {
	t.Helper()
	scene := newTestScene(t)
	return scene, NewInputSystem(scene.em, scene.drag, scene.collisions, fakeCamera{})
}

func highlighted(t *testing.T, scene *testScene, id ecs.EntityID) bool {
	t.Helper()
	visual, ok := ecs.GetComponent[*components.TrayVisualComponent](scene.em, id)
	if !ok {
		t.Fatalf("entity %d has no TrayVisualComponent", id)
	}
	return visual.Highlighted
}

// TestInputDragAndDrop 按下拾取托盘，拖动，释放后吸附放置
func TestInputDragAndDrop(t *testing.T) {
	scene, input := newTestInput(t)
	id := scene.placeTray(t, "tray", 1, 1, components.GridCell{X: 2, Y: 0})

	// 托盘中心在世界 (4, 1, 0)，即屏幕 (40, 0)
	input.HandlePointer(PointerEvent{State: utils.DragStateStarted, X: 42, Y: 5})
	if active, ok := scene.drag.ActiveTray(); !ok || active != id {
		t.Fatalf("press on tray should start dragging it, active = (%d, %v)", active, ok)
	}
	if !highlighted(t, scene, id) {
		t.Error("dragged tray should be highlighted")
	}

	input.HandlePointer(PointerEvent{State: utils.DragStateDragging, X: 118, Y: 43})
	if !vecApprox(scene.position(t, id), mgl64.Vec3{11.8, 1, 4.3}) {
		t.Errorf("tray should follow the pointer, got %v", scene.position(t, id))
	}

	input.HandlePointer(PointerEvent{State: utils.DragStateEnded, X: 121, Y: 41})

	result := input.LastResult()
	if result == nil || !result.Accepted {
		t.Fatalf("expected accepted placement, got %+v", result)
	}
	if result.Target != (components.GridCell{X: 6, Y: 2}) {
		t.Errorf("target = %v, want (6,2)", result.Target)
	}
	if _, ok := scene.drag.ActiveTray(); ok {
		t.Error("no tray should be active after release")
	}
	if highlighted(t, scene, id) {
		t.Error("highlight should be cleared after release")
	}
	scene.checkInvariant(t)
}

// TestInputPressOnEmptySpace 在空白处按下不开始拖拽
func TestInputPressOnEmptySpace(t *testing.T) {
	scene, input := newTestInput(t)
	scene.placeTray(t, "tray", 1, 1, components.GridCell{X: 2, Y: 0})

	input.HandlePointer(PointerEvent{State: utils.DragStateStarted, X: 100, Y: 100})
	input.HandlePointer(PointerEvent{State: utils.DragStateDragging, X: 40, Y: 0})
	input.HandlePointer(PointerEvent{State: utils.DragStateEnded, X: 40, Y: 0})

	if _, ok := scene.drag.ActiveTray(); ok {
		t.Error("no drag should start on empty space")
	}
	if input.LastResult() != nil {
		t.Error("no placement should have happened")
	}
}

// TestInputCancel 取消键恢复拖拽前的位置
func TestInputCancel(t *testing.T) {
	scene, input := newTestInput(t)
	id := scene.placeTray(t, "tray", 1, 1, components.GridCell{X: 2, Y: 0})
	home := scene.position(t, id)

	input.HandlePointer(PointerEvent{State: utils.DragStateStarted, X: 40, Y: 0})
	input.HandlePointer(PointerEvent{State: utils.DragStateDragging, X: 80, Y: 80})
	input.HandlePointer(PointerEvent{State: utils.DragStateDragging, X: 80, Y: 80, Cancel: true})

	if !vecApprox(scene.position(t, id), home) {
		t.Errorf("cancel should restore %v, got %v", home, scene.position(t, id))
	}
	if _, ok := scene.drag.ActiveTray(); ok {
		t.Error("no tray should be active after cancel")
	}

	// 随后的释放不再产生放置
	input.HandlePointer(PointerEvent{State: utils.DragStateEnded, X: 80, Y: 80})
	if input.LastResult() != nil {
		t.Error("release after cancel should not place anything")
	}
	scene.checkInvariant(t)
}

// TestInputHover 未按下时高亮指针下方的托盘
func TestInputHover(t *testing.T) {
	scene, input := newTestInput(t)
	a := scene.placeTray(t, "a", 1, 1, components.GridCell{X: 0, Y: 0})
	b := scene.placeTray(t, "b", 1, 1, components.GridCell{X: 3, Y: 3})

	input.HandlePointer(PointerEvent{State: utils.DragStateNone, X: 60, Y: 60})
	if highlighted(t, scene, a) || !highlighted(t, scene, b) {
		t.Error("only b should be highlighted")
	}

	input.HandlePointer(PointerEvent{State: utils.DragStateNone, X: 500, Y: 500})
	if highlighted(t, scene, a) || highlighted(t, scene, b) {
		t.Error("nothing should be highlighted over empty space")
	}

	if pos, ok := input.PointerWorld(); !ok || !vecApprox(pos, mgl64.Vec3{50, 1, 50}) {
		t.Errorf("PointerWorld = (%v, %v), want (50, 1, 50)", pos, ok)
	}
}

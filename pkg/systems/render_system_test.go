package systems

import (
	"fmt"
	"strings"
	"testing"

	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/ecs"
	"github.com/decker502/traygrid/pkg/utils"
	"github.com/google/go-cmp/cmp"
)

// scaleProjector 每个世界单位 10 像素，原点在屏幕 (100, 50)
type scaleProjector struct{}

func (scaleProjector) WorldToScreen(x, z float64) (float64, float64) {
	return 100 + x*10, 50 + z*10
}

// TestCellRect 测试格子的屏幕矩形
func TestCellRect(t *testing.T) {
	scene := newTestScene(t)
	render := NewRenderSystem(scene.em, scene.grid, scene.drag, nil, scaleProjector{})

	tests := []struct {
		cell       components.GridCell
		x, y, w, h float32
	}{
		{components.GridCell{X: 0, Y: 0}, 90, 40, 20, 20},
		{components.GridCell{X: 2, Y: 1}, 130, 60, 20, 20},
		{components.GridCell{X: 6, Y: 7}, 210, 180, 20, 20},
	}

	for _, tt := range tests {
		x, y, w, h := render.CellRect(tt.cell)
		if x != tt.x || y != tt.y || w != tt.w || h != tt.h {
			t.Errorf("CellRect(%v) = (%v, %v, %v, %v), want (%v, %v, %v, %v)",
				tt.cell, x, y, w, h, tt.x, tt.y, tt.w, tt.h)
		}
	}
}

// TestDrawOrderPutsDraggedTrayLast 拖拽中的托盘绘制在最上层
func TestDrawOrderPutsDraggedTrayLast(t *testing.T) {
	scene := newTestScene(t)
	render := NewRenderSystem(scene.em, scene.grid, scene.drag, nil, scaleProjector{})

	a := scene.placeTray(t, "a", 1, 1, components.GridCell{X: 0, Y: 0})
	b := scene.placeTray(t, "b", 1, 1, components.GridCell{X: 1, Y: 0})
	c := scene.placeTray(t, "c", 1, 1, components.GridCell{X: 2, Y: 0})

	if diff := cmp.Diff([]ecs.EntityID{a, b, c}, render.DrawOrder()); diff != "" {
		t.Errorf("idle draw order mismatch (-want +got):\n%s", diff)
	}

	if err := scene.drag.BeginDrag(a); err != nil {
		t.Fatalf("BeginDrag error: %v", err)
	}
	if diff := cmp.Diff([]ecs.EntityID{b, c, a}, render.DrawOrder()); diff != "" {
		t.Errorf("dragging draw order mismatch (-want +got):\n%s", diff)
	}
}

// TestDebugTextWithoutInput 没有输入系统时只显示占用数
func TestDebugTextWithoutInput(t *testing.T) {
	scene := newTestScene(t)
	render := NewRenderSystem(scene.em, scene.grid, scene.drag, nil, scaleProjector{})
	scene.placeTray(t, "a", 2, 1, components.GridCell{X: 0, Y: 0})

	if got := render.DebugText(); got != "occupied: 2" {
		t.Errorf("DebugText = %q, want %q", got, "occupied: 2")
	}
}

// TestDebugTextShowsPointerAndLastDrop 调试文字显示指针格子、拖拽预览和最近一次放置结果
func TestDebugTextShowsPointerAndLastDrop(t *testing.T) {
	scene, input := newTestInput(t)
	render := NewRenderSystem(scene.em, scene.grid, scene.drag, input, scaleProjector{})
	scene.placeTray(t, "blocker", 1, 1, components.GridCell{X: 3, Y: 3})
	id := scene.placeTray(t, "tray", 1, 1, components.GridCell{X: 2, Y: 0})

	// 悬停在网格外
	input.HandlePointer(PointerEvent{State: utils.DragStateNone, X: 500, Y: 500})
	if got := render.DebugText(); !strings.Contains(got, "pointer: off grid") {
		t.Errorf("DebugText = %q, want off-grid pointer", got)
	}

	input.HandlePointer(PointerEvent{State: utils.DragStateStarted, X: 42, Y: 5})
	input.HandlePointer(PointerEvent{State: utils.DragStateDragging, X: 118, Y: 43})
	got := render.DebugText()
	for _, want := range []string{"pointer: (6,2)", fmt.Sprintf("dragging %d -> (6,2) (none)", id)} {
		if !strings.Contains(got, want) {
			t.Errorf("DebugText while dragging = %q, want it to contain %q", got, want)
		}
	}

	input.HandlePointer(PointerEvent{State: utils.DragStateEnded, X: 121, Y: 41})
	if got := render.DebugText(); !strings.Contains(got, "last drop: (6,2) accepted") {
		t.Errorf("DebugText after drop = %q, want accepted drop at (6,2)", got)
	}

	// 拖到 blocker 的格子上，被拒绝
	input.HandlePointer(PointerEvent{State: utils.DragStateStarted, X: 120, Y: 40})
	input.HandlePointer(PointerEvent{State: utils.DragStateDragging, X: 60, Y: 60})
	input.HandlePointer(PointerEvent{State: utils.DragStateEnded, X: 61, Y: 61})
	got = render.DebugText()
	if !strings.Contains(got, "last drop: (3,3) rejected (occupied)") {
		t.Errorf("DebugText after rejected drop = %q", got)
	}
	if strings.Contains(got, "dragging") {
		t.Errorf("no drag should be active, got %q", got)
	}
}

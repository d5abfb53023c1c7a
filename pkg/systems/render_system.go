package systems

import (
	"fmt"
	"image/color"
	"slices"

	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/ecs"
	"github.com/decker502/traygrid/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// WorldProjector 世界坐标 -> 屏幕坐标（俯视，忽略高度）
type WorldProjector interface {
	WorldToScreen(x, z float64) (float64, float64)
}

// RenderOptions 绘制开关
type RenderOptions struct {
	ShowGrid      bool
	ShowSnapGhost bool
	ShowDebug     bool
	GridOpacity   float64
}

// 配色
var (
	boardColor       = color.RGBA{R: 0x2b, G: 0x2f, B: 0x36, A: 0xff}
	gridLineColor    = color.RGBA{R: 0xc8, G: 0xcc, B: 0xd4, A: 0xff}
	occupiedColor    = color.RGBA{R: 0x3c, G: 0x55, B: 0x44, A: 0xff}
	outlineColor     = color.RGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}
	highlightColor   = color.RGBA{R: 0xff, G: 0xee, B: 0x88, A: 0xff}
	ghostValidColor  = color.RGBA{R: 0x55, G: 0xdd, B: 0x77, A: 0xff}
	ghostRejectColor = color.RGBA{R: 0xee, G: 0x55, B: 0x55, A: 0xff}
)

// RenderSystem 俯视绘制网格、占用格子、托盘和吸附预览
type RenderSystem struct {
	entityManager *ecs.EntityManager
	grid          *OccupancyGridSystem
	drag          *TrayDragSystem
	input         *InputSystem
	projector     WorldProjector
}

// NewRenderSystem 创建渲染系统
// input 可以为 nil，此时调试文字不显示指针和最近一次放置结果
func NewRenderSystem(em *ecs.EntityManager, grid *OccupancyGridSystem, drag *TrayDragSystem,
	input *InputSystem, projector WorldProjector) *RenderSystem {
	return &RenderSystem{
		entityManager: em,
		grid:          grid,
		drag:          drag,
		input:         input,
		projector:     projector,
	}
}

// Draw 绘制一帧
func (s *RenderSystem) Draw(screen *ebiten.Image, opts RenderOptions) {
	s.drawBoard(screen, opts)

	for _, id := range s.DrawOrder() {
		s.drawTray(screen, id)
	}

	if opts.ShowSnapGhost {
		s.drawSnapGhost(screen)
	}
	if opts.ShowDebug {
		s.drawDebug(screen)
	}
}

// DrawOrder 返回托盘的绘制顺序：按ID升序，拖拽中的托盘最后绘制（在最上层）
func (s *RenderSystem) DrawOrder() []ecs.EntityID {
	ids := ecs.GetEntitiesWith2[*components.TrayComponent, *components.PositionComponent](s.entityManager)
	active, dragging := s.drag.ActiveTray()
	if !dragging {
		return ids
	}

	ids = slices.DeleteFunc(ids, func(id ecs.EntityID) bool { return id == active })
	return append(ids, active)
}

// CellRect 返回格子在屏幕上的矩形 (x, y, w, h)
func (s *RenderSystem) CellRect(cell components.GridCell) (float32, float32, float32, float32) {
	layout := s.grid.Layout()
	half := layout.CellSize / 2
	cx := layout.OriginX + float64(cell.X)*layout.CellSize
	cz := layout.OriginZ + float64(cell.Y)*layout.CellSize
	return s.worldRect(cx-half, cz-half, cx+half, cz+half)
}

// worldRect 把世界坐标矩形转换为屏幕矩形
func (s *RenderSystem) worldRect(minX, minZ, maxX, maxZ float64) (float32, float32, float32, float32) {
	x0, y0 := s.projector.WorldToScreen(minX, minZ)
	x1, y1 := s.projector.WorldToScreen(maxX, maxZ)
	return float32(x0), float32(y0), float32(x1 - x0), float32(y1 - y0)
}

func (s *RenderSystem) drawBoard(screen *ebiten.Image, opts RenderOptions) {
	layout := s.grid.Layout()
	minX, minZ, maxX, maxZ := layout.WorldBounds()
	x, y, w, h := s.worldRect(minX, minZ, maxX, maxZ)
	vector.DrawFilledRect(screen, x, y, w, h, boardColor, false)

	for _, cell := range s.grid.OccupiedCells() {
		cx, cy, cw, ch := s.CellRect(cell)
		vector.DrawFilledRect(screen, cx, cy, cw, ch, occupiedColor, false)
	}

	if !opts.ShowGrid || opts.GridOpacity <= 0 {
		return
	}

	lineColor := gridLineColor
	lineColor.A = uint8(opts.GridOpacity * 255)
	for col := 0; col <= layout.Columns; col++ {
		wx := minX + float64(col)*layout.CellSize
		x0, y0 := s.projector.WorldToScreen(wx, minZ)
		x1, y1 := s.projector.WorldToScreen(wx, maxZ)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, lineColor, false)
	}
	for row := 0; row <= layout.Rows; row++ {
		wz := minZ + float64(row)*layout.CellSize
		x0, y0 := s.projector.WorldToScreen(minX, wz)
		x1, y1 := s.projector.WorldToScreen(maxX, wz)
		vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, lineColor, false)
	}
}

func (s *RenderSystem) drawTray(screen *ebiten.Image, id ecs.EntityID) {
	tray, ok := ecs.GetComponent[*components.TrayComponent](s.entityManager, id)
	if !ok {
		return
	}
	pos, ok := ecs.GetComponent[*components.PositionComponent](s.entityManager, id)
	if !ok {
		return
	}

	fill := color.RGBA{R: 0x99, G: 0x99, B: 0x99, A: 0xff}
	label := tray.Name
	highlighted := false
	if visual, ok := ecs.GetComponent[*components.TrayVisualComponent](s.entityManager, id); ok {
		fill = visual.Color
		label = visual.Label
		highlighted = visual.Highlighted
	}

	// 托盘略小于占地区域，相邻托盘之间留出缝隙
	layout := s.grid.Layout()
	halfW := float64(tray.Width)*layout.CellSize/2 - 0.08
	halfD := float64(tray.Depth)*layout.CellSize/2 - 0.08
	x, y, w, h := s.worldRect(pos.X-halfW, pos.Z-halfD, pos.X+halfW, pos.Z+halfD)

	vector.DrawFilledRect(screen, x, y, w, h, fill, true)
	if highlighted {
		vector.StrokeRect(screen, x, y, w, h, 3, highlightColor, true)
	} else {
		vector.StrokeRect(screen, x, y, w, h, 1.5, outlineColor, true)
	}
	ebitenutil.DebugPrintAt(screen, label, int(x)+4, int(y)+2)
}

func (s *RenderSystem) drawSnapGhost(screen *ebiten.Image) {
	active, ok := s.drag.ActiveTray()
	if !ok {
		return
	}
	preview, err := s.drag.Preview(active)
	if err != nil {
		return
	}

	ghost := ghostValidColor
	if !preview.Accepted {
		ghost = ghostRejectColor
	}
	for _, cell := range preview.Cells {
		if !utils.InBounds(s.grid.Layout(), cell) {
			continue
		}
		x, y, w, h := s.CellRect(cell)
		vector.StrokeRect(screen, x+2, y+2, w-4, h-4, 2, ghost, true)
	}
}

func (s *RenderSystem) drawDebug(screen *ebiten.Image) {
	ebitenutil.DebugPrint(screen, s.DebugText())
}

// DebugText 返回调试文字：占用数、指针所在格子、拖拽预览和最近一次放置结果
func (s *RenderSystem) DebugText() string {
	msg := fmt.Sprintf("occupied: %d", s.grid.Count())

	if s.input != nil {
		if world, ok := s.input.PointerWorld(); ok {
			cell, inside := utils.WorldToCell(s.grid.Layout(), world.X(), world.Z())
			if inside {
				msg += fmt.Sprintf("\npointer: %v", cell)
			} else {
				msg += "\npointer: off grid"
			}
		}
	}

	if active, ok := s.drag.ActiveTray(); ok {
		if preview, err := s.drag.Preview(active); err == nil {
			msg += fmt.Sprintf("\ndragging %d -> %v (%s)", active, preview.Target, preview.Reason)
		}
	}

	if s.input != nil {
		if last := s.input.LastResult(); last != nil {
			if last.Accepted {
				msg += fmt.Sprintf("\nlast drop: %v accepted", last.Target)
			} else {
				msg += fmt.Sprintf("\nlast drop: %v rejected (%s)", last.Target, last.Reason)
			}
		}
	}
	return msg
}

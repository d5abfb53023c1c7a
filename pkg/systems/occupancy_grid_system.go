package systems

import (
	"fmt"
	"slices"

	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/config"
	"github.com/decker502/traygrid/pkg/ecs"
	"github.com/decker502/traygrid/pkg/utils"
)

// OccupancyGridSystem 管理网格的占用状态
// 负责跟踪哪些格子已被托盘占用，并提供查询和更新方法
//
// 占用表存放在网格实体的 OccupancyGridComponent 上，由本系统独占修改。
// 所有托盘通过同一个网格实体ID访问它，不存在隐式的全局状态。
type OccupancyGridSystem struct {
	entityManager *ecs.EntityManager
	layout        config.GridLayout
	gridEntity    ecs.EntityID
}

// NewOccupancyGridSystem 创建网格占用系统
// 参数:
//   - em: EntityManager 实例
//   - layout: 网格布局（用于边界检查）
//   - gridEntity: 持有 OccupancyGridComponent 的网格实体ID
func NewOccupancyGridSystem(em *ecs.EntityManager, layout config.GridLayout, gridEntity ecs.EntityID) *OccupancyGridSystem {
	return &OccupancyGridSystem{
		entityManager: em,
		layout:        layout,
		gridEntity:    gridEntity,
	}
}

// Layout 返回网格布局
func (s *OccupancyGridSystem) Layout() config.GridLayout {
	return s.layout
}

// grid 获取占用表组件
func (s *OccupancyGridSystem) grid() (*components.OccupancyGridComponent, error) {
	grid, ok := ecs.GetComponent[*components.OccupancyGridComponent](s.entityManager, s.gridEntity)
	if !ok {
		return nil, fmt.Errorf("failed to get OccupancyGridComponent from entity %d", s.gridEntity)
	}
	return grid, nil
}

// OccupantOf 返回占用指定格子的托盘实体ID
func (s *OccupancyGridSystem) OccupantOf(cell components.GridCell) (ecs.EntityID, bool) {
	grid, err := s.grid()
	if err != nil {
		return 0, false
	}
	id, ok := grid.Cells[cell]
	return id, ok
}

// OccupyCell 标记指定格子为被占用状态
//
// 返回:
//   - error: 如果位置无效或格子已被占用，返回错误
func (s *OccupancyGridSystem) OccupyCell(cell components.GridCell, tray ecs.EntityID) error {
	if !utils.InBounds(s.layout, cell) {
		return fmt.Errorf("invalid grid position %v (valid range: x 0-%d, y 0-%d)",
			cell, s.layout.Columns-1, s.layout.Rows-1)
	}

	grid, err := s.grid()
	if err != nil {
		return err
	}

	if owner, occupied := grid.Cells[cell]; occupied {
		return fmt.Errorf("grid cell %v is already occupied by entity %d", cell, owner)
	}

	grid.Cells[cell] = tray
	return nil
}

// OccupyCells 一次占用多个格子（全部成功或全部不变）
func (s *OccupancyGridSystem) OccupyCells(cells []components.GridCell, tray ecs.EntityID) error {
	for i, cell := range cells {
		if err := s.OccupyCell(cell, tray); err != nil {
			// 回滚本次已占用的格子
			for _, done := range cells[:i] {
				_ = s.ReleaseCell(done)
			}
			return err
		}
	}
	return nil
}

// ReleaseCell 清空指定格子的占用状态
//
// 返回:
//   - error: 如果位置无效，返回错误
func (s *OccupancyGridSystem) ReleaseCell(cell components.GridCell) error {
	if !utils.InBounds(s.layout, cell) {
		return fmt.Errorf("invalid grid position %v (valid range: x 0-%d, y 0-%d)",
			cell, s.layout.Columns-1, s.layout.Rows-1)
	}

	grid, err := s.grid()
	if err != nil {
		return err
	}

	delete(grid.Cells, cell)
	return nil
}

// ReleaseCells 释放多个格子
func (s *OccupancyGridSystem) ReleaseCells(cells []components.GridCell) error {
	for _, cell := range cells {
		if err := s.ReleaseCell(cell); err != nil {
			return err
		}
	}
	return nil
}

// OccupiedCells 返回所有被占用格子的快照（按 Y、X 排序）
func (s *OccupancyGridSystem) OccupiedCells() []components.GridCell {
	grid, err := s.grid()
	if err != nil {
		return nil
	}

	cells := make([]components.GridCell, 0, len(grid.Cells))
	for cell := range grid.Cells {
		cells = append(cells, cell)
	}
	slices.SortFunc(cells, compareCells)
	return cells
}

// Count 返回被占用格子的数量
func (s *OccupancyGridSystem) Count() int {
	grid, err := s.grid()
	if err != nil {
		return 0
	}
	return len(grid.Cells)
}

// compareCells 格子排序：先 Y 后 X
func compareCells(a, b components.GridCell) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}

package scenes

import (
	"fmt"
	"log"

	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/config"
	"github.com/decker502/traygrid/pkg/ecs"
	"github.com/decker502/traygrid/pkg/entities"
	"github.com/decker502/traygrid/pkg/systems"
	"github.com/go-gl/mathgl/mgl64"
)

// SeedTrays 按配置创建托盘并放置到初始格子
//
// 放置校验与拖拽松手时相同。无法放置的托盘（越界、与前面的托盘冲突）
// 会被移除并记录警告，不会中断其他托盘的初始化。
//
// 返回:
//   - []ecs.EntityID: 成功放置的托盘（按配置顺序）
//   - error: 托盘实体创建失败（颜色格式错误等）
func SeedTrays(em *ecs.EntityManager, layout config.GridLayout, drag *systems.TrayDragSystem, trays []config.TrayConfig) ([]ecs.EntityID, error) {
	// 创建时先停放在网格外，放置成功后才进入网格
	minX, minZ, _, _ := layout.WorldBounds()
	staging := mgl64.Vec3{minX - layout.CellSize, layout.FixedY, minZ - layout.CellSize}

	placed := make([]ecs.EntityID, 0, len(trays))
	for _, trayCfg := range trays {
		id, err := entities.NewTrayEntity(em, layout, trayCfg, staging)
		if err != nil {
			return placed, fmt.Errorf("failed to create tray %s: %w", trayCfg.Name, err)
		}

		base := components.GridCell{X: trayCfg.Col, Y: trayCfg.Row}
		result, err := drag.PlaceTray(id, base)
		if err != nil {
			return placed, fmt.Errorf("failed to place tray %s: %w", trayCfg.Name, err)
		}
		if !result.Accepted {
			log.Printf("[TrayScene] 警告：托盘 %s 无法放置到 %v (%s)，已移除", trayCfg.Name, base, result.Reason)
			if err := drag.RemoveTray(id); err != nil {
				return placed, err
			}
			em.RemoveMarkedEntities()
			continue
		}

		placed = append(placed, id)
	}

	return placed, nil
}

package entities

import (
	"fmt"

	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/ecs"
)

// NewOccupancyGridEntity 创建网格占用管理器实体
// 场景中只需要一个，所有托盘共享它的占用表
func NewOccupancyGridEntity(em *ecs.EntityManager) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}

	entityID := em.CreateEntity()
	em.AddComponent(entityID, components.NewOccupancyGridComponent())
	return entityID, nil
}

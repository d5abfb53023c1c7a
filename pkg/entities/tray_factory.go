package entities

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/config"
	"github.com/decker502/traygrid/pkg/ecs"
	"github.com/go-gl/mathgl/mgl64"
)

// DefaultTrayColor 未配置颜色时的托盘颜色
var DefaultTrayColor = color.RGBA{R: 0xd9, G: 0xa0, B: 0x5b, A: 0xff}

// NewTrayEntity 创建托盘实体
// 托盘创建后不占用任何格子，需要通过拖拽或 PlaceTray 放置到网格上
//
// 参数:
//   - em: 实体管理器
//   - layout: 网格布局（决定碰撞盒尺寸和放置高度）
//   - cfg: 托盘配置（名称、占地尺寸、颜色）
//   - position: 初始世界坐标
//
// 返回:
//   - ecs.EntityID: 创建的托盘实体ID
//   - error: 占地尺寸无效或颜色格式错误时返回错误
func NewTrayEntity(em *ecs.EntityManager, layout config.GridLayout, cfg config.TrayConfig, position mgl64.Vec3) (ecs.EntityID, error) {
	if em == nil {
		return 0, fmt.Errorf("entity manager cannot be nil")
	}
	if cfg.Width < 1 || cfg.Depth < 1 {
		return 0, fmt.Errorf("invalid tray footprint %dx%d, must be at least 1x1", cfg.Width, cfg.Depth)
	}

	trayColor := DefaultTrayColor
	if cfg.Color != "" {
		parsed, err := ParseHexColor(cfg.Color)
		if err != nil {
			return 0, fmt.Errorf("tray %s: %w", cfg.Name, err)
		}
		trayColor = parsed
	}

	entityID := em.CreateEntity()

	em.AddComponent(entityID, &components.PositionComponent{
		X: position.X(),
		Y: position.Y(),
		Z: position.Z(),
	})

	em.AddComponent(entityID, &components.TrayComponent{
		Name:  cfg.Name,
		Width: cfg.Width,
		Depth: cfg.Depth,
		State: components.TrayIdle,
	})

	// 碰撞盒覆盖整个占地区域
	em.AddComponent(entityID, &components.BoxColliderComponent{
		HalfExtents: mgl64.Vec3{
			float64(cfg.Width) * layout.CellSize * 0.5,
			config.TrayColliderHalfHeight,
			float64(cfg.Depth) * layout.CellSize * 0.5,
		},
	})

	em.AddComponent(entityID, &components.PlaceableComponent{})

	em.AddComponent(entityID, &components.TrayVisualComponent{
		Color: trayColor,
		Label: cfg.Name,
	})

	log.Printf("[TrayFactory] 创建托盘 %s (ID: %d)，占地 %dx%d", cfg.Name, entityID, cfg.Width, cfg.Depth)
	return entityID, nil
}

// ParseHexColor 解析 "#rrggbb" 或 "#rrggbbaa" 格式的颜色
func ParseHexColor(s string) (color.RGBA, error) {
	c := color.RGBA{A: 0xff}
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x", &c.R, &c.G, &c.B)
	case 9:
		_, err = fmt.Sscanf(s, "#%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		err = fmt.Errorf("unexpected length %d", len(s))
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return c, nil
}

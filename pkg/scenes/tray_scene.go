// Package scenes 组装托盘场景：创建实体、连接系统、处理键盘开关
package scenes

import (
	"fmt"
	"image/color"
	"log"

	"github.com/decker502/traygrid/pkg/config"
	"github.com/decker502/traygrid/pkg/ecs"
	"github.com/decker502/traygrid/pkg/entities"
	"github.com/decker502/traygrid/pkg/game"
	"github.com/decker502/traygrid/pkg/systems"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const (
	// 网格四周保留的像素
	screenPadding = 40.0
	// -/= 键每次调整的网格线不透明度
	gridOpacityStep = 0.1
)

var backgroundColor = color.RGBA{R: 0x1e, G: 0x21, B: 0x26, A: 0xff}

// TrayScene 托盘拖放场景
//
// 拥有一个网格实体和配置中的托盘。按键：
//   - G: 显示/隐藏网格线
//   - S: 显示/隐藏吸附预览
//   - F3: 显示/隐藏调试信息
type TrayScene struct {
	entityManager *ecs.EntityManager
	layout        config.GridLayout
	settings      *game.SettingsManager
	camera        *game.TopDownCamera

	grid       *systems.OccupancyGridSystem
	collisions *systems.CollisionSystem
	drag       *systems.TrayDragSystem
	input      *systems.InputSystem
	render     *systems.RenderSystem

	trays []ecs.EntityID
}

// NewTrayScene 根据布局配置创建场景
//
// 参数:
//   - layoutCfg: 已验证的布局配置
//   - settings: 显示设置（可以是降级模式的管理器）
//   - screenWidth, screenHeight: 逻辑屏幕尺寸
func NewTrayScene(layoutCfg *config.LayoutConfig, settings *game.SettingsManager, screenWidth, screenHeight int) (*TrayScene, error) {
	if layoutCfg == nil {
		return nil, fmt.Errorf("layout config cannot be nil")
	}
	if err := layoutCfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid layout config: %w", err)
	}
	if settings == nil {
		settings = game.NewSettingsManager(nil)
	}

	em := ecs.NewEntityManager()
	gridEntity, err := entities.NewOccupancyGridEntity(em)
	if err != nil {
		return nil, fmt.Errorf("failed to create grid entity: %w", err)
	}

	layout := layoutCfg.Grid
	camera := game.NewTopDownCamera(layout, screenWidth, screenHeight, screenPadding)

	grid := systems.NewOccupancyGridSystem(em, layout, gridEntity)
	collisions := systems.NewCollisionSystem(em)
	drag := systems.NewTrayDragSystem(em, grid, collisions)

	input := systems.NewInputSystem(em, drag, collisions, camera)

	scene := &TrayScene{
		entityManager: em,
		layout:        layout,
		settings:      settings,
		camera:        camera,
		grid:          grid,
		collisions:    collisions,
		drag:          drag,
		input:         input,
		render:        systems.NewRenderSystem(em, grid, drag, input, camera),
	}

	scene.trays, err = SeedTrays(em, layout, drag, layoutCfg.Trays)
	if err != nil {
		return nil, err
	}

	log.Printf("[TrayScene] 场景创建完成：网格 %dx%d，托盘 %d/%d 个",
		layout.Columns, layout.Rows, len(scene.trays), len(layoutCfg.Trays))
	return scene, nil
}

// Update 更新场景
func (s *TrayScene) Update(deltaTime float64) {
	s.handleKeys()
	s.input.Update()
	s.entityManager.RemoveMarkedEntities()
}

// handleKeys 处理显示开关
func (s *TrayScene) handleKeys() {
	if inpututil.IsKeyJustPressed(ebiten.KeyG) {
		log.Printf("[TrayScene] 网格线: %v", s.settings.ToggleGrid())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		log.Printf("[TrayScene] 吸附预览: %v", s.settings.ToggleSnapGhost())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyF3) {
		log.Printf("[TrayScene] 调试信息: %v", s.settings.ToggleDebug())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) {
		s.adjustGridOpacity(-gridOpacityStep)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		s.adjustGridOpacity(gridOpacityStep)
	}
}

// adjustGridOpacity 调整网格线不透明度
func (s *TrayScene) adjustGridOpacity(delta float64) {
	s.settings.SetGridOpacity(s.settings.GetSettings().GridOpacity + delta)
	log.Printf("[TrayScene] 网格线不透明度: %.1f", s.settings.GetSettings().GridOpacity)
}

// Draw 绘制场景
func (s *TrayScene) Draw(screen *ebiten.Image) {
	screen.Fill(backgroundColor)
	s.render.Draw(screen, s.RenderOptions())
}

// RenderOptions 根据当前设置生成绘制开关
func (s *TrayScene) RenderOptions() systems.RenderOptions {
	settings := s.settings.GetSettings()
	return systems.RenderOptions{
		ShowGrid:      settings.ShowGrid,
		ShowSnapGhost: settings.ShowSnapGhost,
		ShowDebug:     settings.ShowDebug,
		GridOpacity:   settings.GridOpacity,
	}
}

// SaveOnExit 保存显示设置（实现 game.Saveable）
func (s *TrayScene) SaveOnExit() bool {
	if err := s.settings.Save(); err != nil {
		log.Printf("[TrayScene] 警告：保存设置失败: %v", err)
		return false
	}
	return true
}

// EntityManager 返回场景的实体管理器
func (s *TrayScene) EntityManager() *ecs.EntityManager {
	return s.entityManager
}

// Grid 返回网格占用系统
func (s *TrayScene) Grid() *systems.OccupancyGridSystem {
	return s.grid
}

// Trays 返回初始化时成功放置的托盘
func (s *TrayScene) Trays() []ecs.EntityID {
	return s.trays
}

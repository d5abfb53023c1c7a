// Package app 提供应用的核心包装器
//
// 该包将初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 main.go 调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"

	"github.com/decker502/traygrid/pkg/config"
	"github.com/decker502/traygrid/pkg/embedded"
	"github.com/decker502/traygrid/pkg/game"
	"github.com/decker502/traygrid/pkg/scenes"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Config 定义应用启动配置
type Config struct {
	// Verbose 启用详细日志输出
	Verbose bool
	// ConfigPath 布局配置文件路径，为空则使用嵌入的默认布局
	ConfigPath string
}

// App 是应用的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager             *game.SceneManager
	settings                 *game.SettingsManager
	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化应用
//
// 使用嵌入的默认布局前，需要先调用 embedded.Init()；未初始化时使用内置默认网格。
func NewApp(cfg Config) (*App, error) {
	if !cfg.Verbose {
		log.SetOutput(io.Discard)
		log.SetFlags(0)
	}

	layoutCfg, err := LoadLayout(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("布局配置加载失败: %w", err)
	}

	settings := game.OpenSettingsManager(config.AppName)

	sceneManager := game.NewSceneManager()
	sceneManager.SetSceneFactory(func() (game.Scene, error) {
		return scenes.NewTrayScene(layoutCfg, settings, config.GameWindowWidth, config.GameWindowHeight)
	})
	if !sceneManager.Reload() {
		return nil, errors.New("托盘场景创建失败")
	}

	return &App{
		sceneManager: sceneManager,
		settings:     settings,
	}, nil
}

// LoadLayout 按优先级加载布局配置：
//  1. path 指定的文件
//  2. 嵌入的 data/tray_layout.yaml
//  3. 内置默认网格（没有托盘）
func LoadLayout(path string) (*config.LayoutConfig, error) {
	if path != "" {
		log.Printf("[Config] 加载布局配置: %s", path)
		return config.LoadLayoutConfig(path)
	}

	if embedded.IsInitialized() && embedded.Exists(config.DefaultLayoutPath) {
		data, err := embedded.ReadFile(config.DefaultLayoutPath)
		if err != nil {
			return nil, err
		}
		log.Printf("[Config] 使用嵌入的布局配置: %s", config.DefaultLayoutPath)
		return config.ParseLayoutConfig(data)
	}

	log.Printf("[Config] 未找到布局配置，使用默认网格")
	return config.DefaultLayoutConfig(), nil
}

// Update 更新逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	if ebiten.IsWindowBeingClosed() {
		a.SaveOnExit()
		return ebiten.Termination
	}

	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(config.GameWindowWidth, config.GameWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	// R 重置托盘布局
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		log.Printf("[App] 重置托盘布局")
		a.sceneManager.Reload()
	}

	deltaTime := 1.0 / 60.0
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	if ebiten.IsFullscreen() {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
		a.settings.SetFullscreen(false)
		log.Printf("[App] Exit fullscreen, will reset window size in 3 frames")
		return
	}
	ebiten.SetFullscreen(true)
	a.settings.SetFullscreen(true)
}

// SaveOnExit 退出前保存当前场景状态
func (a *App) SaveOnExit() {
	if saveable, ok := a.sceneManager.GetCurrentScene().(game.Saveable); ok {
		if !saveable.SaveOnExit() {
			log.Printf("[App] 警告：退出时保存失败")
		}
	}
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// DrawFinalScreen 实现 FinalScreenDrawer 接口
// 用于控制全屏时的缩放和 letterbox 颜色
func (a *App) DrawFinalScreen(screen ebiten.FinalScreen, offscreen *ebiten.Image, geoM ebiten.GeoM) {
	screen.Fill(color.Black)
	op := &ebiten.DrawImageOptions{}
	op.GeoM = geoM
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(offscreen, op)
}

// Layout 返回逻辑屏幕尺寸
// 此尺寸独立于实际窗口大小，Ebitengine 会自动处理缩放
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	return config.GameWindowWidth, config.GameWindowHeight
}

// Settings 返回显示设置管理器
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}


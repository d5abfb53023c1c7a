package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// 布局配置常量
// 所有坐标使用"世界坐标系"：X/Z 为水平面，Y 为高度
// 网格原点 (OriginX, OriginZ) 是格子 (0,0) 中心的世界坐标
const (
	// DefaultCellSize 是每个格子的边长（世界单位）
	DefaultCellSize = 2.0

	// DefaultFixedY 是托盘放置时的固定高度
	DefaultFixedY = 1.0

	// DefaultGridColumns 是网格列数（X 方向格子数）
	DefaultGridColumns = 7

	// DefaultGridRows 是网格行数（Z 方向格子数）
	DefaultGridRows = 8

	// OverlapMargin 是重叠检测时从托盘半尺寸中扣除的余量
	// 相邻托盘边贴边摆放时不会被判定为重叠
	OverlapMargin = 0.1

	// OverlapHalfHeight 是重叠检测盒在 Y 方向的半高
	OverlapHalfHeight = 0.5

	// TrayColliderHalfHeight 是托盘碰撞盒在 Y 方向的半高
	TrayColliderHalfHeight = 0.25
)

// GridLayout 网格布局配置
type GridLayout struct {
	// CellSize 格子边长（世界单位）
	CellSize float64 `yaml:"cellSize"`

	// FixedY 托盘放置高度
	FixedY float64 `yaml:"fixedY"`

	// Columns 网格列数（X 方向）
	Columns int `yaml:"columns"`

	// Rows 网格行数（Z 方向）
	Rows int `yaml:"rows"`

	// OriginX, OriginZ 格子 (0,0) 中心的世界坐标
	OriginX float64 `yaml:"originX"`
	OriginZ float64 `yaml:"originZ"`
}

// TrayConfig 初始托盘配置
type TrayConfig struct {
	// Name 托盘名称（仅用于日志和调试显示）
	Name string `yaml:"name"`

	// Width, Depth 托盘占地尺寸（格子数）
	Width int `yaml:"width"`
	Depth int `yaml:"depth"`

	// Col, Row 初始基准格子（占地左下角格子）
	Col int `yaml:"col"`
	Row int `yaml:"row"`

	// Color 渲染颜色（十六进制，如 "#d9a05b"），为空时使用默认颜色
	Color string `yaml:"color"`
}

// LayoutConfig 托盘布局配置文件的根结构
//
// 配置文件位置: data/tray_layout.yaml
type LayoutConfig struct {
	Grid  GridLayout   `yaml:"grid"`
	Trays []TrayConfig `yaml:"trays"`
}

// DefaultGridLayout 返回默认网格布局（7x8 网格，格子边长 2，放置高度 1）
func DefaultGridLayout() GridLayout {
	return GridLayout{
		CellSize: DefaultCellSize,
		FixedY:   DefaultFixedY,
		Columns:  DefaultGridColumns,
		Rows:     DefaultGridRows,
	}
}

// DefaultLayoutConfig 返回默认布局配置：默认网格，没有初始托盘
func DefaultLayoutConfig() *LayoutConfig {
	return &LayoutConfig{
		Grid: DefaultGridLayout(),
	}
}

// LoadLayoutConfig 加载托盘布局配置
//
// 未在文件中出现的网格字段保留默认值。
//
// 参数:
//   - path: 配置文件路径（如 "data/tray_layout.yaml"）
//
// 返回:
//   - *LayoutConfig: 加载成功后的配置结构
//   - error: 读取、解析或验证失败时返回错误
func LoadLayoutConfig(path string) (*LayoutConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read tray layout config: %w", err)
	}

	return ParseLayoutConfig(data)
}

// ParseLayoutConfig 从 YAML 数据解析托盘布局配置
func ParseLayoutConfig(data []byte) (*LayoutConfig, error) {
	cfg := DefaultLayoutConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse tray layout config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid tray layout config: %w", err)
	}

	return cfg, nil
}

// Validate 验证配置有效性
//
// 检查：
//   - 格子边长为正
//   - 网格行列数至少为 1
//   - 每个托盘的占地尺寸至少为 1x1，且不超过网格尺寸
func (c *LayoutConfig) Validate() error {
	if err := c.Grid.Validate(); err != nil {
		return err
	}

	for i, tray := range c.Trays {
		if tray.Width < 1 || tray.Depth < 1 {
			return fmt.Errorf("tray %d (%s): footprint must be at least 1x1, got %dx%d",
				i, tray.Name, tray.Width, tray.Depth)
		}
		if tray.Width > c.Grid.Columns || tray.Depth > c.Grid.Rows {
			return fmt.Errorf("tray %d (%s): footprint %dx%d exceeds grid %dx%d",
				i, tray.Name, tray.Width, tray.Depth, c.Grid.Columns, c.Grid.Rows)
		}
	}

	return nil
}

// Validate 验证网格布局
func (g GridLayout) Validate() error {
	if g.CellSize <= 0 {
		return fmt.Errorf("cellSize must be positive, got %.2f", g.CellSize)
	}
	// 重叠检测盒半尺寸为 W*cellSize/2 - OverlapMargin，格子过小时检测盒会翻转
	if g.CellSize <= 2*OverlapMargin {
		return fmt.Errorf("cellSize must be greater than %.2f, got %.2f", 2*OverlapMargin, g.CellSize)
	}
	if g.Columns < 1 || g.Rows < 1 {
		return fmt.Errorf("grid must be at least 1x1, got %dx%d", g.Columns, g.Rows)
	}
	return nil
}

// WorldBounds 返回网格覆盖区域的世界坐标边界（含格子边缘）
// 返回值：minX, minZ, maxX, maxZ
func (g GridLayout) WorldBounds() (float64, float64, float64, float64) {
	half := g.CellSize / 2
	minX := g.OriginX - half
	minZ := g.OriginZ - half
	maxX := g.OriginX + float64(g.Columns)*g.CellSize - half
	maxZ := g.OriginZ + float64(g.Rows)*g.CellSize - half
	return minX, minZ, maxX, maxZ
}

package config

// 窗口配置常量
const (
	// GameWindowWidth 逻辑屏幕宽度
	GameWindowWidth = 800

	// GameWindowHeight 逻辑屏幕高度
	GameWindowHeight = 600

	// GameWindowTitle 窗口标题
	GameWindowTitle = "Tray Grid"

	// AppName gdata 存储使用的应用名
	AppName = "traygrid"

	// DefaultLayoutPath 默认布局配置文件（嵌入到可执行文件中）
	DefaultLayoutPath = "data/tray_layout.yaml"
)

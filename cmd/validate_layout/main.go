// validate_layout 检查托盘布局配置：解析、验证，并在无窗口的场景中放置托盘，
// 打印占用图。无法放置的托盘会以非零状态退出。
//
// 用法:
//
//	go run ./cmd/validate_layout data/tray_layout.yaml [more.yaml ...]
//	go run ./cmd/validate_layout -drag small-a:4,4 data/tray_layout.yaml
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/decker502/traygrid/pkg/components"
	"github.com/decker502/traygrid/pkg/config"
	"github.com/decker502/traygrid/pkg/ecs"
	"github.com/decker502/traygrid/pkg/entities"
	"github.com/decker502/traygrid/pkg/scenes"
	"github.com/decker502/traygrid/pkg/systems"
	"github.com/decker502/traygrid/pkg/utils"
)

var (
	verbose = flag.Bool("verbose", false, "显示详细调试信息")
	drags   = flag.String("drag", "", "放置后模拟的拖拽，格式 name:col,row[;name:col,row...]")
)

func main() {
	flag.Parse()
	if !*verbose {
		log.SetOutput(io.Discard)
	}

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{config.DefaultLayoutPath}
	}

	failed := 0
	for _, path := range paths {
		if err := validate(path); err != nil {
			fmt.Printf("FAIL: %s - %v\n", path, err)
			failed++
			continue
		}
	}

	if failed > 0 {
		os.Exit(1)
	}
}

func validate(path string) error {
	cfg, err := config.LoadLayoutConfig(path)
	if err != nil {
		return err
	}

	em := ecs.NewEntityManager()
	gridEntity, err := entities.NewOccupancyGridEntity(em)
	if err != nil {
		return err
	}
	grid := systems.NewOccupancyGridSystem(em, cfg.Grid, gridEntity)
	drag := systems.NewTrayDragSystem(em, grid, systems.NewCollisionSystem(em))

	placed, err := scenes.SeedTrays(em, cfg.Grid, drag, cfg.Trays)
	if err != nil {
		return err
	}

	fmt.Printf("OK: %s - 网格 %dx%d，放置 %d/%d 个托盘\n",
		path, cfg.Grid.Columns, cfg.Grid.Rows, len(placed), len(cfg.Trays))

	if *drags != "" {
		if err := simulateDrags(em, cfg.Grid, drag, *drags); err != nil {
			return err
		}
	}

	printOccupancy(em, cfg.Grid, grid)

	if len(placed) != len(cfg.Trays) {
		return fmt.Errorf("%d 个托盘无法放置", len(cfg.Trays)-len(placed))
	}
	return nil
}

// simulateDrags 按名称找到托盘，拖到目标格子并松手
func simulateDrags(em *ecs.EntityManager, layout config.GridLayout, drag *systems.TrayDragSystem, spec string) error {
	for _, item := range strings.Split(spec, ";") {
		var name string
		var col, row int
		parts := strings.SplitN(item, ":", 2)
		if len(parts) != 2 {
			return fmt.Errorf("invalid drag %q, want name:col,row", item)
		}
		name = parts[0]
		if _, err := fmt.Sscanf(parts[1], "%d,%d", &col, &row); err != nil {
			return fmt.Errorf("invalid drag target %q: %w", parts[1], err)
		}

		id, tray, ok := findTray(em, name)
		if !ok {
			return fmt.Errorf("tray %q not found", name)
		}

		target := utils.CellToWorld(layout, components.GridCell{X: col, Y: row}, tray.Width, tray.Depth)
		if err := drag.BeginDrag(id); err != nil {
			return err
		}
		if err := drag.UpdateDrag(id, target); err != nil {
			return err
		}
		result, err := drag.EndDrag(id)
		if err != nil {
			return err
		}

		status := "accepted"
		if !result.Accepted {
			status = "rejected: " + result.Reason.String()
		}
		fmt.Printf("  drag %s -> %v: %s\n", name, result.Target, status)
	}
	return nil
}

func findTray(em *ecs.EntityManager, name string) (ecs.EntityID, *components.TrayComponent, bool) {
	for _, id := range ecs.GetEntitiesWith1[*components.TrayComponent](em) {
		tray, _ := ecs.GetComponent[*components.TrayComponent](em, id)
		if tray.Name == name {
			return id, tray, true
		}
	}
	return 0, nil, false
}

// printOccupancy 打印占用图，行号从上到下递增，每个托盘用名称首字母表示
func printOccupancy(em *ecs.EntityManager, layout config.GridLayout, grid *systems.OccupancyGridSystem) {
	for row := 0; row < layout.Rows; row++ {
		var sb strings.Builder
		sb.WriteString("  ")
		for col := 0; col < layout.Columns; col++ {
			owner, ok := grid.OccupantOf(components.GridCell{X: col, Y: row})
			if !ok {
				sb.WriteString(". ")
				continue
			}
			mark := "#"
			if tray, ok := ecs.GetComponent[*components.TrayComponent](em, owner); ok && tray.Name != "" {
				mark = tray.Name[:1]
			}
			sb.WriteString(mark + " ")
		}
		fmt.Println(sb.String())
	}
}

package components

// PlaceableComponent 标记实体为可放置到网格上的物体（托盘）
//
// 重叠检测只关心带有此组件的实体：碰撞查询返回的其他物体
// （地面、装饰物等）不会阻止放置。
type PlaceableComponent struct{}

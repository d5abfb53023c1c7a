//go:build !mobile

// Package mobile 是 ebitenmobile 绑定入口，真正的实现只在 -tags mobile 时编译。
package mobile

// Dummy 让桌面构建下的 mobile 包也有一个可引用的符号
func Dummy() {}

package embedded

import (
	"testing"
	"testing/fstest"
)

func resetEmbedded(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		dataFS = nil
		initialized = false
	})
}

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	resetEmbedded(t)
	Init(nil)

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false for a nil FS")
	}

	Init(fstest.MapFS{})
	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}
}

// TestReadFileNotInitialized 测试未初始化时调用 ReadFile
func TestReadFileNotInitialized(t *testing.T) {
	resetEmbedded(t)
	Init(nil)

	_, err := ReadFile("data/tray_layout.yaml")
	if err == nil {
		t.Fatal("Expected error when calling ReadFile() before Init()")
	}
	if err.Error() != "embedded package not initialized, call Init() first" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

// TestReadFile 测试读取嵌入文件
func TestReadFile(t *testing.T) {
	resetEmbedded(t)
	Init(fstest.MapFS{
		"data/tray_layout.yaml": &fstest.MapFile{Data: []byte("grid:\n  columns: 4\n")},
	})

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr bool
	}{
		{"普通路径", "data/tray_layout.yaml", "grid:\n  columns: 4\n", false},
		{"带 ./ 前缀", "./data/tray_layout.yaml", "grid:\n  columns: 4\n", false},
		{"文件不存在", "data/missing.yaml", "", true},
		{"未知前缀", "assets/tray.png", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ReadFile(tt.path)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ReadFile(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
			if string(data) != tt.want {
				t.Errorf("ReadFile(%q) = %q, want %q", tt.path, data, tt.want)
			}
		})
	}
}

// TestExists 测试文件存在检查
func TestExists(t *testing.T) {
	resetEmbedded(t)
	Init(fstest.MapFS{
		"data/tray_layout.yaml": &fstest.MapFile{Data: []byte("{}")},
	})

	if !Exists("data/tray_layout.yaml") {
		t.Error("expected data/tray_layout.yaml to exist")
	}
	if Exists("data/other.yaml") {
		t.Error("data/other.yaml should not exist")
	}
	if Exists("tray_layout.yaml") {
		t.Error("paths without the data/ prefix are rejected")
	}
}

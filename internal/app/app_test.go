package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Versifine/stride/internal/config"
	"github.com/Versifine/stride/internal/sim"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "stride.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("创建测试配置文件失败: %v", err)
	}
	return path
}

// 模式运行失败时，日志仍要写入文件并在返回前关闭会话
func TestStartFailureFlushesLog(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "stride.log")
	cfgPath := writeConfig(t, dir, fmt.Sprintf("logging:\n  level: info\n  file: %q\n", logPath))

	var session *sim.Session
	code := Start([]string{"-config", cfgPath}, map[string]Runner{
		config.ModeScript: func(_ context.Context, s *sim.Session) error {
			session = s
			return errors.New("engine stalled")
		},
	})
	if code != 1 {
		t.Fatalf("Start() = %d, 期望 1", code)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("读取日志文件失败: %v", err)
	}
	for _, want := range []string{"Session ready", "Session failed", "engine stalled"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("日志文件缺少 %q: %q", want, data)
		}
	}
	if session == nil || session.Input.Enabled() {
		t.Error("返回前应关闭会话输入")
	}
}

func TestStartExitCodes(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"-speed", "9"}, 2},
		{"missing config", []string{"-config", filepath.Join(dir, "absent.yaml")}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Start(tt.args, nil); got != tt.want {
				t.Fatalf("Start() = %d, 期望 %d", got, tt.want)
			}
		})
	}
}

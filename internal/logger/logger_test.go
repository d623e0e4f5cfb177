package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

var noon = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func record(msg string, attrs ...slog.Attr) slog.Record {
	r := slog.NewRecord(noon, slog.LevelInfo, msg, 0)
	r.AddAttrs(attrs...)
	return r
}

// 级别字符串解析以及 handler 的过滤结果
func TestLevels(t *testing.T) {
	tests := []struct {
		in        string
		want      slog.Level
		debugOpen bool
	}{
		{"debug", slog.LevelDebug, true},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"ERROR", slog.LevelError, false},
		{"verbose", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
	}

	for _, tt := range tests {
		t.Run("level_"+tt.in, func(t *testing.T) {
			if got := parseLevel(tt.in); got != tt.want {
				t.Fatalf("parseLevel(%q) = %v, 期望 %v", tt.in, got, tt.want)
			}
			h := newHandler(Config{Level: tt.in}, &bytes.Buffer{})
			if got := h.Enabled(context.Background(), slog.LevelDebug); got != tt.debugOpen {
				t.Errorf("Debug 启用 = %t, 期望 %t", got, tt.debugOpen)
			}
			if !h.Enabled(context.Background(), slog.LevelError) {
				t.Error("Error 始终应启用")
			}
		})
	}
}

func TestLevelTag(t *testing.T) {
	want := map[slog.Level]string{
		slog.LevelError:     "ERROR",
		slog.LevelWarn:      "WARN ",
		slog.LevelInfo:      "INFO ",
		slog.LevelDebug:     "DEBUG",
		slog.LevelDebug - 4: "DEBUG",
		slog.LevelError + 4: "ERROR",
	}
	for level, tag := range want {
		if got := levelTag(level); got != tag {
			t.Errorf("levelTag(%v) = %q, 期望 %q", level, got, tag)
		}
	}
}

// 属性渲染：分组展开为点号路径，浮点数保留三位
func TestFormatAttr(t *testing.T) {
	tests := []struct {
		name  string
		group string
		attr  slog.Attr
		want  string
	}{
		{"plain", "", slog.String("surface", "floor"), "  surface=floor"},
		{"grouped", "ctrl", slog.String("surface", "floor"), "  ctrl.surface=floor"},
		{"int", "", slog.Int("steps", 50), "  steps=50"},
		{"float", "", slog.Float64("force", 4.42944), "  force=4.429"},
		{"bool", "", slog.Bool("grounded", true), "  grounded=true"},
		{"nested", "", slog.Group("pos", slog.Float64("x", 1), slog.Float64("y", 2)), "  pos.x=1.000  pos.y=2.000"},
		{"inline group", "sim", slog.Group("", slog.Int("n", 3)), "  sim.n=3"},
		{"empty", "", slog.Attr{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAttr(tt.group, tt.attr); got != tt.want {
				t.Errorf("formatAttr = %q, 期望 %q", got, tt.want)
			}
		})
	}
}

// console 格式的完整输出行
func TestConsoleOutput(t *testing.T) {
	tests := []struct {
		name   string
		crlf   bool
		derive func(slog.Handler) slog.Handler
		rec    slog.Record
		want   []string
		suffix string
	}{
		{
			name:   "basic line",
			rec:    record("Jump applied", slog.Float64("force", 4.429)),
			want:   []string{"12:00:00 INFO  Jump applied", "force=4.429"},
			suffix: "4.429\n",
		},
		{
			name:   "raw terminal",
			crlf:   true,
			rec:    record("Ground contact changed"),
			suffix: "changed\r\n",
		},
		{
			name: "preset attrs",
			derive: func(h slog.Handler) slog.Handler {
				return h.WithAttrs([]slog.Attr{slog.String("component", "locomotion")})
			},
			rec:  record("ready"),
			want: []string{"ready  component=locomotion"},
		},
		{
			name: "nested groups",
			derive: func(h slog.Handler) slog.Handler {
				return h.WithGroup("sim").WithGroup("").WithGroup("body")
			},
			rec:  record("spawned", slog.Int("mass", 1)),
			want: []string{"sim.body.mass=1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			base := newHandler(Config{Level: "debug", CRLF: tt.crlf}, &buf)
			h := base
			if tt.derive != nil {
				h = tt.derive(base)
			}
			if err := h.Handle(context.Background(), tt.rec); err != nil {
				t.Fatalf("Handle() 出错: %v", err)
			}

			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("输出 %q 缺少 %q", out, w)
				}
			}
			if tt.suffix != "" && !strings.HasSuffix(out, tt.suffix) {
				t.Errorf("输出 %q 结尾应为 %q", out, tt.suffix)
			}
			if len(base.(*consoleHandler).attrs) != 0 || base.(*consoleHandler).group != "" {
				t.Error("派生 handler 不应修改原 handler")
			}
		})
	}
}

func TestNewHandlerFormats(t *testing.T) {
	tests := []struct {
		format string
		check  func(t *testing.T, out string)
	}{
		{"json", func(t *testing.T, out string) {
			var m map[string]any
			if err := json.Unmarshal([]byte(out), &m); err != nil {
				t.Fatalf("json 输出无法解析: %v (%q)", err, out)
			}
			if m["msg"] != "hello" {
				t.Errorf("json msg = %v", m["msg"])
			}
		}},
		{"text", func(t *testing.T, out string) {
			if !strings.Contains(out, "msg=hello") {
				t.Errorf("text 输出缺少 msg: %q", out)
			}
		}},
		{"console", func(t *testing.T, out string) {
			if !strings.Contains(out, "INFO  hello") {
				t.Errorf("console 输出格式错误: %q", out)
			}
		}},
		{"", func(t *testing.T, out string) {
			if !strings.Contains(out, "INFO  hello") {
				t.Errorf("未指定格式时应使用 console: %q", out)
			}
		}},
	}

	for _, tt := range tests {
		t.Run("format_"+tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			slog.New(newHandler(Config{Level: "debug", Format: tt.format}, &buf)).Info("hello")
			tt.check(t, buf.String())
		})
	}
}

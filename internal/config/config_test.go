package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv 让测试不受运行环境中同名变量的影响。
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PORT", "FILMBOARD_SOURCE", "FILMBOARD_BASE_URL", "FILMBOARD_CITY", "FILMBOARD_TAG", "FILMBOARD_TIMEOUT", "FILMBOARD_PROXY", "FILMBOARD_DETAIL_LINK", "LOG_LEVEL"} {
		t.Setenv(k, "")
	}
}

func TestLoadEffective_Defaults(t *testing.T) {
	clearEnv(t)
	eff, err := LoadEffective(t.TempDir(), CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Port != DefaultPort || eff.Addr() != ":5000" {
		t.Fatalf("默认端口不符合预期：%+v", eff)
	}
	if eff.Source != DefaultSource || eff.BaseURL != DefaultBaseURL || eff.City != DefaultCity || eff.Tag != DefaultTag {
		t.Fatalf("默认值不符合预期：%+v", eff)
	}
	if eff.Timeout != DefaultTimeout {
		t.Fatalf("默认超时应为 %v，实际=%v", DefaultTimeout, eff.Timeout)
	}
	if eff.LogLevel != slog.LevelInfo {
		t.Fatalf("默认日志级别应为 info，实际=%v", eff.LogLevel)
	}
}

func TestLoadEffective_MergeOrder(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte(`{"port":"7000","source":"top250","city":"shanghai","timeout":"5s","proxy":{"url":"http://127.0.0.1:7890"}}`))
	writeFile(t, filepath.Join(cwd, EnvFileName), []byte("PORT=7100\nFILMBOARD_CITY=guangzhou\n"))
	t.Setenv("PORT", "7200")

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	// 环境变量 > .env > 文件
	if eff.Port != "7200" {
		t.Fatalf("期望 port=7200（环境变量），实际=%q", eff.Port)
	}
	if eff.City != "guangzhou" {
		t.Fatalf("期望 city=guangzhou（.env），实际=%q", eff.City)
	}
	if eff.Source != "top250" || eff.Timeout != 5*time.Second || eff.ProxyURL != "http://127.0.0.1:7890" {
		t.Fatalf("文件配置未生效：%+v", eff)
	}

	// CLI 最高优先级。
	eff, err = LoadEffective(cwd, CLIArgs{Port: "7300", Source: "subjects", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Port != "7300" || eff.Source != "subjects" || eff.Timeout != 2*time.Second {
		t.Fatalf("CLI 覆盖未生效：%+v", eff)
	}
}

func TestLoadEffective_DotEnvDoesNotLeakIntoProcess(t *testing.T) {
	clearEnv(t)
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, EnvFileName), []byte("FILMBOARD_TAG=豆瓣高分\n"))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Tag != "豆瓣高分" {
		t.Fatalf("期望 tag=豆瓣高分，实际=%q", eff.Tag)
	}
	if v := os.Getenv("FILMBOARD_TAG"); v != "" {
		t.Fatalf(".env 不应写入进程环境变量，实际=%q", v)
	}
}

func TestLoadEffective_TimeoutClamped(t *testing.T) {
	clearEnv(t)
	eff, err := LoadEffective(t.TempDir(), CLIArgs{Timeout: 10 * time.Millisecond})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Timeout != time.Second {
		t.Fatalf("超时应截断到 1s，实际=%v", eff.Timeout)
	}

	t.Setenv("FILMBOARD_TIMEOUT", "10m")
	eff, err = LoadEffective(t.TempDir(), CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Timeout != time.Minute {
		t.Fatalf("超时应截断到 60s，实际=%v", eff.Timeout)
	}
}

func TestLoadEffective_Invalid(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		file string
		code string
	}{
		{name: "bad json", file: `{"port":`, code: ErrCodeInvalid},
		{name: "bad port", env: map[string]string{"PORT": "http"}, code: ErrCodeInvalid},
		{name: "unknown source", env: map[string]string{"FILMBOARD_SOURCE": "imdb"}, code: ErrCodeUnknownSource},
		{name: "bad base url", env: map[string]string{"FILMBOARD_BASE_URL": "ftp://x"}, code: ErrCodeInvalid},
		{name: "bad timeout", env: map[string]string{"FILMBOARD_TIMEOUT": "soon"}, code: ErrCodeInvalid},
		{name: "bad proxy", env: map[string]string{"FILMBOARD_PROXY": "127.0.0.1"}, code: ErrCodeInvalid},
		{name: "bad template", env: map[string]string{"FILMBOARD_DETAIL_LINK": "https://x/%d/%s"}, code: ErrCodeInvalid},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}, code: ErrCodeInvalid},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clearEnv(t)
			cwd := t.TempDir()
			if c.file != "" {
				writeFile(t, filepath.Join(cwd, FileName), []byte(c.file))
			}
			for k, v := range c.env {
				t.Setenv(k, v)
			}
			_, err := LoadEffective(cwd, CLIArgs{})
			if Code(err) != c.code {
				t.Fatalf("期望 %q，实际 err=%v (code=%q)", c.code, err, Code(err))
			}
		})
	}
}

func TestLoadEffective_LogLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_LEVEL", "debug")
	eff, err := LoadEffective(t.TempDir(), CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.LogLevel != slog.LevelDebug {
		t.Fatalf("期望 debug，实际=%v", eff.LogLevel)
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
}

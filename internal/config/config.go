package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	// ErrCodeInvalid 表示配置文件/环境变量无法读取、解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
	// ErrCodeUnknownSource 表示 source 不是已知的列表源。
	ErrCodeUnknownSource = "config_unknown_source"
)

const (
	// FileName 是工作目录下可选的 JSON 配置文件名。
	FileName = "filmboard.json"
	// EnvFileName 是工作目录下可选的 .env 文件名（只补充未设置的环境变量）。
	EnvFileName = ".env"

	DefaultPort               = "5000"
	DefaultSource             = "nowplaying"
	DefaultBaseURL            = "https://movie.douban.com"
	DefaultCity               = "beijing"
	DefaultTag                = "热门"
	DefaultTimeout            = 10 * time.Second
	DefaultDetailLinkTemplate = "https://movie.douban.com/subject/%s/"

	minTimeout = time.Second
	maxTimeout = 60 * time.Second
)

// Sources 是可选的列表源名称。
var Sources = []string{"nowplaying", "top250", "subjects"}

// CLIArgs 是命令行可覆盖的项；零值表示“未指定”。
type CLIArgs struct {
	Port    string
	Source  string
	BaseURL string
	Timeout time.Duration
}

// FileConfig 对应 filmboard.json 的解析结构。
type FileConfig struct {
	Port               string       `json:"port"`
	Source             string       `json:"source"`
	BaseURL            string       `json:"base_url"`
	City               string       `json:"city"`
	Tag                string       `json:"tag"`
	Timeout            string       `json:"timeout"`
	Proxy              *ProxyConfig `json:"proxy"`
	DetailLinkTemplate string       `json:"detail_link_template"`
}

type ProxyConfig struct {
	URL string `json:"url"`
}

// EffectiveConfig 是合并并规范化后的最终配置（实现层直接消费，不再做二次默认/优先级判断）。
type EffectiveConfig struct {
	Port    string
	Source  string
	BaseURL string
	City    string
	Tag     string
	Timeout time.Duration

	ProxyURL           string
	DetailLinkTemplate string

	LogLevel slog.Level
}

// Addr 返回监听地址（":<port>"）。
func (c EffectiveConfig) Addr() string { return ":" + c.Port }

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("%s：%q：%v", e.Code, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("%s：%v", e.Code, e.Err)
	default:
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// LoadEffective 读取 <cwd>/filmboard.json 与 <cwd>/.env（均可选），与环境变量、CLI 参数合并为最终配置。
//
// 覆盖优先级（固定）：CLI > 环境变量 > .env > filmboard.json > 默认值
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cwd, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, FileName)
	fc, err := readFileConfig(cfgPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	envPath := filepath.Join(cwdAbs, EnvFileName)
	dotenv, err := readDotEnv(envPath)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: envPath, Err: err}
	}
	env := func(key string) string {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(dotenv[key])
	}

	return merge(cli, fc, env, cfgPath)
}

func merge(cli CLIArgs, fc FileConfig, env func(string) string, cfgPath string) (EffectiveConfig, error) {
	invalid := func(err error) (EffectiveConfig, error) {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}

	port := pick(cli.Port, env("PORT"), fc.Port, DefaultPort)
	if n, err := strconv.Atoi(port); err != nil || n < 1 || n > 65535 {
		return invalid(fmt.Errorf("port 无效：%q", port))
	}

	source := strings.ToLower(pick(cli.Source, env("FILMBOARD_SOURCE"), fc.Source, DefaultSource))
	if !knownSource(source) {
		return EffectiveConfig{}, &Error{
			Code: ErrCodeUnknownSource,
			Path: cfgPath,
			Err:  fmt.Errorf("source 只能是 %s，实际是 %q", strings.Join(Sources, "|"), source),
		}
	}

	baseURL := strings.TrimRight(pick(cli.BaseURL, env("FILMBOARD_BASE_URL"), fc.BaseURL, DefaultBaseURL), "/")
	if u, err := url.Parse(baseURL); err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return invalid(fmt.Errorf("base_url 必须是 http/https 地址：%q", baseURL))
	}

	timeout := cli.Timeout
	if timeout == 0 {
		raw := pick("", env("FILMBOARD_TIMEOUT"), fc.Timeout, "")
		if raw != "" {
			d, err := time.ParseDuration(raw)
			if err != nil {
				return invalid(fmt.Errorf("timeout 无效：%w", err))
			}
			timeout = d
		}
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	// 有界超时：截断到 [1s, 60s]。
	if timeout < minTimeout {
		timeout = minTimeout
	}
	if timeout > maxTimeout {
		timeout = maxTimeout
	}

	fileProxy := ""
	if fc.Proxy != nil {
		fileProxy = fc.Proxy.URL
	}
	proxyURL := pick("", env("FILMBOARD_PROXY"), fileProxy, "")
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err != nil || u.Scheme == "" || u.Host == "" {
			return invalid(fmt.Errorf("proxy.url 无效：%q", proxyURL))
		}
	}

	tpl := pick("", env("FILMBOARD_DETAIL_LINK"), fc.DetailLinkTemplate, DefaultDetailLinkTemplate)
	if strings.Count(tpl, "%s") != 1 || strings.Count(tpl, "%") != 1 {
		return invalid(fmt.Errorf("detail_link_template 必须且只能包含一个 %%s：%q", tpl))
	}

	var level slog.Level
	if raw := env("LOG_LEVEL"); raw != "" {
		if err := level.UnmarshalText([]byte(raw)); err != nil {
			return invalid(fmt.Errorf("LOG_LEVEL 无效：%q", raw))
		}
	}

	return EffectiveConfig{
		Port:               port,
		Source:             source,
		BaseURL:            baseURL,
		City:               pick("", env("FILMBOARD_CITY"), fc.City, DefaultCity),
		Tag:                pick("", env("FILMBOARD_TAG"), fc.Tag, DefaultTag),
		Timeout:            timeout,
		ProxyURL:           proxyURL,
		DetailLinkTemplate: tpl,
		LogLevel:           level,
	}, nil
}

// pick 返回第一个非空值（按优先级从高到低传入）。
func pick(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func knownSource(s string) bool {
	for _, k := range Sources {
		if s == k {
			return true
		}
	}
	return false
}

// readFileConfig 读取并解析 JSON 配置文件；文件不存在不算错误。
func readFileConfig(path string) (FileConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, err
	}
	var fc FileConfig
	if err := json.Unmarshal(b, &fc); err != nil {
		return FileConfig{}, err
	}
	return fc, nil
}

// readDotEnv 读取 .env 为 map；不写入进程环境变量，避免覆盖真实环境。
func readDotEnv(path string) (map[string]string, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, err
	}
	return godotenv.Read(path)
}

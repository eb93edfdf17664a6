package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/filmboard/internal/config"
	"github.com/John-Robertt/filmboard/internal/infra/httpx"
	"github.com/John-Robertt/filmboard/internal/listing"
	"github.com/John-Robertt/filmboard/internal/normalize"
	"github.com/John-Robertt/filmboard/internal/provider"
	"github.com/John-Robertt/filmboard/internal/provider/douban"
)

func main() {
	err := newRootCmd().Execute()
	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	fmt.Fprintf(os.Stderr, "错误：%v\n", err)
	os.Exit(2)
}

// exitError 表示命令已自行输出结果，只需以 code 退出。
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error { return e.err }

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "filmboard",
		Short:         "抓取豆瓣电影列表并提供统一的列表接口与页面",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.String("port", "", "监听端口（默认读配置；最终默认 "+config.DefaultPort+"）")
	pf.String("source", "", "列表源："+strings.Join(config.Sources, "|"))
	pf.String("base-url", "", "上游站点地址（镜像或测试服务器）")
	pf.Duration("timeout", 0, "单次抓取超时（截断到 1s~60s）")

	root.AddCommand(newServeCmd(), newFetchCmd(), newShowCmd())
	return root
}

// loadConfig 读取工作目录下的配置并叠加全局 flag。
func loadConfig(cmd *cobra.Command) (config.EffectiveConfig, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return config.EffectiveConfig{}, fmt.Errorf("读取当前目录失败：%w", err)
	}

	f := cmd.Flags()
	port, _ := f.GetString("port")
	source, _ := f.GetString("source")
	baseURL, _ := f.GetString("base-url")
	timeout, _ := f.GetDuration("timeout")

	return config.LoadEffective(cwd, config.CLIArgs{
		Port:    port,
		Source:  source,
		BaseURL: baseURL,
		Timeout: timeout,
	})
}

// newService 按生效配置组装一次性流水线：provider + listing client + normalizer。
func newService(eff config.EffectiveConfig) (*listing.Service, error) {
	reg, err := provider.NewRegistry(douban.Providers(douban.Options{
		BaseURL: eff.BaseURL,
		City:    eff.City,
		Tag:     eff.Tag,
	})...)
	if err != nil {
		return nil, fmt.Errorf("初始化 provider registry 失败：%w", err)
	}
	p, ok := reg.Get(eff.Source)
	if !ok {
		return nil, fmt.Errorf("未注册的列表源 %q（可选：%s）", eff.Source, strings.Join(reg.Names(), "|"))
	}

	hc, err := httpx.NewListingClient(eff.ProxyURL, eff.Timeout)
	if err != nil {
		return nil, fmt.Errorf("初始化 HTTP client 失败：%w", err)
	}
	return listing.New(p, hc, normalize.New(eff.DetailLinkTemplate)), nil
}

// setupTextLogger 给一次性命令使用：日志走 stderr，不污染 stdout。
func setupTextLogger(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

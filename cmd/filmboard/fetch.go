package main

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/filmboard/internal/config"
	"github.com/John-Robertt/filmboard/internal/infra/fsx"
	"github.com/John-Robertt/filmboard/internal/listing"
	"github.com/John-Robertt/filmboard/internal/provider"
)

func newFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "执行一次抓取并输出列表 JSON",
		Long: `执行一次“抓取 -> 解析 -> 归一化”流水线。

stdout 为终端时输出摘要；否则 stdout 只输出一个列表 JSON（日志与摘要走 stderr）。
抓取失败时退出码为 1。`,
		Args: cobra.NoArgs,
		RunE: runFetch,
	}
	cmd.Flags().String("out", "", "把列表 JSON 原子写入该文件")
	cmd.Flags().String("raw", "", "把上游原始响应原子写入该文件（用于采集测试 fixture）")
	return cmd
}

func runFetch(cmd *cobra.Command, _ []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()

	eff, err := loadConfig(cmd)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", config.Code(err), err)
		return &exitError{code: 1, err: err}
	}
	setupTextLogger(stderr, eff.LogLevel)

	svc, err := newService(eff)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return &exitError{code: 1, err: err}
	}

	rawPath, _ := cmd.Flags().GetString("raw")
	outPath, _ := cmd.Flags().GetString("out")

	var raw []byte
	if rawPath != "" {
		svc.Raw = func(b []byte) { raw = b }
	}

	res := svc.Run(cmd.Context())

	if rawPath != "" && raw != nil {
		if err := fsx.WriteFile(rawPath, raw); err != nil {
			fmt.Fprintf(stderr, "写入原始响应失败：%v\n", err)
			return &exitError{code: 1, err: err}
		}
	}
	if outPath != "" {
		b, err := json.MarshalIndent(res.Response(), "", "  ")
		if err != nil {
			return err
		}
		if err := fsx.WriteFile(outPath, append(b, '\n')); err != nil {
			fmt.Fprintf(stderr, "写入列表 JSON 失败：%v\n", err)
			return &exitError{code: 1, err: err}
		}
	}

	emitResult(stdout, stderr, res)
	if res.Err != nil {
		return &exitError{code: 1, err: res.Err}
	}
	return nil
}

func emitResult(stdout, stderr io.Writer, res listing.Result) {
	if isTTY(stdout) {
		fmt.Fprintln(stdout, summaryLine(res))
		for _, s := range res.Skipped {
			fmt.Fprintf(stderr, "#%d skipped: %v\n", s.Index, s.Err)
		}
		if res.Err != nil {
			fmt.Fprintf(stderr, "%s %s: %v\n", res.Provider, provider.Stage(res.Err), res.Err)
		}
		return
	}

	// stdout 非 TTY：stdout 必须且仅输出一个列表 JSON。
	_ = json.NewEncoder(stdout).Encode(res.Response())
	fmt.Fprintln(stderr, summaryLine(res))
}

func summaryLine(res listing.Result) string {
	status := "ok"
	if res.Err != nil {
		status = "failed(" + provider.Stage(res.Err) + ")"
	}
	return fmt.Sprintf("完成：source=%s status=%s films=%d skipped=%d dur=%s",
		res.Provider, status, len(res.Films), len(res.Skipped), res.Duration.Round(time.Millisecond),
	)
}

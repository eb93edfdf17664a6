package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/John-Robertt/filmboard/internal/board"
	"github.com/John-Robertt/filmboard/internal/config"
	"github.com/John-Robertt/filmboard/internal/domain"
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "从运行中的服务拉取列表并按视图打印排行",
		Args:  cobra.NoArgs,
		RunE:  runShow,
	}
	cmd.Flags().String("server", "http://127.0.0.1:"+config.DefaultPort, "服务地址")
	cmd.Flags().Bool("domestic", false, "只显示国产/华语影片")
	cmd.Flags().String("sort", "score", "排序：score|date")
	return cmd
}

func runShow(cmd *cobra.Command, _ []string) error {
	stdout, stderr := cmd.OutOrStdout(), cmd.ErrOrStderr()
	setupTextLogger(stderr, slog.LevelInfo)

	serverURL, _ := cmd.Flags().GetString("server")
	domestic, _ := cmd.Flags().GetBool("domestic")
	sortRaw, _ := cmd.Flags().GetString("sort")

	sortMode, err := board.ParseSortMode(sortRaw)
	if err != nil {
		return err
	}

	b := board.New()
	if domestic {
		b.SetCategoryFilter(board.CategoryDomesticOnly)
	}
	b.SetSortMode(sortMode)

	d, err := board.NewClient(serverURL).Refresh(cmd.Context(), b)
	if err != nil {
		fmt.Fprintf(stderr, "加载失败：%s\n", d.Err)
		return &exitError{code: 1, err: err}
	}
	printRows(stdout, d)
	return nil
}

func printRows(w io.Writer, d board.Display) {
	if !d.HasData {
		fmt.Fprintln(w, "还没有收到列表数据")
		return
	}
	fmt.Fprintf(w, "视图：%s / %s，共 %d 部\n", d.View.Category, d.View.Sort, len(d.Rows))
	if len(d.Rows) == 0 {
		fmt.Fprintln(w, "没有符合条件的影片")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\t评分\t上映\t片名\t演员")
	for _, r := range d.Rows {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", r.Rank, scoreText(r.Film), dateText(r.Film), r.Film.Title, truncate(r.Film.Cast, 24))
	}
	_ = tw.Flush()
}

func scoreText(f domain.Film) string {
	if !f.Scored() {
		return "-"
	}
	return fmt.Sprintf("%.1f", f.Score)
}

func dateText(f domain.Film) string {
	if f.Unscheduled() {
		return "待定"
	}
	return f.ReleaseDate
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "…"
}

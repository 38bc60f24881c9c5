package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xinvoke/pkg/client/xbackend"
	"github.com/omeyang/xinvoke/pkg/resilience/xfanout"
	"github.com/omeyang/xinvoke/pkg/resilience/xinvoke"
	"github.com/omeyang/xinvoke/pkg/resilience/xretry"
)

// exitError 命令已完成输出，只需设置退出码
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// usageError 参数错误，退出码 2
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// isCLIUsageError 识别 urfave/cli 的参数解析错误
func isCLIUsageError(err error) bool {
	msg := err.Error()
	for _, prefix := range []string{
		"flag provided but not defined",
		"invalid value",
		"No help topic for",
		"flag needs an argument",
	} {
		if strings.Contains(msg, prefix) {
			return true
		}
	}
	return false
}

func createCommands(stdout, stderr io.Writer) []*cli.Command {
	return []*cli.Command{
		createFetchCommand(stdout, stderr),
		createDashboardCommand(stdout, stderr),
	}
}

// fetchArgs fetch 命令的一次调用参数
type fetchArgs struct {
	Resource xbackend.Resource
	ID       string
}

func createFetchCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "fetch",
		Aliases:   []string{"f"},
		Usage:     "获取资源列表或单条记录",
		ArgsUsage: "<resource> [id]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "retries",
				Aliases: []string{"r"},
				Usage:   "最大重试次数，优先于配置文件",
				Value:   -1,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			args := cmd.Args().Slice()
			if len(args) == 0 || len(args) > 2 {
				return usagef("fetch 需要 <resource> [id]")
			}
			resource, err := xbackend.ParseResource(args[0])
			if err != nil {
				return usagef("%v", err)
			}
			fa := fetchArgs{Resource: resource}
			if len(args) == 2 {
				fa.ID = args[1]
			}

			env, err := setupEnv(cmd, stderr)
			if err != nil {
				return err
			}
			defer env.close()

			if n := cmd.Int("retries"); n >= 0 {
				env.invoke.MaxRetries = n
			}
			return cmdFetch(ctx, env, fa, stdout, stderr)
		},
	}
}

func cmdFetch(ctx context.Context, env *environment, fa fetchArgs, stdout, stderr io.Writer) error {
	exec := xinvoke.New(func(ctx context.Context, a fetchArgs) (any, error) {
		if a.ID == "" {
			return env.client.List(ctx, a.Resource)
		}
		return env.client.Get(ctx, a.Resource, a.ID)
	},
		xinvoke.WithConfig(env.invoke),
		xinvoke.WithNotifier(terminalNotifier{w: stderr}),
		xinvoke.WithLogger(env.logger),
		xinvoke.WithObserver(env.observer),
		xinvoke.WithName("xinvokectl.fetch"),
	)

	data, ok := exec.Execute(ctx, fa)
	if !ok {
		return &exitError{code: 1}
	}
	return writeJSON(stdout, data)
}

func createDashboardCommand(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "dashboard",
		Aliases:   []string{"d"},
		Usage:     "并发获取多个资源",
		ArgsUsage: "[resource...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "concurrency",
				Usage: "最大并发数，0 表示不限制",
			},
			&cli.IntFlag{
				Name:  "retries-per-call",
				Usage: "每个资源的最大重试次数，优先于配置文件",
				Value: -1,
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			resources, err := parseResources(cmd.Args().Slice())
			if err != nil {
				return err
			}
			if cmd.Int("concurrency") < 0 {
				return usagef("--concurrency 不能为负数")
			}

			env, err := setupEnv(cmd, stderr)
			if err != nil {
				return err
			}
			defer env.close()

			if n := cmd.Int("retries-per-call"); n >= 0 {
				env.invoke.MaxRetries = n
			}
			return cmdDashboard(ctx, env, resources, cmd.Int("concurrency"), stdout)
		},
	}
}

func parseResources(args []string) ([]xbackend.Resource, error) {
	if len(args) == 0 {
		return xbackend.Resources(), nil
	}
	out := make([]xbackend.Resource, 0, len(args))
	for _, a := range args {
		r, err := xbackend.ParseResource(a)
		if err != nil {
			return nil, usagef("%v", err)
		}
		out = append(out, r)
	}
	return out, nil
}

func cmdDashboard(ctx context.Context, env *environment, resources []xbackend.Resource, concurrency int, stdout io.Writer) error {
	orch := xfanout.New[[]xbackend.Item](
		xfanout.WithConcurrency(concurrency),
		xfanout.WithLogger(env.logger),
		xfanout.WithObserver(env.observer),
		xfanout.WithName("xinvokectl.dashboard"),
	)
	retryer := xretry.NewRetryer(
		xretry.WithMaxRetries(env.invoke.MaxRetries),
		xretry.WithBackoff(xretry.NewDoublingBackoff(env.invoke.RetryDelay)),
	)

	calls := make([]xfanout.Call[[]xbackend.Item], 0, len(resources))
	for _, r := range resources {
		calls = append(calls, xfanout.Call[[]xbackend.Item]{
			ID: r.String(),
			Operation: func(ctx context.Context) ([]xbackend.Item, error) {
				return env.client.List(ctx, r)
			},
			Retryer: retryer,
		})
	}

	records := orch.ExecuteMultiple(ctx, calls)
	for _, rec := range records {
		if rec.OK() {
			fmt.Fprintf(stdout, "%-10s ok     %d items\n", rec.ID, len(rec.Data))
			continue
		}
		fmt.Fprintf(stdout, "%-10s error  %v\n", rec.ID, rec.Err)
	}
	if len(xfanout.Failed(records)) > 0 {
		return &exitError{code: 1}
	}
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

// terminalNotifier 将执行器通知写到终端
type terminalNotifier struct {
	w io.Writer
}

func (n terminalNotifier) Info(_ context.Context, msg string) {
	fmt.Fprintf(n.w, "[info] %s\n", msg)
}

func (n terminalNotifier) Success(_ context.Context, msg string) {
	fmt.Fprintf(n.w, "[ok] %s\n", msg)
}

func (n terminalNotifier) Error(_ context.Context, msg string) {
	fmt.Fprintf(n.w, "[error] %s\n", msg)
}

var _ xinvoke.Notifier = terminalNotifier{}

// setupSignalHandler 第一次信号优雅取消，第二次信号强制退出（130 = 128 + SIGINT）
func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()

		<-sigCh
		signal.Stop(sigCh)
		os.Exit(130)
	}()
}

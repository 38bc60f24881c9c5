// xinvokectl 是教务后端的命令行客户端，演示带重试的单次调用与并发批量调用。
//
// 用法:
//
//	xinvokectl [全局选项] <命令> [命令参数]
//
// 全局选项:
//
//	-u, --base-url     后端基础地址 (默认: http://localhost:3000/api)
//	-c, --config       配置文件 (.yaml/.yml/.json/.toml)
//	    --retry-delay  覆盖配置中的初始重试延迟
//	    --log-level    日志级别 (debug/info/warn/error, 默认 warn)
//	    --log-format   日志格式 (text/json)
//	    --log-file     日志文件，启用轮转
//
// 命令:
//
//	fetch <resource> [id]       获取资源列表或单条记录，失败时自动重试
//	dashboard [resource...]     并发获取多个资源（默认全部五个）
//
// 资源: students, coaches, branches, courses, payments
//
// 退出码:
//
//	0: 成功
//	1: 调用失败（dashboard: 任一资源失败）
//	2: 参数错误
//
// 配置文件示例 (YAML):
//
//	backend:
//	  base_url: http://localhost:3000/api
//	  timeout: 5s
//	  breaker_threshold: 5
//	invoke:
//	  max_retries: 3
//	  retry_delay: 1s
//
// 环境变量 XINVOKE_INVOKE_MAX__RETRIES=5 覆盖 invoke.max_retries。
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"
)

const defaultBaseURL = "http://localhost:3000/api"

// 版本信息（可通过 -ldflags 注入）
var (
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(cancel)

	code := run(ctx, os.Args, os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

// createApp 创建 CLI 应用，stdout 输出结果，stderr 输出通知与日志。
func createApp(stdout, stderr io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "xinvokectl",
		Usage:     "教务后端命令行客户端（带重试与并发批量调用）",
		Version:   fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base-url",
				Aliases: []string{"u"},
				Usage:   "后端基础地址，优先于配置文件",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "配置文件路径",
			},
			&cli.DurationFlag{
				Name:  "retry-delay",
				Usage: "初始重试延迟，优先于配置文件",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "日志级别",
				Value: "warn",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "日志格式 (text/json)",
				Value: "text",
			},
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "日志文件路径，设置后按大小轮转",
			},
		},
		Commands: createCommands(stdout, stderr),
		// 由 run() 统一映射退出码，禁止 urfave/cli 直接 os.Exit
		ExitErrHandler: func(_ context.Context, _ *cli.Command, err error) {
			if _, ok := err.(cli.ExitCoder); ok {
				fmt.Fprintln(stderr, err)
			}
		},
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := createApp(stdout, stderr)

	err := app.Run(ctx, args)
	if err == nil {
		return 0
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintf(stderr, "参数错误: %v\n", usageErr)
		return 2
	}
	if isCLIUsageError(err) {
		return 2
	}
	fmt.Fprintf(stderr, "错误: %v\n", err)
	return 1
}

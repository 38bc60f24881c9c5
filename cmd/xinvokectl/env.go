package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/omeyang/xinvoke/pkg/client/xbackend"
	"github.com/omeyang/xinvoke/pkg/config/xconf"
	"github.com/omeyang/xinvoke/pkg/observability/xlog"
	"github.com/omeyang/xinvoke/pkg/observability/xmetrics"
	"github.com/omeyang/xinvoke/pkg/resilience/xinvoke"
)

// envPrefix 环境变量覆盖前缀
const envPrefix = "XINVOKE_"

// backendSettings 配置文件 backend 节
type backendSettings struct {
	BaseURL          string        `koanf:"base_url"`
	Timeout          time.Duration `koanf:"timeout"`
	BreakerThreshold uint32        `koanf:"breaker_threshold"`
	BreakerTimeout   time.Duration `koanf:"breaker_timeout"`
}

// environment 单次命令执行所需的依赖
type environment struct {
	logger   xlog.Logger
	observer xmetrics.Observer
	client   *xbackend.Client
	invoke   xinvoke.Config
	cleanup  func() error
}

func (e *environment) close() {
	if e.cleanup != nil {
		_ = e.cleanup() //nolint:errcheck // 退出前关闭日志文件，错误无处可报
	}
}

// setupEnv 按 flag > 环境变量 > 配置文件 > 默认值 的优先级组装依赖
func setupEnv(cmd *cli.Command, stderr io.Writer) (*environment, error) {
	logger, cleanup, err := xlog.New().
		SetOutput(stderr).
		SetLevelString(cmd.String("log-level")).
		SetFormat(cmd.String("log-format")).
		SetRotation(cmd.String("log-file")).
		Build()
	if err != nil {
		return nil, usagef("日志配置无效: %v", err)
	}
	env := &environment{logger: logger, cleanup: cleanup}

	backend, invokeCfg, err := loadSettings(cmd.String("config"))
	if err != nil {
		env.close()
		return nil, err
	}
	if cmd.IsSet("retry-delay") {
		d := cmd.Duration("retry-delay")
		if d < 0 {
			env.close()
			return nil, usagef("--retry-delay 不能为负数")
		}
		invokeCfg.RetryDelay = d
	}
	if u := cmd.String("base-url"); u != "" {
		backend.BaseURL = u
	}
	env.invoke = invokeCfg

	observer, err := xmetrics.NewOTelObserver(xmetrics.WithInstrumentationName("xinvokectl"))
	if err != nil {
		logger.Warn(context.Background(), "otel observer unavailable, falling back to noop", xlog.Err(err))
		observer = xmetrics.NoopObserver{}
	}
	env.observer = observer

	client, err := xbackend.New(backend.BaseURL,
		xbackend.WithTimeout(backend.Timeout),
		xbackend.WithBreakerThreshold(backend.BreakerThreshold),
		xbackend.WithBreakerTimeout(backend.BreakerTimeout),
		xbackend.WithLogger(logger),
		xbackend.WithObserver(observer),
	)
	if err != nil {
		env.close()
		return nil, usagef("%v", err)
	}
	env.client = client
	return env, nil
}

// loadSettings 读取配置文件与环境变量，path 为空时只叠加环境变量
func loadSettings(path string) (backendSettings, xinvoke.Config, error) {
	backend := backendSettings{
		BaseURL: defaultBaseURL,
		Timeout: xbackend.DefaultTimeout,
	}
	var (
		cfg xconf.Config
		err error
	)
	if path == "" {
		// 无配置文件时仍读取 XINVOKE_ 环境变量
		cfg, err = xconf.NewFromBytes(nil, xconf.FormatYAML, xconf.WithEnvPrefix(envPrefix))
	} else {
		cfg, err = xconf.New(path, xconf.WithEnvPrefix(envPrefix))
	}
	if err != nil {
		return backend, xinvoke.Config{}, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Unmarshal("backend", &backend); err != nil {
		return backend, xinvoke.Config{}, fmt.Errorf("load config: %w", err)
	}
	invokeCfg, err := xinvoke.LoadConfig(cfg, "invoke")
	if err != nil {
		return backend, xinvoke.Config{}, fmt.Errorf("load config: %w", err)
	}
	return backend, invokeCfg, nil
}

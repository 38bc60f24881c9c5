package xinvoke

import (
	"fmt"
	"time"

	"github.com/omeyang/xinvoke/pkg/config/xconf"
)

const (
	DefaultMaxRetries = 3
	DefaultRetryDelay = time.Second
)

// Config 执行器配置，可由 koanf 从 YAML/JSON/TOML 加载。
type Config struct {
	// MaxRetries 首次尝试之后的最大重试次数
	MaxRetries int `koanf:"max_retries"`

	// RetryDelay 第一次重试前的等待时间，之后逐次翻倍
	RetryDelay time.Duration `koanf:"retry_delay"`

	ShowErrorToast   bool `koanf:"show_error_toast"`
	ShowSuccessToast bool `koanf:"show_success_toast"`

	// SuccessMessage 成功通知内容，为空时不发成功通知
	SuccessMessage string `koanf:"success_message"`

	// ErrorMessage 终态失败通知内容，为空时使用默认摘要
	ErrorMessage string `koanf:"error_message"`
}

// DefaultConfig 返回默认配置：重试 3 次，初始延迟 1s，失败时通知。
func DefaultConfig() Config {
	return Config{
		MaxRetries:     DefaultMaxRetries,
		RetryDelay:     DefaultRetryDelay,
		ShowErrorToast: true,
	}
}

// Validate 校验配置
func (c Config) Validate() error {
	if c.MaxRetries < 0 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxRetries, c.MaxRetries)
	}
	if c.RetryDelay < 0 {
		return fmt.Errorf("%w: got %s", ErrInvalidRetryDelay, c.RetryDelay)
	}
	return nil
}

// LoadConfig 从 cfg 的 path 节点读取执行器配置，缺失的键使用默认值。
func LoadConfig(cfg xconf.Config, path string) (Config, error) {
	c := DefaultConfig()
	if cfg == nil {
		return c, nil
	}
	if err := cfg.Unmarshal(path, &c); err != nil {
		return Config{}, err
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) errorSummary(attempts int, err error) string {
	if c.ErrorMessage != "" {
		return c.ErrorMessage
	}
	return fmt.Sprintf("Operation failed after %d attempts: %v", attempts, err)
}

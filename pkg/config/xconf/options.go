package xconf

type options struct {
	delim     string
	tag       string
	envPrefix string
}

// Option 配置加载选项
type Option func(*options)

func defaultOptions() *options {
	return &options{delim: ".", tag: "koanf"}
}

// WithDelim 设置配置键分隔符，默认 "."
func WithDelim(delim string) Option {
	return func(o *options) {
		if delim != "" {
			o.delim = delim
		}
	}
}

// WithTag 设置 Unmarshal 使用的结构体标签，默认 "koanf"
func WithTag(tag string) Option {
	return func(o *options) {
		if tag != "" {
			o.tag = tag
		}
	}
}

// WithEnvPrefix 启用环境变量覆盖，仅读取带该前缀的变量。
// 环境变量在文件之后加载，优先级更高。
func WithEnvPrefix(prefix string) Option {
	return func(o *options) { o.envPrefix = prefix }
}

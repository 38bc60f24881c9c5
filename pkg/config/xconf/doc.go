// Package xconf 基于 koanf 加载 xinvoke 的配置文件。
//
// 支持 YAML、JSON、TOML 三种格式，可选叠加环境变量覆盖：
//
//	cfg, err := xconf.New("xinvoke.yaml", xconf.WithEnvPrefix("XINVOKE_"))
//	var inv xinvoke.Config
//	err = cfg.Unmarshal("invoke", &inv)
//
// 环境变量映射规则：去掉前缀后转小写，单下划线表示层级，双下划线保留为字面下划线。
// 例如 XINVOKE_INVOKE_MAX__RETRIES 对应 invoke.max_retries。
//
// 时长字段支持 "500ms"、"2s" 这类字符串。
package xconf

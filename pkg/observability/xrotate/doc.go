// Package xrotate 提供日志文件轮转能力，底层使用 lumberjack。
//
// xinvokectl 通过 --log-file 把日志写入文件时经由 xlog.Builder.SetRotation 使用本包。
// 默认单文件 100MB、保留 5 个备份、30 天，并压缩旧文件。
package xrotate

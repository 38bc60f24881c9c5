// Package context 提供调用链上下文相关的子包。
//
// 子包列表：
//   - xctx: 在 context.Context 中传递 chain/batch/call ID 与尝试序号
//
// 所有调用链信息通过 context.Context 传递，不使用全局变量。
package context

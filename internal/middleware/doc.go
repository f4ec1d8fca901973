// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 這個包包含了各種中間件函數，用於在 HTTP 請求處理過程中執行額外的操作。
// 目前只有 Bearer token 的身份驗證：以不透明 token 查詢玩家並放入請求上下文。
package middleware

// Package api 處理 HTTP 請求路由和處理。
//
// 這個包包含了配對房間協定的所有 HTTP 處理器（handlers）。
// 它負責將 HTTP 請求轉換為適當的服務調用，並將結果轉換回 HTTP 響應；
// 狀態、難易度與入場結果等欄位在線路上維持整數編碼。
package api

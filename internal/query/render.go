package query

import (
	"fmt"
	"strings"

	"github.com/dvloznov/ledger-bot/internal/ledger"
)

// Reply texts shown to the customer.
const (
	MsgUnavailable  = "很抱歉，無法連接到交易資料庫，請稍後再試或聯繫管理員。"
	MsgUnknownError = "查詢交易紀錄時發生未知錯誤，請稍後再試。"

	recentHeader    = "--- 最近三筆交易紀錄 ---"
	unsettledHeader = "\n--- 未結清交易紀錄 ---"
	cardSeparator   = "---"
)

// NotFoundMessage echoes the query back to the customer.
func NotFoundMessage(name, id string) string {
	return fmt.Sprintf("找不到客戶 %s (%s) 的交易紀錄。", name, id)
}

// RenderCard formats one record as a reply card, one field per line.
func RenderCard(r ledger.Record) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 日期：%s\n", r.Date.Display())
	fmt.Fprintf(&b, "Ｎ 交易編號：%s\n", r.TransactionID.Display())
	fmt.Fprintf(&b, "👤 客戶：%s（%s）\n", r.CustomerName.Display(), r.CustomerID.Display())
	fmt.Fprintf(&b, "📌 細項：%s\n", r.Item.Display())
	fmt.Fprintf(&b, "🎞 產品：%s\n", r.Product.Display())
	fmt.Fprintf(&b, "💰 標價：%s\n", r.ListPrice.Display())
	fmt.Fprintf(&b, "💸 客戶收支：%s\n", r.CustomerAmount.Display())
	fmt.Fprintf(&b, "🏪 店家實收：%s\n", r.MerchantReceipt.Display())
	fmt.Fprintf(&b, "＄ 餘額：%s\n", r.Balance.Display())
	fmt.Fprintf(&b, "✅ 是否結清：%s", r.Settled.Display())
	return b.String()
}

// renderBlock appends a header followed by a card and separator per record.
func renderBlock(parts []string, header string, records []ledger.Record) []string {
	if len(records) == 0 {
		return parts
	}
	parts = append(parts, header)
	for _, r := range records {
		parts = append(parts, RenderCard(r), cardSeparator)
	}
	return parts
}

// compose joins the rendered blocks and drops the trailing separator.
func compose(parts []string) string {
	text := strings.Join(parts, "\n")
	text = strings.TrimSuffix(text, cardSeparator)
	return strings.TrimSpace(text)
}

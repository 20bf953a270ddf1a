// Package types 提供MTX系统的版税与费用配置类型定义
package types

// RoyaltyRecord 版税记录
// 接收方 + 万分比费率；按合约默认值与按代币ID覆盖值共用本结构
type RoyaltyRecord struct {
	Recipient Address     `json:"recipient"` // 版税接收方
	Bps       BasisPoints `json:"bps"`       // 版税基点，范围[0, 10000]
}

// IsZero 检查记录是否为空（未配置）
func (r RoyaltyRecord) IsZero() bool {
	return r.Recipient == ZeroAddress && r.Bps == 0
}

// FeeConfig 费用配置
// 与版税记录同样的两级作用域（合约默认 + 按代币覆盖），
// 额外携带一级销售接收方与平台费接收方
type FeeConfig struct {
	PrimarySaleRecipient Address     `json:"primary_sale_recipient"` // 一级销售收款方
	PlatformFeeRecipient Address     `json:"platform_fee_recipient"` // 平台费收款方
	PlatformFeeBps       BasisPoints `json:"platform_fee_bps"`       // 平台费基点，范围[0, 10000]
}

// IsZero 检查配置是否为空（未配置）
func (f FeeConfig) IsZero() bool {
	return f.PrimarySaleRecipient == ZeroAddress &&
		f.PlatformFeeRecipient == ZeroAddress &&
		f.PlatformFeeBps == 0
}

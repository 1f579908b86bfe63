package bulkbench

import "errors"

var (
	// ErrKeyCacheNotReady 主键缓存尚未完成预热
	ErrKeyCacheNotReady = errors.New("key cache not ready")

	// ErrNoUsersCached 预热时 users 表为空，数据集尚未初始化
	ErrNoUsersCached = errors.New("no existing users found in the database")

	// ErrNoProductsCached 预热时 products 表为空，数据集尚未初始化
	ErrNoProductsCached = errors.New("no existing products found in the database")

	// ErrUnknownStrategy 未注册的插入策略
	ErrUnknownStrategy = errors.New("unknown insert strategy")
)

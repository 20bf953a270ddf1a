package badger

// BadgerDB存储默认配置值
const (
	// defaultPath 默认数据目录
	defaultPath = "./data/badger"

	// defaultSyncWrites 默认关闭同步写入
	// 扩展状态的写入量小且全部经过事务提交，崩溃后可由badger的WAL恢复
	defaultSyncWrites = false

	// defaultMemTableSize 内存表大小设为64MB
	// 扩展/配置状态的数据量远小于链数据，无需badger默认的大内存表
	defaultMemTableSize = 64 << 20
)

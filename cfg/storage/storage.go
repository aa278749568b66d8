package storage

// Storage 配置数据存储接口
// 提供层级化配置访问和结构体绑定功能
type Storage interface {
	// Sub 获取子配置存储对象，例如 "database.hosts[0]"
	Sub(key string) Storage

	// ConvertTo 将配置数据绑定到结构体或者 map/slice
	ConvertTo(object any) error
}

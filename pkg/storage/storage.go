package storage

import (
	"io"
)

// FileInfo 文件元数据结构
type FileInfo struct {
	Name     string // 清洗后的文件名，同时作为访问标识
	Original string // 原始文件名
	Size     int64  // 文件大小(字节)
	Path     string // 磁盘绝对路径
}

// Storage 文件存储接口
// 以文件名为键保存上传文件，供静态路由按名访问
type Storage interface {
	// Save 保存文件并返回文件信息，同名文件会被覆盖
	Save(reader io.Reader, filename string) (FileInfo, error)

	// Get 获取文件内容
	Get(name string) (io.ReadCloser, error)

	// Delete 删除文件
	Delete(name string) error

	// List 列出所有文件
	List() ([]FileInfo, error)

	// Exists 检查文件是否存在
	Exists(name string) (bool, error)
}
